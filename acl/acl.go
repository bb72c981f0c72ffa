// Package acl holds the access rules as plain predicates over an Actor and
// the resource's ownership/visibility attributes. Controllers resolve the
// object first and apply predicates after, so an inaccessible resource is
// reported as not found rather than forbidden.
package acl

// Actor is the capability snapshot of a requester, derived from JWT claims.
// The zero value is an anonymous requester.
type Actor struct {
	UserID        uint
	Username      string
	Authenticated bool
	Admin         bool
}

// CanView reports whether the actor may read an owned resource carrying a
// public flag: everyone sees public items, owners and admins also see
// private ones.
func CanView(a Actor, ownerID uint, isPublic bool) bool {
	if isPublic {
		return true
	}
	return a.Authenticated && (a.UserID == ownerID || a.Admin)
}

// CanModify reports whether the actor may mutate an owned resource.
func CanModify(a Actor, ownerID uint) bool {
	return a.Authenticated && (a.UserID == ownerID || a.Admin)
}

// CanCurate gates admin-maintained reference data (cities, sites, highlights).
func CanCurate(a Actor) bool {
	return a.Authenticated && a.Admin
}

// SelfOrAdmin gates per-user operations such as profile reads and
// deactivation.
func SelfOrAdmin(a Actor, userID uint) bool {
	return a.Authenticated && (a.UserID == userID || a.Admin)
}
