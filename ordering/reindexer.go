// Package ordering maintains dense, uniquely-ranked sibling groups stored in
// the database: day trips within an itinerary and sites within a day trip.
// Both groups share one generic reindexer instead of per-type shift loops.
//
// Every mutation preserves two invariants for the affected group:
//
//   - uniqueness: no two siblings share a position (backed by a unique index
//     on (parent, position)),
//   - density: the n live positions are exactly {0, ..., n-1}.
//
// Moves run as a two-phase shift: the member is first parked at a sentinel
// position outside the valid range, which vacates its slot so neighbors can
// be shifted one at a time without ever tripping the unique index, then the
// member lands on its target. All mutations run inside a single transaction,
// so a partial shift is never durable and concurrent reorders on the same
// group serialize on the sibling row locks.
package ordering

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel is the transient parking position used while a member's slot is
// being vacated. It is outside the valid range, so it cannot collide with a
// neighbor being shifted.
const Sentinel = -1

// ErrOutOfRange reports a target position outside [0, n-1] for the group.
var ErrOutOfRange = errors.New("ordering: position out of range")

// Member is one row of a positionally ordered sibling group.
type Member interface {
	MemberID() uint
	GroupID() uint
	Pos() int
	SetPos(int)
}

// Reindexer moves, inserts, and removes members of one ordered-sibling-group
// type. T is the model pointer type, e.g. *models.DayTrip.
type Reindexer[T Member] struct {
	table     string
	parentCol string
	posCol    string
}

// New builds a Reindexer for the given table and its parent/position columns.
func New[T Member](table, parentCol, posCol string) Reindexer[T] {
	return Reindexer[T]{table: table, parentCol: parentCol, posCol: posCol}
}

// Move shifts member from its current position to newPos, renumbering every
// sibling in between by one. Targets outside [0, n-1] are rejected with
// ErrOutOfRange rather than clamped. Moving to the current position is a
// no-op. Writes are O(|shift range|), not O(n).
func (r Reindexer[T]) Move(db *gorm.DB, member T, newPos int) error {
	if newPos < 0 {
		return ErrOutOfRange
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// Lock the whole sibling group up front; two concurrent moves on the
		// same parent must not interleave their shifts.
		n, err := r.lockGroup(tx, member.GroupID())
		if err != nil {
			return err
		}
		if int64(newPos) >= n {
			return ErrOutOfRange
		}

		// Re-read the member under the group lock; its position may have
		// moved since the caller loaded it.
		if err := tx.First(member, member.MemberID()).Error; err != nil {
			return err
		}
		original := member.Pos()
		if newPos == original {
			return nil
		}

		// Phase one: park the member at the sentinel to free its slot.
		if err := tx.Model(member).Update(r.posCol, Sentinel).Error; err != nil {
			return err
		}

		// Phase two: shift the affected range one row at a time, walking
		// toward the vacated slot so each write lands on a free position.
		var siblings []T
		q := tx.Table(r.table).Where(r.parentCol+" = ?", member.GroupID())
		step := 0
		if newPos > original {
			q = q.Where(r.posCol+" > ? AND "+r.posCol+" <= ?", original, newPos).
				Order(r.posCol + " ASC")
			step = -1
		} else {
			q = q.Where(r.posCol+" >= ? AND "+r.posCol+" < ?", newPos, original).
				Order(r.posCol + " DESC")
			step = 1
		}
		if err := q.Find(&siblings).Error; err != nil {
			return err
		}
		for _, s := range siblings {
			if err := tx.Model(s).Update(r.posCol, s.Pos()+step).Error; err != nil {
				return err
			}
			s.SetPos(s.Pos() + step)
		}

		if err := tx.Model(member).Update(r.posCol, newPos).Error; err != nil {
			return err
		}
		member.SetPos(newPos)
		return nil
	})
}

// Insert creates member inside its group. With at == nil it appends after the
// current last position (0 for an empty group). An explicit position within
// the current range first shifts every sibling at or above it up by one to
// make room; a position at or past the end appends. Negative positions are
// rejected.
func (r Reindexer[T]) Insert(db *gorm.DB, member T, at *int) error {
	if at != nil && *at < 0 {
		return ErrOutOfRange
	}

	return db.Transaction(func(tx *gorm.DB) error {
		n, err := r.lockGroup(tx, member.GroupID())
		if err != nil {
			return err
		}

		pos := int(n)
		if at != nil && *at < int(n) {
			pos = *at
			// Shift up from the top down so each increment moves into a
			// position that is already free.
			var siblings []T
			err := tx.Table(r.table).
				Where(r.parentCol+" = ? AND "+r.posCol+" >= ?", member.GroupID(), pos).
				Order(r.posCol + " DESC").
				Find(&siblings).Error
			if err != nil {
				return err
			}
			for _, s := range siblings {
				if err := tx.Model(s).Update(r.posCol, s.Pos()+1).Error; err != nil {
					return err
				}
				s.SetPos(s.Pos() + 1)
			}
		}

		member.SetPos(pos)
		return tx.Create(member).Error
	})
}

// Remove deletes member and closes the gap it leaves, shifting every sibling
// above it down by one. The row is deleted before the scan, so its position
// is free and no sentinel is needed.
func (r Reindexer[T]) Remove(db *gorm.DB, member T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.lockGroup(tx, member.GroupID()); err != nil {
			return err
		}
		if err := tx.First(member, member.MemberID()).Error; err != nil {
			return err
		}

		original := member.Pos()
		if err := tx.Delete(member).Error; err != nil {
			return err
		}

		var siblings []T
		err := tx.Table(r.table).
			Where(r.parentCol+" = ? AND "+r.posCol+" > ?", member.GroupID(), original).
			Order(r.posCol + " ASC").
			Find(&siblings).Error
		if err != nil {
			return err
		}
		for _, s := range siblings {
			if err := tx.Model(s).Update(r.posCol, s.Pos()-1).Error; err != nil {
				return err
			}
			s.SetPos(s.Pos() - 1)
		}
		return nil
	})
}

// Siblings returns the group's members in position order.
func (r Reindexer[T]) Siblings(db *gorm.DB, parentID uint) ([]T, error) {
	var siblings []T
	err := db.Table(r.table).
		Where(r.parentCol+" = ?", parentID).
		Order(r.posCol + " ASC").
		Find(&siblings).Error
	return siblings, err
}

// lockGroup takes row locks on the full sibling set and returns its size.
// sqlite has no SELECT ... FOR UPDATE; its single-writer transactions already
// serialize the group, so the clause is skipped there.
func (r Reindexer[T]) lockGroup(tx *gorm.DB, parentID uint) (int64, error) {
	q := tx.Table(r.table).Where(r.parentCol+" = ?", parentID)
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
