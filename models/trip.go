package models

import "time"

// DayTrip is one day of an itinerary. Day is its rank within the itinerary;
// the (itinerary_id, day) pair is unique so no two day trips share a slot.
type DayTrip struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OwnerID     uint          `gorm:"index;not null" json:"owner_id"`
	ItineraryID uint          `gorm:"not null;uniqueIndex:idx_day_trip_slot" json:"itinerary_id"`
	Day         int           `gorm:"not null;uniqueIndex:idx_day_trip_slot" json:"day"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Sites       []DayTripSite `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Ordered-member accessors used by the ordering package.

func (d *DayTrip) MemberID() uint { return d.ID }
func (d *DayTrip) GroupID() uint  { return d.ItineraryID }
func (d *DayTrip) Pos() int       { return d.Day }
func (d *DayTrip) SetPos(p int)   { d.Day = p }

// DayTripSite places a Site at a rank within a day trip. SiteOrder is unique
// per day trip; the Site reference is shared, not owned.
type DayTripSite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`
	DayTripID uint      `gorm:"not null;uniqueIndex:idx_day_trip_site_slot" json:"day_trip_id"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	SiteOrder int       `gorm:"not null;uniqueIndex:idx_day_trip_site_slot" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Site      Site      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"site"`
}

func (s *DayTripSite) MemberID() uint { return s.ID }
func (s *DayTripSite) GroupID() uint  { return s.DayTripID }
func (s *DayTripSite) Pos() int       { return s.SiteOrder }
func (s *DayTripSite) SetPos(p int)   { s.SiteOrder = p }
