package models

import "time"

// Itinerary is a user-authored multi-day trip plan. ViewCount and LikeCount
// are denormalized counters: likes maintain LikeCount inside the same
// transaction as the likes row, and foreign retrievals bump ViewCount.
type Itinerary struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Image       string    `gorm:"size:512" json:"image"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	ViewCount   int64     `gorm:"not null;default:0" json:"view"`
	LikeCount   int64     `gorm:"not null;default:0" json:"like"`
	CreatedAt   time.Time `json:"posted_on"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"owner"`
	DayTrips    []DayTrip `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Comments    []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
