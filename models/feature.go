package models

import "time"

// Highlight is an admin-curated banner shown on the landing page.
type Highlight struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Photo      string    `gorm:"size:512" json:"photo"`
	HeaderText string    `gorm:"size:64" json:"headertext"`
	URL        string    `gorm:"size:255" json:"url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Featured promotes a single itinerary; one itinerary can be featured once.
type Featured struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ItineraryID uint      `gorm:"not null;uniqueIndex" json:"itinerary_id"`
	CreatedAt   time.Time `json:"created_at"`
	Itinerary   Itinerary `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"itinerary"`
}
