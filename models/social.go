package models

import "time"

// Comment is a reply on a public itinerary.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ItineraryID uint      `gorm:"index;not null" json:"itinerary_id"`
	OwnerID     uint      `gorm:"index;not null" json:"owner_id"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time `json:"posted_on"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// Like marks that a user liked an itinerary. The (itinerary_id, owner_id)
// pair is unique: at most one like per user per itinerary. Creating and
// deleting a Like adjusts Itinerary.LikeCount in the same transaction.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ItineraryID uint      `gorm:"not null;uniqueIndex:idx_like_owner" json:"itinerary_id"`
	OwnerID     uint      `gorm:"not null;uniqueIndex:idx_like_owner" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Favorite bookmarks an itinerary for a user.
type Favorite struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_favorite_user" json:"user_id"`
	ItineraryID uint      `gorm:"not null;uniqueIndex:idx_favorite_user" json:"itinerary_id"`
	CreatedAt   time.Time `json:"created_at"`
	Itinerary   Itinerary `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"itinerary"`
}
