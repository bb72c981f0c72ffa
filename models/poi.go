package models

import "time"

// Site categories. A Site row is the shared payload that day trips reference;
// category-specific attributes live in the one-to-one tables below.
const (
	SiteCategoryAttraction = "Attraction"
	SiteCategoryRestaurant = "Restaurant"
	SiteCategoryHotel      = "Hotel"
)

// City is admin-curated reference data grouping sites by destination.
type City struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CountryName string    `gorm:"size:64;not null" json:"country_name"`
	CityName    string    `gorm:"size:64;not null" json:"city_name"`
	Photo       string    `gorm:"size:512" json:"photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Site is a visitable point of interest: an attraction, restaurant or hotel.
type Site struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Latitude     string    `gorm:"size:15" json:"latitude"`
	Longitude    string    `gorm:"size:15" json:"longitude"`
	SiteCategory string    `gorm:"size:32;not null" json:"site_category"`
	URL          string    `gorm:"size:255" json:"url"`
	CityID       *uint     `gorm:"index" json:"city_id"`
	Address      string    `gorm:"size:255" json:"address"`
	Description  string    `gorm:"type:text" json:"description"`
	Photo        string    `gorm:"size:512" json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidSiteCategory reports whether s is one of the known site categories.
func ValidSiteCategory(s string) bool {
	switch s {
	case SiteCategoryAttraction, SiteCategoryRestaurant, SiteCategoryHotel:
		return true
	}
	return false
}

// Attraction extends a Site with attraction-specific attributes.
type Attraction struct {
	SiteID   uint   `gorm:"primaryKey" json:"site_id"`
	Category string `gorm:"size:64" json:"category"`
	Site     Site   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"site"`
}

// Restaurant extends a Site with an opening time (unix seconds).
type Restaurant struct {
	SiteID   uint   `gorm:"primaryKey" json:"site_id"`
	Category string `gorm:"size:64" json:"category"`
	OpenAt   int64  `json:"open_at"`
	Site     Site   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"site"`
}

// Hotel extends a Site with a star rating.
type Hotel struct {
	SiteID   uint    `gorm:"primaryKey" json:"site_id"`
	Category string  `gorm:"size:64" json:"category"`
	StarRate float64 `gorm:"type:decimal(2,1)" json:"star_rate"`
	Site     Site    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"site"`
}
