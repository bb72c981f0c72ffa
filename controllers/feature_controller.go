package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

// HighlightController handles the admin-curated landing page banners.
type HighlightController struct {
	db *gorm.DB
}

// NewHighlightController creates a HighlightController.
func NewHighlightController(db *gorm.DB) *HighlightController {
	return &HighlightController{db: db}
}

// List returns all highlights, newest first.
func (c *HighlightController) List(ctx *gin.Context) {
	var items []models.Highlight
	if err := c.db.Order("created_at DESC").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to retrieve highlights")
		return
	}
	utils.Success(ctx, items)
}

// Create adds a highlight; admin only.
func (c *HighlightController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		Photo      string `json:"photo" binding:"required"`
		HeaderText string `json:"headertext" binding:"max=64"`
		URL        string `json:"url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40100, "invalid request payload")
		return
	}

	item := models.Highlight{
		Photo:      strings.TrimSpace(req.Photo),
		HeaderText: strings.TrimSpace(req.HeaderText),
		URL:        strings.TrimSpace(req.URL),
	}
	if err := c.db.Create(&item).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to create highlight")
		return
	}
	utils.Success(ctx, item)
}

// Destroy removes a highlight; admin only.
func (c *HighlightController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40101, "invalid highlight id")
		return
	}

	res := c.db.Delete(&models.Highlight{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50102, "failed to delete highlight")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40490, "highlight not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "highlight deleted"})
}

// FeaturedController handles admin-promoted itineraries.
type FeaturedController struct {
	db *gorm.DB
}

// NewFeaturedController creates a FeaturedController.
func NewFeaturedController(db *gorm.DB) *FeaturedController {
	return &FeaturedController{db: db}
}

// List returns featured itineraries with their payloads, newest first.
// Private itineraries are skipped; featuring does not override visibility.
func (c *FeaturedController) List(ctx *gin.Context) {
	var items []models.Featured
	err := c.db.
		Joins("JOIN itineraries ON itineraries.id = featureds.itinerary_id AND itineraries.is_public = ?", true).
		Preload("Itinerary").Preload("Itinerary.Owner").
		Order("featureds.created_at DESC").
		Find(&items).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50103, "failed to retrieve featured itineraries")
		return
	}
	utils.Success(ctx, items)
}

// Create features a public itinerary; admin only. Featuring the same
// itinerary twice is a conflict.
func (c *FeaturedController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		ItineraryID uint `json:"itinerary_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40102, "invalid request payload")
		return
	}

	var itinerary models.Itinerary
	if err := c.db.First(&itinerary, req.ItineraryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "itinerary not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to retrieve itinerary")
		return
	}
	if !itinerary.IsPublic {
		utils.Error(ctx, http.StatusBadRequest, 40103, "only public itineraries can be featured")
		return
	}

	item := models.Featured{ItineraryID: itinerary.ID}
	if err := c.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40990, "itinerary is already featured")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50105, "failed to feature itinerary")
		return
	}
	utils.Success(ctx, item)
}

// Destroy unfeatures the itinerary in the :id param; admin only.
func (c *FeaturedController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	itineraryID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40104, "invalid itinerary id")
		return
	}

	res := c.db.Where("itinerary_id = ?", itineraryID).Delete(&models.Featured{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50106, "failed to unfeature itinerary")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40491, "featured itinerary not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "itinerary unfeatured"})
}
