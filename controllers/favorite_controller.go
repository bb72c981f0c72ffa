package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

// FavoriteController handles per-user itinerary bookmarks.
type FavoriteController struct {
	db          *gorm.DB
	itineraries *ItineraryController
}

// NewFavoriteController creates a FavoriteController.
func NewFavoriteController(db *gorm.DB) *FavoriteController {
	return &FavoriteController{db: db, itineraries: NewItineraryController(db)}
}

// List returns the caller's favorites, newest first, with each itinerary
// attached.
func (c *FavoriteController) List(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var favorites []models.Favorite
	if err := c.db.Where("user_id = ?", actor.UserID).
		Preload("Itinerary").Preload("Itinerary.Owner").
		Order("created_at DESC").Find(&favorites).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to retrieve favorites")
		return
	}
	utils.Success(ctx, favorites)
}

// Create bookmarks a visible itinerary; bookmarking twice is a conflict.
func (c *FavoriteController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		ItineraryID uint `json:"itinerary_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}

	itinerary, found := c.itineraries.loadVisible(ctx, actor, req.ItineraryID)
	if !found {
		return
	}

	favorite := models.Favorite{UserID: actor.UserID, ItineraryID: itinerary.ID}
	if err := c.db.Create(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40970, "already in favorites")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to create favorite")
		return
	}
	utils.Success(ctx, favorite)
}

// Destroy removes the caller's bookmark of the itinerary in the :id param.
// Removing an absent bookmark is a no-op.
func (c *FavoriteController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	itineraryID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40071, "invalid itinerary id")
		return
	}

	if err := c.db.Where("user_id = ? AND itinerary_id = ?", actor.UserID, itineraryID).
		Delete(&models.Favorite{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to remove favorite")
		return
	}
	utils.Success(ctx, gin.H{"message": "favorite removed"})
}
