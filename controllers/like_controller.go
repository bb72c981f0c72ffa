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

// LikeController handles likes on itineraries. The like row and the
// itinerary's denormalized like counter always change in one transaction.
type LikeController struct {
	db          *gorm.DB
	itineraries *ItineraryController
}

// NewLikeController creates a LikeController.
func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{db: db, itineraries: NewItineraryController(db)}
}

// List returns likes, optionally filtered by user or itinerary.
func (c *LikeController) List(ctx *gin.Context) {
	q := c.db.Model(&models.Like{})
	if userID, ok := parseUintQuery(ctx, "user"); ok {
		q = q.Where("owner_id = ?", userID)
	}
	if itineraryID, ok := parseUintQuery(ctx, "itinerary"); ok {
		q = q.Where("itinerary_id = ?", itineraryID)
	}

	var likes []models.Like
	if err := q.Order("created_at DESC").Find(&likes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to retrieve likes")
		return
	}
	utils.Success(ctx, likes)
}

// Create likes the itinerary named in the body. A second like by the same
// user hits the unique (itinerary, owner) index and comes back as a conflict,
// leaving the counter untouched.
func (c *LikeController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		ItineraryID uint `json:"itinerary_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	itinerary, found := c.itineraries.loadVisible(ctx, actor, req.ItineraryID)
	if !found {
		return
	}

	like := models.Like{ItineraryID: itinerary.ID, OwnerID: actor.UserID}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Itinerary{}).Where("id = ?", itinerary.ID).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40950, "already liked")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to like itinerary")
		return
	}
	utils.Success(ctx, like)
}

// Destroy removes the caller's like from the itinerary in the :id param and
// decrements the counter. Unliking something never liked is a no-op.
func (c *LikeController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	itineraryID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid itinerary id")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("itinerary_id = ? AND owner_id = ?", itineraryID, actor.UserID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Itinerary{}).Where("id = ?", itineraryID).
			UpdateColumn("like_count", gorm.Expr("like_count - ?", res.RowsAffected)).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to unlike itinerary")
		return
	}
	utils.Success(ctx, gin.H{"message": "like removed"})
}
