package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/acl"
	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

// CommentController handles comments on itineraries.
type CommentController struct {
	db          *gorm.DB
	itineraries *ItineraryController
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db, itineraries: NewItineraryController(db)}
}

// List returns the comments of one itinerary, newest first.
// The itinerary query parameter is required.
func (c *CommentController) List(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	itineraryID, ok := parseUintQuery(ctx, "itinerary")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40060, "itinerary query parameter is required")
		return
	}

	if _, found := c.itineraries.loadVisible(ctx, actor, itineraryID); !found {
		return
	}

	var comments []models.Comment
	if err := c.db.Where("itinerary_id = ?", itineraryID).
		Preload("Owner").Order("created_at DESC").Find(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to retrieve comments")
		return
	}
	utils.Success(ctx, comments)
}

// Create posts a comment on a visible itinerary.
func (c *CommentController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		ItineraryID uint   `json:"itinerary_id" binding:"required"`
		Comment     string `json:"comment" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}

	if _, found := c.itineraries.loadVisible(ctx, actor, req.ItineraryID); !found {
		return
	}

	body := utils.Sanitize(strings.TrimSpace(req.Comment))
	if body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40062, "comment must not be empty")
		return
	}

	comment := models.Comment{
		ItineraryID: req.ItineraryID,
		OwnerID:     actor.UserID,
		Comment:     body,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create comment")
		return
	}
	utils.Success(ctx, comment)
}

// Update edits a comment's text; author only.
func (c *CommentController) Update(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	comment, found := c.loadVisibleComment(ctx, actor)
	if !found {
		return
	}
	if comment.OwnerID != actor.UserID {
		utils.Error(ctx, http.StatusForbidden, 40360, "you can only edit your own comments")
		return
	}

	var req struct {
		Comment string `json:"comment" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40061, "invalid request payload")
		return
	}
	body := utils.Sanitize(strings.TrimSpace(req.Comment))
	if body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40062, "comment must not be empty")
		return
	}

	if err := c.db.Model(comment).Update("comment", body).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update comment")
		return
	}
	utils.Success(ctx, comment)
}

// Destroy deletes a comment; author or admin only.
func (c *CommentController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	comment, found := c.loadVisibleComment(ctx, actor)
	if !found {
		return
	}
	if !acl.CanModify(actor, comment.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40361, "you can only delete your own comments")
		return
	}

	if err := c.db.Delete(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to delete comment")
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// loadVisibleComment fetches the comment from the :id param; a comment whose
// itinerary is hidden from the actor is reported as missing.
func (c *CommentController) loadVisibleComment(ctx *gin.Context, actor acl.Actor) (*models.Comment, bool) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid comment id")
		return nil, false
	}

	var comment models.Comment
	if err := c.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40460, "comment not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to retrieve comment")
		return nil, false
	}

	var itinerary models.Itinerary
	if err := c.db.First(&itinerary, comment.ItineraryID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "comment not found")
		return nil, false
	}
	if !acl.CanView(actor, itinerary.OwnerID, itinerary.IsPublic) {
		utils.Error(ctx, http.StatusNotFound, 40460, "comment not found")
		return nil, false
	}
	return &comment, true
}
