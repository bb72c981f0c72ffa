package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/acl"
	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

// ItineraryController handles CRUD on itineraries and their visibility rules.
type ItineraryController struct {
	db *gorm.DB
}

// NewItineraryController creates an ItineraryController.
func NewItineraryController(db *gorm.DB) *ItineraryController {
	return &ItineraryController{db: db}
}

// visibleScope narrows an itineraries query to what the actor may see:
// everything for admins, public plus own for clients, public only otherwise.
func (c *ItineraryController) visibleScope(actor acl.Actor) *gorm.DB {
	q := c.db.Model(&models.Itinerary{})
	switch {
	case actor.Admin:
		return q
	case actor.Authenticated:
		return q.Where("is_public = ? OR owner_id = ?", true, actor.UserID)
	default:
		return q.Where("is_public = ?", true)
	}
}

// List returns itineraries visible to the caller.
//
// Query params: allPublic=true restricts to public regardless of auth,
// owner=<id> filters by author (private ones only for the owner or admins),
// sortBy=view|like|posted_on orders descending, limit caps the result.
func (c *ItineraryController) List(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	q := c.visibleScope(actor)

	if strings.EqualFold(ctx.Query("allPublic"), "true") {
		q = c.db.Model(&models.Itinerary{}).Where("is_public = ?", true)
	} else if ownerID, ok := parseUintQuery(ctx, "owner"); ok {
		if actor.Admin || (actor.Authenticated && actor.UserID == ownerID) {
			q = c.db.Model(&models.Itinerary{}).Where("owner_id = ?", ownerID)
		} else {
			q = c.db.Model(&models.Itinerary{}).Where("owner_id = ? AND is_public = ?", ownerID, true)
		}
	}

	switch ctx.Query("sortBy") {
	case "view":
		q = q.Order("view_count DESC")
	case "like":
		q = q.Order("like_count DESC")
	default:
		q = q.Order("created_at DESC")
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	var items []models.Itinerary
	if err := q.Preload("Owner").Limit(limit).Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to retrieve itineraries")
		return
	}
	utils.Success(ctx, items)
}

// Retrieve returns one itinerary with its ordered day trips and sites.
// A retrieval by anyone but the owner bumps the view counter.
func (c *ItineraryController) Retrieve(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid itinerary id")
		return
	}

	itinerary, found := c.loadVisible(ctx, actor, id)
	if !found {
		return
	}

	if !actor.Authenticated || actor.UserID != itinerary.OwnerID {
		if err := c.db.Model(&models.Itinerary{}).Where("id = ?", itinerary.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err == nil {
			itinerary.ViewCount++
		}
	}

	var trips []models.DayTrip
	if err := c.db.Where("itinerary_id = ?", itinerary.ID).Order("day ASC").
		Preload("Sites", func(db *gorm.DB) *gorm.DB { return db.Order("site_order ASC") }).
		Preload("Sites.Site").
		Find(&trips).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve day trips")
		return
	}

	utils.Success(ctx, gin.H{
		"itinerary": itinerary,
		"day_trips": dayTripPayloads(trips),
	})
}

// Create creates an itinerary owned by the caller.
func (c *ItineraryController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		Title       string `json:"title" binding:"required,max=128"`
		Image       string `json:"image"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	itinerary := models.Itinerary{
		OwnerID:     actor.UserID,
		Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
		Image:       strings.TrimSpace(req.Image),
		Description: utils.Sanitize(req.Description),
		IsPublic:    req.IsPublic,
	}
	if itinerary.Title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40022, "title must not be empty")
		return
	}

	if err := c.db.Create(&itinerary).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create itinerary")
		return
	}
	utils.Success(ctx, itinerary)
}

// Update modifies itinerary fields; owner or admin only.
func (c *ItineraryController) Update(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid itinerary id")
		return
	}

	itinerary, found := c.loadVisible(ctx, actor, id)
	if !found {
		return
	}
	if !acl.CanModify(actor, itinerary.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only modify your own itineraries")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Image       *string `json:"image"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, 40022, "title must not be empty")
			return
		}
		updates["title"] = title
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}
	if req.Description != nil {
		updates["description"] = utils.Sanitize(*req.Description)
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) == 0 {
		utils.Success(ctx, itinerary)
		return
	}

	if err := c.db.Model(itinerary).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to update itinerary")
		return
	}
	utils.Success(ctx, itinerary)
}

// Destroy deletes an itinerary and, through cascading constraints, its day
// trips, sites, comments and likes; owner or admin only.
func (c *ItineraryController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid itinerary id")
		return
	}

	itinerary, found := c.loadVisible(ctx, actor, id)
	if !found {
		return
	}
	if !acl.CanModify(actor, itinerary.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40320, "you can only delete your own itineraries")
		return
	}

	if err := c.db.Delete(itinerary).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to delete itinerary")
		return
	}
	utils.Success(ctx, gin.H{"message": "itinerary deleted"})
}

// loadVisible fetches an itinerary through the actor's visibility scope and
// writes a 404 when it is missing or hidden. Hidden resources are
// indistinguishable from missing ones.
func (c *ItineraryController) loadVisible(ctx *gin.Context, actor acl.Actor, id uint) (*models.Itinerary, bool) {
	var itinerary models.Itinerary
	err := c.db.Preload("Owner").First(&itinerary, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "itinerary not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to retrieve itinerary")
		return nil, false
	}
	if !acl.CanView(actor, itinerary.OwnerID, itinerary.IsPublic) {
		utils.Error(ctx, http.StatusNotFound, 40420, "itinerary not found")
		return nil, false
	}
	return &itinerary, true
}

func dayTripPayloads(trips []models.DayTrip) []gin.H {
	out := make([]gin.H, 0, len(trips))
	for i := range trips {
		out = append(out, gin.H{
			"id":           trips[i].ID,
			"itinerary_id": trips[i].ItineraryID,
			"day":          trips[i].Day,
			"sites":        trips[i].Sites,
		})
	}
	return out
}
