package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/acl"
	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/ordering"
	"github.com/xianlu/trips/utils"
)

var dayTripIndex = ordering.New[*models.DayTrip]("day_trips", "itinerary_id", "day")

// DayTripController handles day trips within an itinerary, including the
// position shuffling triggered by reorders, inserts and removals.
type DayTripController struct {
	db          *gorm.DB
	itineraries *ItineraryController
}

// NewDayTripController creates a DayTripController.
func NewDayTripController(db *gorm.DB) *DayTripController {
	return &DayTripController{db: db, itineraries: NewItineraryController(db)}
}

// List returns the day trips of one itinerary in day order.
// The itinerary query param is required.
func (c *DayTripController) List(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	itineraryID, ok := parseUintQuery(ctx, "itinerary")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40030, "itinerary query parameter is required")
		return
	}

	if _, found := c.itineraries.loadVisible(ctx, actor, itineraryID); !found {
		return
	}

	trips, err := dayTripIndex.Siblings(c.db, itineraryID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to retrieve day trips")
		return
	}
	utils.Success(ctx, trips)
}

// Retrieve returns one day trip; its parent itinerary must be visible.
func (c *DayTripController) Retrieve(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	trip, found := c.loadVisibleTrip(ctx, actor)
	if !found {
		return
	}
	utils.Success(ctx, trip)
}

// Create appends a day trip to the itinerary, or squeezes it in at the
// requested day, shifting later day trips up by one.
func (c *DayTripController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		ItineraryID uint `json:"itinerary_id" binding:"required"`
		Day         *int `json:"day"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid request payload")
		return
	}

	itinerary, found := c.itineraries.loadVisible(ctx, actor, req.ItineraryID)
	if !found {
		return
	}
	if !acl.CanModify(actor, itinerary.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only modify your own itineraries")
		return
	}

	trip := &models.DayTrip{OwnerID: itinerary.OwnerID, ItineraryID: itinerary.ID}
	if err := dayTripIndex.Insert(c.db, trip, req.Day); err != nil {
		if errors.Is(err, ordering.ErrOutOfRange) {
			utils.Error(ctx, http.StatusBadRequest, 40032, "day out of range")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create day trip")
		return
	}
	utils.Success(ctx, trip)
}

// Reorder moves a day trip to the day given by the new_order query parameter
// and returns the itinerary's full day trip list in its new order.
func (c *DayTripController) Reorder(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	trip, found := c.loadVisibleTrip(ctx, actor)
	if !found {
		return
	}
	if !acl.CanModify(actor, trip.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only modify your own itineraries")
		return
	}

	newOrder, err := strconv.Atoi(ctx.Query("new_order"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "new_order must be an integer")
		return
	}

	if err := dayTripIndex.Move(c.db, trip, newOrder); err != nil {
		if errors.Is(err, ordering.ErrOutOfRange) {
			utils.Error(ctx, http.StatusBadRequest, 40032, "day out of range")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to reorder day trip")
		return
	}

	trips, err := dayTripIndex.Siblings(c.db, trip.ItineraryID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to retrieve day trips")
		return
	}
	utils.Success(ctx, trips)
}

// Destroy deletes a day trip and closes the gap it leaves behind.
func (c *DayTripController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	trip, found := c.loadVisibleTrip(ctx, actor)
	if !found {
		return
	}
	if !acl.CanModify(actor, trip.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40330, "you can only modify your own itineraries")
		return
	}

	if err := dayTripIndex.Remove(c.db, trip); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete day trip")
		return
	}
	utils.Success(ctx, gin.H{"message": "day trip deleted"})
}

// loadVisibleTrip fetches the day trip from the :id param and verifies its
// parent itinerary is visible to the actor; hidden parents yield 404.
func (c *DayTripController) loadVisibleTrip(ctx *gin.Context, actor acl.Actor) (*models.DayTrip, bool) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid day trip id")
		return nil, false
	}

	var trip models.DayTrip
	if err := c.db.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40430, "day trip not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to retrieve day trip")
		return nil, false
	}

	var itinerary models.Itinerary
	if err := c.db.First(&itinerary, trip.ItineraryID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "day trip not found")
		return nil, false
	}
	if !acl.CanView(actor, itinerary.OwnerID, itinerary.IsPublic) {
		utils.Error(ctx, http.StatusNotFound, 40430, "day trip not found")
		return nil, false
	}
	return &trip, true
}
