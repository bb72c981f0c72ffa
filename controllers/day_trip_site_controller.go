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

var dayTripSiteIndex = ordering.New[*models.DayTripSite]("day_trip_sites", "day_trip_id", "site_order")

// DayTripSiteController handles the ordered site stops inside one day trip.
type DayTripSiteController struct {
	db    *gorm.DB
	trips *DayTripController
}

// NewDayTripSiteController creates a DayTripSiteController.
func NewDayTripSiteController(db *gorm.DB) *DayTripSiteController {
	return &DayTripSiteController{db: db, trips: NewDayTripController(db)}
}

// List returns the stops of one day trip in visiting order, with each
// referenced site attached. The day_trip query parameter is required.
func (c *DayTripSiteController) List(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	dayTripID, ok := parseUintQuery(ctx, "day_trip")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "day_trip query parameter is required")
		return
	}

	if _, found := c.loadVisibleParent(ctx, actor, dayTripID); !found {
		return
	}

	stops, err := dayTripSiteIndex.Siblings(c.db, dayTripID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to retrieve day trip sites")
		return
	}
	if err := c.attachSites(stops); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load sites")
		return
	}
	utils.Success(ctx, stops)
}

// Retrieve returns one stop; its day trip's itinerary must be visible.
func (c *DayTripSiteController) Retrieve(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	stop, _, found := c.loadVisibleStop(ctx, actor)
	if !found {
		return
	}
	if err := c.attachSites([]*models.DayTripSite{stop}); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load sites")
		return
	}
	utils.Success(ctx, stop)
}

// Create appends a stop to the day trip, or squeezes it in at the requested
// order, shifting later stops up by one.
func (c *DayTripSiteController) Create(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)

	var req struct {
		DayTripID uint `json:"day_trip_id" binding:"required"`
		SiteID    uint `json:"site_id" binding:"required"`
		Order     *int `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	trip, found := c.loadVisibleParent(ctx, actor, req.DayTripID)
	if !found {
		return
	}
	if !acl.CanModify(actor, trip.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "you can only modify your own itineraries")
		return
	}

	var site models.Site
	if err := c.db.First(&site, req.SiteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusBadRequest, 40042, "site does not exist")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to retrieve site")
		return
	}

	stop := &models.DayTripSite{
		OwnerID:   trip.OwnerID,
		DayTripID: trip.ID,
		SiteID:    site.ID,
	}
	if err := dayTripSiteIndex.Insert(c.db, stop, req.Order); err != nil {
		if errors.Is(err, ordering.ErrOutOfRange) {
			utils.Error(ctx, http.StatusBadRequest, 40043, "order out of range")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to create day trip site")
		return
	}
	stop.Site = site
	utils.Success(ctx, stop)
}

// Reorder moves a stop to the rank given by the new_order query parameter
// and returns the day trip's full stop list in its new order.
func (c *DayTripSiteController) Reorder(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	stop, trip, found := c.loadVisibleStop(ctx, actor)
	if !found {
		return
	}
	if !acl.CanModify(actor, trip.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "you can only modify your own itineraries")
		return
	}

	newOrder, err := strconv.Atoi(ctx.Query("new_order"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "new_order must be an integer")
		return
	}

	if err := dayTripSiteIndex.Move(c.db, stop, newOrder); err != nil {
		if errors.Is(err, ordering.ErrOutOfRange) {
			utils.Error(ctx, http.StatusBadRequest, 40043, "order out of range")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to reorder day trip site")
		return
	}

	stops, err := dayTripSiteIndex.Siblings(c.db, stop.DayTripID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to retrieve day trip sites")
		return
	}
	if err := c.attachSites(stops); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load sites")
		return
	}
	utils.Success(ctx, stops)
}

// Destroy deletes a stop and closes the gap it leaves behind.
func (c *DayTripSiteController) Destroy(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	stop, trip, found := c.loadVisibleStop(ctx, actor)
	if !found {
		return
	}
	if !acl.CanModify(actor, trip.OwnerID) {
		utils.Error(ctx, http.StatusForbidden, 40340, "you can only modify your own itineraries")
		return
	}

	if err := dayTripSiteIndex.Remove(c.db, stop); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to delete day trip site")
		return
	}
	utils.Success(ctx, gin.H{"message": "day trip site deleted"})
}

// loadVisibleParent fetches the day trip and verifies its itinerary is
// visible to the actor; a hidden itinerary yields 404.
func (c *DayTripSiteController) loadVisibleParent(ctx *gin.Context, actor acl.Actor, dayTripID uint) (*models.DayTrip, bool) {
	var trip models.DayTrip
	if err := c.db.First(&trip, dayTripID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "day trip not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to retrieve day trip")
		return nil, false
	}

	var itinerary models.Itinerary
	if err := c.db.First(&itinerary, trip.ItineraryID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "day trip not found")
		return nil, false
	}
	if !acl.CanView(actor, itinerary.OwnerID, itinerary.IsPublic) {
		utils.Error(ctx, http.StatusNotFound, 40440, "day trip not found")
		return nil, false
	}
	return &trip, true
}

func (c *DayTripSiteController) loadVisibleStop(ctx *gin.Context, actor acl.Actor) (*models.DayTripSite, *models.DayTrip, bool) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid day trip site id")
		return nil, nil, false
	}

	var stop models.DayTripSite
	if err := c.db.First(&stop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40441, "day trip site not found")
			return nil, nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to retrieve day trip site")
		return nil, nil, false
	}

	trip, found := c.loadVisibleParent(ctx, actor, stop.DayTripID)
	if !found {
		return nil, nil, false
	}
	return &stop, trip, true
}

// attachSites fills in the Site of each stop with one batched query.
// Siblings queries by table name, so preloading is not available there.
func (c *DayTripSiteController) attachSites(stops []*models.DayTripSite) error {
	if len(stops) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(stops))
	for _, s := range stops {
		ids = append(ids, s.SiteID)
	}

	var sites []models.Site
	if err := c.db.Where("id IN ?", utils.UniqueUint(ids)).Find(&sites).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.Site, len(sites))
	for _, s := range sites {
		byID[s.ID] = s
	}
	for _, stop := range stops {
		if site, ok := byID[stop.SiteID]; ok {
			stop.Site = site
		}
	}
	return nil
}
