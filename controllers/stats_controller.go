package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

// StatsController exposes aggregated platform and per-itinerary counters.
type StatsController struct {
	db          *gorm.DB
	itineraries *ItineraryController
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db, itineraries: NewItineraryController(db)}
}

// Platform returns site-wide totals plus today's recorded page views.
// Results are cached for a minute to keep the landing page cheap.
func (c *StatsController) Platform(ctx *gin.Context) {
	const key = "cache:stats:platform"
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var userCount, itineraryCount, commentCount, likeCount int64
	if err := c.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to compute stats")
		return
	}
	if err := c.db.Model(&models.Itinerary{}).Where("is_public = ?", true).Count(&itineraryCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to compute stats")
		return
	}
	if err := c.db.Model(&models.Comment{}).Count(&commentCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to compute stats")
		return
	}
	if err := c.db.Model(&models.Like{}).Count(&likeCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to compute stats")
		return
	}

	today := localMidnight(time.Now())
	var viewsToday int64
	c.db.Model(&models.PageView{}).Where("date = ?", today).
		Select("COALESCE(SUM(count), 0)").Scan(&viewsToday)

	payload := gin.H{
		"users":              userCount,
		"public_itineraries": itineraryCount,
		"comments":           commentCount,
		"likes":              likeCount,
		"views_today":        viewsToday,
	}
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Minute)
	utils.Success(ctx, payload)
}

// DailyViews returns the page view aggregates of the last `days` days
// (default 7, max 90), ordered date ascending.
func (c *StatsController) DailyViews(ctx *gin.Context) {
	days := 7
	if v, ok := parseUintQuery(ctx, "days"); ok {
		days = int(v)
	}
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}

	since := localMidnight(time.Now()).AddDate(0, 0, -(days - 1))

	type row struct {
		Date  time.Time `json:"date"`
		Total int64     `json:"total"`
	}
	var rows []row
	if err := c.db.Model(&models.PageView{}).
		Select("date, SUM(count) AS total").
		Where("date >= ?", since).
		Group("date").Order("date ASC").
		Scan(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50111, "failed to compute daily views")
		return
	}
	utils.Success(ctx, rows)
}

// localMidnight matches how the page view recorder keys the date column.
func localMidnight(now time.Time) time.Time {
	now = now.In(time.Local)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// Itinerary returns the counters of one visible itinerary.
func (c *StatsController) Itinerary(ctx *gin.Context) {
	actor := middleware.CurrentActor(ctx)
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40110, "invalid itinerary id")
		return
	}

	itinerary, found := c.itineraries.loadVisible(ctx, actor, id)
	if !found {
		return
	}

	var commentCount, dayTripCount int64
	c.db.Model(&models.Comment{}).Where("itinerary_id = ?", itinerary.ID).Count(&commentCount)
	c.db.Model(&models.DayTrip{}).Where("itinerary_id = ?", itinerary.ID).Count(&dayTripCount)

	utils.Success(ctx, gin.H{
		"itinerary_id": itinerary.ID,
		"views":        itinerary.ViewCount,
		"likes":        itinerary.LikeCount,
		"comments":     commentCount,
		"day_trips":    dayTripCount,
	})
}
