package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Site{},
		&models.Itinerary{},
		&models.DayTrip{},
		&models.DayTripSite{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Featured{},
	))
	return db
}

// asUser injects an authenticated identity the way the JWT middleware does.
func asUser(id uint, admin bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, id)
		ctx.Set(middleware.ContextUsernameKey, fmt.Sprintf("user%d", id))
		ctx.Set(middleware.ContextAdminKey, admin)
		ctx.Next()
	}
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func perform(t *testing.T, r *gin.Engine, method, target string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedItinerary(t *testing.T, db *gorm.DB, ownerID uint, public bool) models.Itinerary {
	t.Helper()
	it := models.Itinerary{OwnerID: ownerID, Title: "trip", IsPublic: public}
	require.NoError(t, db.Create(&it).Error)
	return it
}

func seedDayTrips(t *testing.T, db *gorm.DB, it models.Itinerary, n int) []models.DayTrip {
	t.Helper()
	trips := make([]models.DayTrip, 0, n)
	for day := 0; day < n; day++ {
		trip := models.DayTrip{OwnerID: it.OwnerID, ItineraryID: it.ID, Day: day}
		require.NoError(t, db.Create(&trip).Error)
		trips = append(trips, trip)
	}
	return trips
}

func TestItineraryVisibility(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	private := seedItinerary(t, db, owner.ID, false)

	c := NewItineraryController(db)

	anon := gin.New()
	anon.GET("/itineraries/:id", c.Retrieve)
	w, _ := perform(t, anon, http.MethodGet, fmt.Sprintf("/itineraries/%d", private.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	asOther := gin.New()
	asOther.Use(asUser(other.ID, false))
	asOther.GET("/itineraries/:id", c.Retrieve)
	w, _ = perform(t, asOther, http.MethodGet, fmt.Sprintf("/itineraries/%d", private.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.GET("/itineraries/:id", c.Retrieve)
	w, _ = perform(t, asOwner, http.MethodGet, fmt.Sprintf("/itineraries/%d", private.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	asAdmin := gin.New()
	asAdmin.Use(asUser(other.ID, true))
	asAdmin.GET("/itineraries/:id", c.Retrieve)
	w, _ = perform(t, asAdmin, http.MethodGet, fmt.Sprintf("/itineraries/%d", private.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestItineraryListScoping(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	seedItinerary(t, db, owner.ID, true)
	seedItinerary(t, db, owner.ID, false)

	c := NewItineraryController(db)

	anon := gin.New()
	anon.GET("/itineraries", c.List)
	w, env := perform(t, anon, http.MethodGet, "/itineraries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anonList []models.Itinerary
	require.NoError(t, json.Unmarshal(env.Data, &anonList))
	require.Len(t, anonList, 1)

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.GET("/itineraries", c.List)
	w, env = perform(t, asOwner, http.MethodGet, "/itineraries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ownList []models.Itinerary
	require.NoError(t, json.Unmarshal(env.Data, &ownList))
	require.Len(t, ownList, 2)
}

func TestItineraryForeignRetrieveBumpsViewCount(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewItineraryController(db)

	asViewer := gin.New()
	asViewer.Use(asUser(viewer.ID, false))
	asViewer.GET("/itineraries/:id", c.Retrieve)
	w, _ := perform(t, asViewer, http.MethodGet, fmt.Sprintf("/itineraries/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.GET("/itineraries/:id", c.Retrieve)
	w, _ = perform(t, asOwner, http.MethodGet, fmt.Sprintf("/itineraries/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Itinerary
	require.NoError(t, db.First(&reloaded, it.ID).Error)
	require.EqualValues(t, 1, reloaded.ViewCount, "only the foreign retrieval counts")
}

func TestItineraryUpdateForbiddenForNonOwner(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewItineraryController(db)

	asOther := gin.New()
	asOther.Use(asUser(other.ID, false))
	asOther.PATCH("/itineraries/:id", c.Update)
	w, _ := perform(t, asOther, http.MethodPatch, fmt.Sprintf("/itineraries/%d", it.ID),
		gin.H{"title": "hijacked"})
	require.Equal(t, http.StatusForbidden, w.Code)

	asAdmin := gin.New()
	asAdmin.Use(asUser(other.ID, true))
	asAdmin.PATCH("/itineraries/:id", c.Update)
	w, _ = perform(t, asAdmin, http.MethodPatch, fmt.Sprintf("/itineraries/%d", it.ID),
		gin.H{"title": "moderated"})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Itinerary
	require.NoError(t, db.First(&reloaded, it.ID).Error)
	require.Equal(t, "moderated", reloaded.Title)
}

func TestLikeCreateConflictKeepsCounterConsistent(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewLikeController(db)
	r := gin.New()
	r.Use(asUser(fan.ID, false))
	r.POST("/likes", c.Create)

	w, _ := perform(t, r, http.MethodPost, "/likes", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodPost, "/likes", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusConflict, w.Code)

	var reloaded models.Itinerary
	require.NoError(t, db.First(&reloaded, it.ID).Error)
	require.EqualValues(t, 1, reloaded.LikeCount)

	var likeCount int64
	require.NoError(t, db.Model(&models.Like{}).Where("itinerary_id = ?", it.ID).Count(&likeCount).Error)
	require.EqualValues(t, 1, likeCount)
}

func TestLikeDestroyIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewLikeController(db)
	r := gin.New()
	r.Use(asUser(fan.ID, false))
	r.POST("/likes", c.Create)
	r.DELETE("/likes/:id", c.Destroy)

	w, _ := perform(t, r, http.MethodPost, "/likes", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = perform(t, r, http.MethodDelete, fmt.Sprintf("/likes/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodDelete, fmt.Sprintf("/likes/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Itinerary
	require.NoError(t, db.First(&reloaded, it.ID).Error)
	require.EqualValues(t, 0, reloaded.LikeCount, "second unlike must not drive the counter negative")
}

func TestDayTripReorderEndpoint(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	it := seedItinerary(t, db, owner.ID, false)
	trips := seedDayTrips(t, db, it, 4)

	c := NewDayTripController(db)
	r := gin.New()
	r.Use(asUser(owner.ID, false))
	r.PATCH("/day-trips/:id", c.Reorder)

	// Move the last day trip to day 1; everything in between shifts up.
	w, env := perform(t, r, http.MethodPatch,
		fmt.Sprintf("/day-trips/%d?new_order=1", trips[3].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ordered []models.DayTrip
	require.NoError(t, json.Unmarshal(env.Data, &ordered))
	require.Len(t, ordered, 4)
	wantIDs := []uint{trips[0].ID, trips[3].ID, trips[1].ID, trips[2].ID}
	for i, trip := range ordered {
		require.Equal(t, wantIDs[i], trip.ID)
		require.Equal(t, i, trip.Day)
	}
}

func TestDayTripReorderValidation(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	other := seedUser(t, db, "other")
	it := seedItinerary(t, db, owner.ID, false)
	trips := seedDayTrips(t, db, it, 3)

	c := NewDayTripController(db)

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.PATCH("/day-trips/:id", c.Reorder)

	w, _ := perform(t, asOwner, http.MethodPatch, fmt.Sprintf("/day-trips/%d", trips[0].ID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "missing new_order")

	w, _ = perform(t, asOwner, http.MethodPatch, fmt.Sprintf("/day-trips/%d?new_order=abc", trips[0].ID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "non-numeric new_order")

	w, _ = perform(t, asOwner, http.MethodPatch, fmt.Sprintf("/day-trips/%d?new_order=3", trips[0].ID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "position past the end")

	// The itinerary is private: a stranger cannot even learn it exists.
	asOther := gin.New()
	asOther.Use(asUser(other.ID, false))
	asOther.PATCH("/day-trips/:id", c.Reorder)
	w, _ = perform(t, asOther, http.MethodPatch, fmt.Sprintf("/day-trips/%d?new_order=1", trips[0].ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDayTripCreateInsertsAndShifts(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	it := seedItinerary(t, db, owner.ID, false)
	trips := seedDayTrips(t, db, it, 3)

	c := NewDayTripController(db)
	r := gin.New()
	r.Use(asUser(owner.ID, false))
	r.POST("/day-trips", c.Create)

	day := 1
	w, env := perform(t, r, http.MethodPost, "/day-trips",
		gin.H{"itinerary_id": it.ID, "day": day})
	require.Equal(t, http.StatusOK, w.Code)

	var created models.DayTrip
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 1, created.Day)

	var all []models.DayTrip
	require.NoError(t, db.Where("itinerary_id = ?", it.ID).Order("day ASC").Find(&all).Error)
	require.Len(t, all, 4)
	wantIDs := []uint{trips[0].ID, created.ID, trips[1].ID, trips[2].ID}
	for i, trip := range all {
		require.Equal(t, wantIDs[i], trip.ID)
		require.Equal(t, i, trip.Day)
	}

	// Without a day the new day trip goes to the end.
	w, env = perform(t, r, http.MethodPost, "/day-trips", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Equal(t, 4, created.Day)
}

func TestDayTripDestroyClosesGap(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	it := seedItinerary(t, db, owner.ID, false)
	trips := seedDayTrips(t, db, it, 3)

	c := NewDayTripController(db)
	r := gin.New()
	r.Use(asUser(owner.ID, false))
	r.DELETE("/day-trips/:id", c.Destroy)

	w, _ := perform(t, r, http.MethodDelete, fmt.Sprintf("/day-trips/%d", trips[1].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var all []models.DayTrip
	require.NoError(t, db.Where("itinerary_id = ?", it.ID).Order("day ASC").Find(&all).Error)
	require.Len(t, all, 2)
	require.Equal(t, trips[0].ID, all[0].ID)
	require.Equal(t, 0, all[0].Day)
	require.Equal(t, trips[2].ID, all[1].ID)
	require.Equal(t, 1, all[1].Day)
}

func TestDayTripSiteCreateAndReorder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	it := seedItinerary(t, db, owner.ID, false)
	trip := seedDayTrips(t, db, it, 1)[0]

	sites := make([]models.Site, 3)
	for i := range sites {
		sites[i] = models.Site{Name: fmt.Sprintf("site-%d", i), SiteCategory: models.SiteCategoryAttraction}
		require.NoError(t, db.Create(&sites[i]).Error)
	}

	c := NewDayTripSiteController(db)
	r := gin.New()
	r.Use(asUser(owner.ID, false))
	r.POST("/day-trip-sites", c.Create)
	r.PATCH("/day-trip-sites/:id", c.Reorder)

	var stops []models.DayTripSite
	for i := range sites {
		w, env := perform(t, r, http.MethodPost, "/day-trip-sites",
			gin.H{"day_trip_id": trip.ID, "site_id": sites[i].ID})
		require.Equal(t, http.StatusOK, w.Code)
		var stop models.DayTripSite
		require.NoError(t, json.Unmarshal(env.Data, &stop))
		require.Equal(t, i, stop.SiteOrder)
		stops = append(stops, stop)
	}

	// Unknown site is a validation error, not a server fault.
	w, _ := perform(t, r, http.MethodPost, "/day-trip-sites",
		gin.H{"day_trip_id": trip.ID, "site_id": 9999})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, env := perform(t, r, http.MethodPatch,
		fmt.Sprintf("/day-trip-sites/%d?new_order=0", stops[2].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ordered []models.DayTripSite
	require.NoError(t, json.Unmarshal(env.Data, &ordered))
	require.Len(t, ordered, 3)
	wantIDs := []uint{stops[2].ID, stops[0].ID, stops[1].ID}
	for i, stop := range ordered {
		require.Equal(t, wantIDs[i], stop.ID)
		require.Equal(t, i, stop.SiteOrder)
		require.NotZero(t, stop.Site.ID, "site payload attached")
	}
}

func TestCommentLifecycle(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	visitor := seedUser(t, db, "visitor")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewCommentController(db)

	asVisitor := gin.New()
	asVisitor.Use(asUser(visitor.ID, false))
	asVisitor.POST("/comments", c.Create)
	asVisitor.PATCH("/comments/:id", c.Update)

	w, env := perform(t, asVisitor, http.MethodPost, "/comments",
		gin.H{"itinerary_id": it.ID, "comment": "nice trip<script>alert(1)</script>"})
	require.Equal(t, http.StatusOK, w.Code)

	var comment models.Comment
	require.NoError(t, json.Unmarshal(env.Data, &comment))
	require.NotContains(t, comment.Comment, "<script>")
	require.Contains(t, comment.Comment, "nice trip")

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.PATCH("/comments/:id", c.Update)
	asOwner.DELETE("/comments/:id", c.Destroy)

	// Only the author edits; even the itinerary owner may not.
	w, _ = perform(t, asOwner, http.MethodPatch, fmt.Sprintf("/comments/%d", comment.ID),
		gin.H{"comment": "edited"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w, _ = perform(t, asVisitor, http.MethodPatch, fmt.Sprintf("/comments/%d", comment.ID),
		gin.H{"comment": "edited"})
	require.Equal(t, http.StatusOK, w.Code)

	asAdmin := gin.New()
	asAdmin.Use(asUser(owner.ID, true))
	asAdmin.DELETE("/comments/:id", c.Destroy)
	w, _ = perform(t, asAdmin, http.MethodDelete, fmt.Sprintf("/comments/%d", comment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestFavoriteConflictAndRemoval(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")
	it := seedItinerary(t, db, owner.ID, true)

	c := NewFavoriteController(db)
	r := gin.New()
	r.Use(asUser(fan.ID, false))
	r.GET("/favorites", c.List)
	r.POST("/favorites", c.Create)
	r.DELETE("/favorites/:id", c.Destroy)

	w, _ := perform(t, r, http.MethodPost, "/favorites", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodPost, "/favorites", gin.H{"itinerary_id": it.ID})
	require.Equal(t, http.StatusConflict, w.Code)

	w, env := perform(t, r, http.MethodGet, "/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var favorites []models.Favorite
	require.NoError(t, json.Unmarshal(env.Data, &favorites))
	require.Len(t, favorites, 1)
	require.Equal(t, it.ID, favorites[0].Itinerary.ID)

	w, _ = perform(t, r, http.MethodDelete, fmt.Sprintf("/favorites/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, r, http.MethodDelete, fmt.Sprintf("/favorites/%d", it.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestFeaturedRequiresAdminAndPublic(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	private := seedItinerary(t, db, owner.ID, false)
	public := seedItinerary(t, db, owner.ID, true)

	c := NewFeaturedController(db)

	asOwner := gin.New()
	asOwner.Use(asUser(owner.ID, false))
	asOwner.POST("/featured", c.Create)
	w, _ := perform(t, asOwner, http.MethodPost, "/featured", gin.H{"itinerary_id": public.ID})
	require.Equal(t, http.StatusForbidden, w.Code)

	asAdmin := gin.New()
	asAdmin.Use(asUser(owner.ID, true))
	asAdmin.POST("/featured", c.Create)

	w, _ = perform(t, asAdmin, http.MethodPost, "/featured", gin.H{"itinerary_id": private.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(t, asAdmin, http.MethodPost, "/featured", gin.H{"itinerary_id": public.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = perform(t, asAdmin, http.MethodPost, "/featured", gin.H{"itinerary_id": public.ID})
	require.Equal(t, http.StatusConflict, w.Code)
}
