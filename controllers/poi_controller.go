package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/acl"
	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/utils"
)

const (
	poiCachePrefix = "cache:poi:"
	poiCacheTTL    = 10 * time.Minute
)

// CityController handles the admin-curated city catalog.
type CityController struct {
	db *gorm.DB
}

// NewCityController creates a CityController.
func NewCityController(db *gorm.DB) *CityController {
	return &CityController{db: db}
}

// List returns all cities. Results are cached; mutations flush the cache.
func (c *CityController) List(ctx *gin.Context) {
	key := poiCachePrefix + "city"
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var cities []models.City
	if err := c.db.Order("country_name ASC, city_name ASC").Find(&cities).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to retrieve cities")
		return
	}
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: cities}, poiCacheTTL)
	utils.Success(ctx, cities)
}

// Retrieve returns one city.
func (c *CityController) Retrieve(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid city id")
		return
	}

	var city models.City
	if err := c.db.First(&city, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "city not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to retrieve city")
		return
	}
	utils.Success(ctx, city)
}

// Create adds a city; admin only.
func (c *CityController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		CountryName string `json:"country_name" binding:"required,max=64"`
		CityName    string `json:"city_name" binding:"required,max=64"`
		Photo       string `json:"photo"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid request payload")
		return
	}

	city := models.City{
		CountryName: strings.TrimSpace(req.CountryName),
		CityName:    strings.TrimSpace(req.CityName),
		Photo:       strings.TrimSpace(req.Photo),
	}
	if err := c.db.Create(&city).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to create city")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, city)
}

// Update modifies a city; admin only.
func (c *CityController) Update(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid city id")
		return
	}

	var city models.City
	if err := c.db.First(&city, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40480, "city not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to retrieve city")
		return
	}

	var req struct {
		CountryName *string `json:"country_name"`
		CityName    *string `json:"city_name"`
		Photo       *string `json:"photo"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid request payload")
		return
	}
	if req.CountryName != nil {
		city.CountryName = strings.TrimSpace(*req.CountryName)
	}
	if req.CityName != nil {
		city.CityName = strings.TrimSpace(*req.CityName)
	}
	if req.Photo != nil {
		city.Photo = strings.TrimSpace(*req.Photo)
	}

	if err := c.db.Save(&city).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to update city")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, city)
}

// Destroy removes a city; admin only. Sites keep a dangling-free reference
// because CityID is nullable.
func (c *CityController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid city id")
		return
	}

	res := c.db.Delete(&models.City{}, id)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to delete city")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40480, "city not found")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, gin.H{"message": "city deleted"})
}

// sitePayload is the nested site body shared by the attraction, restaurant
// and hotel endpoints.
type sitePayload struct {
	Name        string `json:"name" binding:"required,max=128"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	URL         string `json:"url"`
	CityID      *uint  `json:"city_id"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

func (p sitePayload) toSite(category string) models.Site {
	return models.Site{
		Name:         strings.TrimSpace(p.Name),
		Latitude:     strings.TrimSpace(p.Latitude),
		Longitude:    strings.TrimSpace(p.Longitude),
		SiteCategory: category,
		URL:          strings.TrimSpace(p.URL),
		CityID:       p.CityID,
		Address:      strings.TrimSpace(p.Address),
		Description:  utils.Sanitize(p.Description),
		Photo:        strings.TrimSpace(p.Photo),
	}
}

// sitePatch carries partial site updates for the admin POI endpoints.
type sitePatch struct {
	Name        *string `json:"name"`
	Latitude    *string `json:"latitude"`
	Longitude   *string `json:"longitude"`
	URL         *string `json:"url"`
	CityID      *uint   `json:"city_id"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	Photo       *string `json:"photo"`
}

func (p *sitePatch) apply(tx *gorm.DB, site *models.Site) error {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Latitude != nil {
		updates["latitude"] = strings.TrimSpace(*p.Latitude)
	}
	if p.Longitude != nil {
		updates["longitude"] = strings.TrimSpace(*p.Longitude)
	}
	if p.URL != nil {
		updates["url"] = strings.TrimSpace(*p.URL)
	}
	if p.CityID != nil {
		updates["city_id"] = *p.CityID
	}
	if p.Address != nil {
		updates["address"] = strings.TrimSpace(*p.Address)
	}
	if p.Description != nil {
		updates["description"] = utils.Sanitize(*p.Description)
	}
	if p.Photo != nil {
		updates["photo"] = strings.TrimSpace(*p.Photo)
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(site).Updates(updates).Error
}

// siteCityScope filters a POI query by the city of its underlying site when
// the city query parameter is present.
func siteCityScope(db *gorm.DB, ctx *gin.Context, q *gorm.DB) *gorm.DB {
	if cityID, ok := parseUintQuery(ctx, "city"); ok {
		sub := db.Model(&models.Site{}).Select("id").Where("city_id = ?", cityID)
		q = q.Where("site_id IN (?)", sub)
	}
	return q
}

func requireCurator(ctx *gin.Context) bool {
	if !acl.CanCurate(middleware.CurrentActor(ctx)) {
		utils.Error(ctx, http.StatusForbidden, 40380, "admin required")
		return false
	}
	return true
}

// AttractionController handles attraction sites.
type AttractionController struct {
	db *gorm.DB
}

// NewAttractionController creates an AttractionController.
func NewAttractionController(db *gorm.DB) *AttractionController {
	return &AttractionController{db: db}
}

// List returns attractions, optionally filtered by ?city=. Cached per city.
func (c *AttractionController) List(ctx *gin.Context) {
	key := fmt.Sprintf("%sattraction:city=%s", poiCachePrefix, ctx.Query("city"))
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var items []models.Attraction
	q := siteCityScope(c.db, ctx, c.db.Model(&models.Attraction{}))
	if err := q.Preload("Site").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to retrieve attractions")
		return
	}
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: items}, poiCacheTTL)
	utils.Success(ctx, items)
}

// Retrieve returns one attraction with its site.
func (c *AttractionController) Retrieve(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid attraction id")
		return
	}

	var item models.Attraction
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40481, "attraction not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to retrieve attraction")
		return
	}
	utils.Success(ctx, item)
}

// Create adds an attraction and its site in one transaction; admin only.
func (c *AttractionController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		Site     sitePayload `json:"site" binding:"required"`
		Category string      `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40083, "invalid request payload")
		return
	}

	site := req.Site.toSite(models.SiteCategoryAttraction)
	item := models.Attraction{Category: strings.TrimSpace(req.Category)}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&site).Error; err != nil {
			return err
		}
		item.SiteID = site.ID
		return tx.Create(&item).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to create attraction")
		return
	}
	item.Site = site
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Update modifies an attraction and its underlying site; admin only.
func (c *AttractionController) Update(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid attraction id")
		return
	}

	var item models.Attraction
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40481, "attraction not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to retrieve attraction")
		return
	}

	var req struct {
		Site     *sitePatch `json:"site"`
		Category *string    `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40083, "invalid request payload")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if req.Category != nil {
			if err := tx.Model(&item).Update("category", strings.TrimSpace(*req.Category)).Error; err != nil {
				return err
			}
		}
		if req.Site != nil {
			return req.Site.apply(tx, &item.Site)
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50097, "failed to update attraction")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Destroy removes an attraction and its site; admin only.
func (c *AttractionController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40082, "invalid attraction id")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Attraction{}, "site_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&models.Site{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40481, "attraction not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50088, "failed to delete attraction")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, gin.H{"message": "attraction deleted"})
}

// RestaurantController handles restaurant sites.
type RestaurantController struct {
	db *gorm.DB
}

// NewRestaurantController creates a RestaurantController.
func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{db: db}
}

// List returns restaurants, optionally filtered by ?city=. Cached per city.
func (c *RestaurantController) List(ctx *gin.Context) {
	key := fmt.Sprintf("%srestaurant:city=%s", poiCachePrefix, ctx.Query("city"))
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var items []models.Restaurant
	q := siteCityScope(c.db, ctx, c.db.Model(&models.Restaurant{}))
	if err := q.Preload("Site").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50089, "failed to retrieve restaurants")
		return
	}
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: items}, poiCacheTTL)
	utils.Success(ctx, items)
}

// Retrieve returns one restaurant with its site.
func (c *RestaurantController) Retrieve(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40084, "invalid restaurant id")
		return
	}

	var item models.Restaurant
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40482, "restaurant not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to retrieve restaurant")
		return
	}
	utils.Success(ctx, item)
}

// Create adds a restaurant and its site in one transaction; admin only.
func (c *RestaurantController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		Site     sitePayload `json:"site" binding:"required"`
		Category string      `json:"category"`
		OpenAt   int64       `json:"open_at"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40085, "invalid request payload")
		return
	}

	site := req.Site.toSite(models.SiteCategoryRestaurant)
	item := models.Restaurant{Category: strings.TrimSpace(req.Category), OpenAt: req.OpenAt}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&site).Error; err != nil {
			return err
		}
		item.SiteID = site.ID
		return tx.Create(&item).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to create restaurant")
		return
	}
	item.Site = site
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Update modifies a restaurant and its underlying site; admin only.
func (c *RestaurantController) Update(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40084, "invalid restaurant id")
		return
	}

	var item models.Restaurant
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40482, "restaurant not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to retrieve restaurant")
		return
	}

	var req struct {
		Site     *sitePatch `json:"site"`
		Category *string    `json:"category"`
		OpenAt   *int64     `json:"open_at"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40085, "invalid request payload")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Category != nil {
			updates["category"] = strings.TrimSpace(*req.Category)
		}
		if req.OpenAt != nil {
			updates["open_at"] = *req.OpenAt
		}
		if len(updates) > 0 {
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Site != nil {
			return req.Site.apply(tx, &item.Site)
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50098, "failed to update restaurant")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Destroy removes a restaurant and its site; admin only.
func (c *RestaurantController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40084, "invalid restaurant id")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Restaurant{}, "site_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&models.Site{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40482, "restaurant not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to delete restaurant")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, gin.H{"message": "restaurant deleted"})
}

// HotelController handles hotel sites.
type HotelController struct {
	db *gorm.DB
}

// NewHotelController creates a HotelController.
func NewHotelController(db *gorm.DB) *HotelController {
	return &HotelController{db: db}
}

// List returns hotels, optionally filtered by ?city=. Cached per city.
func (c *HotelController) List(ctx *gin.Context) {
	key := fmt.Sprintf("%shotel:city=%s", poiCachePrefix, ctx.Query("city"))
	if b, ok := utils.CacheGetBytes(key); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var items []models.Hotel
	q := siteCityScope(c.db, ctx, c.db.Model(&models.Hotel{}))
	if err := q.Preload("Site").Find(&items).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to retrieve hotels")
		return
	}
	utils.CacheSetJSON(key, utils.JSONResponse{Code: 0, Message: "success", Data: items}, poiCacheTTL)
	utils.Success(ctx, items)
}

// Retrieve returns one hotel with its site.
func (c *HotelController) Retrieve(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid hotel id")
		return
	}

	var item models.Hotel
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40483, "hotel not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to retrieve hotel")
		return
	}
	utils.Success(ctx, item)
}

// Create adds a hotel and its site in one transaction; admin only.
func (c *HotelController) Create(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}

	var req struct {
		Site     sitePayload `json:"site" binding:"required"`
		Category string      `json:"category"`
		StarRate float64     `json:"star_rate" binding:"gte=0,lte=5"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid request payload")
		return
	}

	site := req.Site.toSite(models.SiteCategoryHotel)
	item := models.Hotel{Category: strings.TrimSpace(req.Category), StarRate: req.StarRate}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&site).Error; err != nil {
			return err
		}
		item.SiteID = site.ID
		return tx.Create(&item).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to create hotel")
		return
	}
	item.Site = site
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Update modifies a hotel and its underlying site; admin only.
func (c *HotelController) Update(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid hotel id")
		return
	}

	var item models.Hotel
	if err := c.db.Preload("Site").First(&item, "site_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40483, "hotel not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to retrieve hotel")
		return
	}

	var req struct {
		Site     *sitePatch `json:"site"`
		Category *string    `json:"category"`
		StarRate *float64   `json:"star_rate"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid request payload")
		return
	}
	if req.StarRate != nil && (*req.StarRate < 0 || *req.StarRate > 5) {
		utils.Error(ctx, http.StatusBadRequest, 40088, "star_rate must be between 0 and 5")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Category != nil {
			updates["category"] = strings.TrimSpace(*req.Category)
		}
		if req.StarRate != nil {
			updates["star_rate"] = *req.StarRate
		}
		if len(updates) > 0 {
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Site != nil {
			return req.Site.apply(tx, &item.Site)
		}
		return nil
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50099, "failed to update hotel")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, item)
}

// Destroy removes a hotel and its site; admin only.
func (c *HotelController) Destroy(ctx *gin.Context) {
	if !requireCurator(ctx) {
		return
	}
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid hotel id")
		return
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Hotel{}, "site_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&models.Site{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40483, "hotel not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50096, "failed to delete hotel")
		return
	}
	utils.InvalidateByPrefix(poiCachePrefix)
	utils.Success(ctx, gin.H{"message": "hotel deleted"})
}
