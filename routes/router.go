package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xianlu/trips/config"
	"github.com/xianlu/trips/controllers"
	"github.com/xianlu/trips/middleware"
	"github.com/xianlu/trips/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	itineraryController := controllers.NewItineraryController(db)
	dayTripController := controllers.NewDayTripController(db)
	dayTripSiteController := controllers.NewDayTripSiteController(db)
	likeController := controllers.NewLikeController(db)
	commentController := controllers.NewCommentController(db)
	favoriteController := controllers.NewFavoriteController(db)
	cityController := controllers.NewCityController(db)
	attractionController := controllers.NewAttractionController(db)
	restaurantController := controllers.NewRestaurantController(db)
	hotelController := controllers.NewHotelController(db)
	highlightController := controllers.NewHighlightController(db)
	featuredController := controllers.NewFeaturedController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Reads carry optional auth so owners see their private itineraries.
	public := api.Group("")
	public.Use(middleware.OptionalAuth())
	public.GET("/itineraries", itineraryController.List)
	public.GET("/itineraries/:id", itineraryController.Retrieve)
	public.GET("/itineraries/:id/stats", statsController.Itinerary)
	public.GET("/day-trips", dayTripController.List)
	public.GET("/day-trips/:id", dayTripController.Retrieve)
	public.GET("/day-trip-sites", dayTripSiteController.List)
	public.GET("/day-trip-sites/:id", dayTripSiteController.Retrieve)
	public.GET("/likes", likeController.List)
	public.GET("/comments", commentController.List)

	api.GET("/cities", cityController.List)
	api.GET("/cities/:id", cityController.Retrieve)
	api.GET("/attractions", attractionController.List)
	api.GET("/attractions/:id", attractionController.Retrieve)
	api.GET("/restaurants", restaurantController.List)
	api.GET("/restaurants/:id", restaurantController.Retrieve)
	api.GET("/hotels", hotelController.List)
	api.GET("/hotels/:id", hotelController.Retrieve)
	api.GET("/highlights", highlightController.List)
	api.GET("/featured", featuredController.List)
	api.GET("/stats", statsController.Platform)
	api.GET("/stats/daily-views", statsController.DailyViews)
	api.GET("/users/:id", authController.GetUserPublic)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/users", authController.ListUsers)
	protected.DELETE("/users/:id", authController.DeactivateUser)

	protected.POST("/itineraries", itineraryController.Create)
	protected.PATCH("/itineraries/:id", itineraryController.Update)
	protected.DELETE("/itineraries/:id", itineraryController.Destroy)

	protected.POST("/day-trips", dayTripController.Create)
	protected.PATCH("/day-trips/:id", dayTripController.Reorder)
	protected.DELETE("/day-trips/:id", dayTripController.Destroy)

	protected.POST("/day-trip-sites", dayTripSiteController.Create)
	protected.PATCH("/day-trip-sites/:id", dayTripSiteController.Reorder)
	protected.DELETE("/day-trip-sites/:id", dayTripSiteController.Destroy)

	protected.POST("/likes", likeController.Create)
	protected.DELETE("/likes/:id", likeController.Destroy)
	protected.POST("/comments", commentController.Create)
	protected.PATCH("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Destroy)
	protected.GET("/favorites", favoriteController.List)
	protected.POST("/favorites", favoriteController.Create)
	protected.DELETE("/favorites/:id", favoriteController.Destroy)

	protected.POST("/cities", cityController.Create)
	protected.PATCH("/cities/:id", cityController.Update)
	protected.DELETE("/cities/:id", cityController.Destroy)
	protected.POST("/attractions", attractionController.Create)
	protected.PATCH("/attractions/:id", attractionController.Update)
	protected.DELETE("/attractions/:id", attractionController.Destroy)
	protected.POST("/restaurants", restaurantController.Create)
	protected.PATCH("/restaurants/:id", restaurantController.Update)
	protected.DELETE("/restaurants/:id", restaurantController.Destroy)
	protected.POST("/hotels", hotelController.Create)
	protected.PATCH("/hotels/:id", hotelController.Update)
	protected.DELETE("/hotels/:id", hotelController.Destroy)
	protected.POST("/highlights", highlightController.Create)
	protected.DELETE("/highlights/:id", highlightController.Destroy)
	protected.POST("/featured", featuredController.Create)
	protected.DELETE("/featured/:id", featuredController.Destroy)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
