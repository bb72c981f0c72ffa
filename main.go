package main

import (
	"github.com/xianlu/trips/config"
	"github.com/xianlu/trips/models"
	"github.com/xianlu/trips/routes"
	"github.com/xianlu/trips/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.City{},
		&models.Site{},
		&models.Attraction{},
		&models.Restaurant{},
		&models.Hotel{},
		&models.Itinerary{},
		&models.DayTrip{},
		&models.DayTripSite{},
		&models.Comment{},
		&models.Like{},
		&models.Favorite{},
		&models.Highlight{},
		&models.Featured{},
		&models.PageView{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
