package main

import (
	"github.com/opentalk/forum/config"
	"github.com/opentalk/forum/models"
	"github.com/opentalk/forum/routes"
	"github.com/opentalk/forum/stores"
	"github.com/opentalk/forum/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Category{}, &models.Thread{}, &models.Post{})

	// Seed categories before the server starts taking requests.
	if err := stores.NewCategoryStore(db).Seed(); err != nil {
		utils.Sugar.Fatalf("category seeding failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
	if err := utils.RunServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
