package main

import (
	"fmt"
	"log"
	"os"

	"jobdocs-backend/config"
	"jobdocs-backend/models"
	"jobdocs-backend/routes"
	"jobdocs-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()
	config.ConnectLocalCache()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Document{},
		&models.StripeEvent{},
	)
	config.LocalDB.AutoMigrate(
		&models.LocalDocument{},
	)
}

func main() {
	sync := services.NewSyncService(config.LocalDB, config.DB)
	services.NewMaintenanceService(config.DB, sync).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
