package routes

import (
	"os"

	"jobdocs-backend/config"
	"jobdocs-backend/controllers"
	"jobdocs-backend/services"
	"jobdocs-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if appURL := os.Getenv("APP_URL"); appURL != "" {
		allowedOrigins = append(allowedOrigins, appURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	billing := controllers.NewBillingHandler(config.DB)
	sync := controllers.NewSyncHandler(services.NewSyncService(config.LocalDB, config.DB))

	// Stripe calls this; it authenticates with its signature, not a JWT
	r.POST("/webhooks/stripe", billing.HandleWebhook)

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Document routes
		documents := api.Group("/documents")
		{
			documents.POST("", controllers.CreateDocument)
			documents.GET("", controllers.GetDocuments)
			documents.GET("/:id", controllers.GetDocument)
			documents.PUT("/:id", controllers.UpdateDocument)
			documents.DELETE("/:id", controllers.DeleteDocument)
			documents.GET("/:id/pdf", controllers.DownloadDocumentPDF)
		}

		// Offline cache routes
		local := api.Group("/local/documents")
		{
			local.POST("", sync.QueueDocument)
			local.GET("", sync.ListLocalDocuments)
		}
		api.POST("/sync", sync.SyncDocuments)

		// Profile routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
		}

		// Billing routes
		api.POST("/billing/checkout", billing.CreateCheckout)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboard)
	}

	return r
}
