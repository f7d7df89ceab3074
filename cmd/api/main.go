package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magic-peach/greenmobility-sub000/internal/database"
	"github.com/magic-peach/greenmobility-sub000/internal/handlers"
	"github.com/magic-peach/greenmobility-sub000/internal/middleware"
	"github.com/magic-peach/greenmobility-sub000/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Firebase (optional - will log warning if not configured)
	if err := services.InitFirebase(); err != nil {
		log.Printf("Firebase initialization warning: %v", err)
	}

	// Initialize the distance oracle (optional - falls back to great-circle)
	if err := services.InitDistanceOracle(); err != nil {
		log.Printf("Distance oracle initialization warning: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Per-ride locks for the accept critical section
	rideLocks := services.NewRideLocks()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))
	r.Use(middleware.MetricsMiddleware())

	// Serve uploaded documents when running on local storage
	r.Static("/uploads", "/app/uploads")

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.POST("/verification-document", handlers.UploadVerificationDocument(db))
				users.PATCH("/:id/verification", handlers.UpdateVerificationStatus(db))
			}

			// Ride lifecycle routes
			rides := protected.Group("/rides")
			{
				rides.POST("", handlers.CreateRide(db))
				rides.GET("/search", handlers.SearchRides(db))
				rides.GET("/driver", handlers.GetDriverRides(db))
				rides.GET("/trip-history", handlers.GetPassengerTripHistory(db))
				rides.GET("/:rideId", handlers.GetRide(db))
				rides.GET("/:rideId/status", handlers.GetRideStatus(db))
				rides.POST("/:rideId/cancel", handlers.CancelRide(db, hub))
				rides.POST("/:rideId/join", handlers.JoinRide(db, hub))
				rides.POST("/:rideId/members/:memberId/accept", handlers.AcceptMember(db, hub, rideLocks))
				rides.POST("/:rideId/members/:memberId/reject", handlers.RejectMember(db, hub))
				rides.POST("/:rideId/members/:memberId/verify", handlers.VerifyPickup(db, hub))
				rides.POST("/:rideId/start", handlers.StartRide(db, hub, rideLocks))
				rides.POST("/:rideId/complete", handlers.CompleteRide(db, hub, rideLocks))
				rides.POST("/:rideId/close", handlers.CloseRide(db, hub))
				rides.POST("/:rideId/payment", handlers.MarkPaid(db, hub))
				rides.POST("/:rideId/members/:memberId/confirm-payment", handlers.ConfirmPayment(db, hub))
			}

			// Loyalty routes
			loyalty := protected.Group("/loyalty")
			{
				loyalty.GET("", handlers.GetLoyalty(db))
				loyalty.POST("/redeem", handlers.RedeemPoints(db))
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.POST("/register-token", handlers.RegisterFCMToken(db))
				notifications.DELETE("/remove-token", handlers.RemoveFCMToken(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
