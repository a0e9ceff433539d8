// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dungeun/video-platform-sub018/internal/config"
	"github.com/dungeun/video-platform-sub018/internal/gateway"
	"github.com/dungeun/video-platform-sub018/internal/handlers"
	"github.com/dungeun/video-platform-sub018/internal/middleware"
	"github.com/dungeun/video-platform-sub018/internal/models"
	"github.com/dungeun/video-platform-sub018/internal/services"
	"github.com/dungeun/video-platform-sub018/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	return InitializeWithGateway(db, cfg, gateway.NewStripeGateway(cfg.Payment.StripeSecretKey))
}

// InitializeWithGateway lets tests plug in a fake payment gateway.
func InitializeWithGateway(db *gorm.DB, cfg *config.Config, gw gateway.PaymentGateway) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	campaignService := services.NewCampaignService(db)
	applicationService := services.NewApplicationService(db)
	revenueService := services.NewRevenueService(db)
	paymentService := services.NewPaymentService(db, gw, cfg, revenueService)
	settlementService := services.NewSettlementService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	settlementHandler := handlers.NewSettlementHandler(settlementService, revenueService)
	adminHandler := handlers.NewAdminHandler(adminService, revenueService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// Campaign routes
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", middleware.OptionalAuth(), campaignHandler.SearchCampaigns)
			campaigns.GET("/:id", middleware.OptionalAuth(), campaignHandler.GetCampaign)

			protected := campaigns.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.UserTypeRequired(models.UserTypeBusiness), campaignHandler.CreateCampaign)
				protected.PUT("/:id", campaignHandler.UpdateCampaign)
				protected.POST("/:id/submit", campaignHandler.SubmitCampaign)
				protected.PATCH("/:id/status", campaignHandler.UpdateStatus)

				protected.POST("/:id/applications", middleware.UserTypeRequired(models.UserTypeInfluencer), applicationHandler.Apply)
				protected.GET("/:id/applications", applicationHandler.ListByCampaign)
			}
		}

		// Application and content routes
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.GET("/:id", applicationHandler.GetApplication)
			applications.POST("/:id/decide", applicationHandler.Decide)
			applications.POST("/:id/content", applicationHandler.SubmitContent)
		}

		contents := v1.Group("/contents")
		contents.Use(middleware.AuthRequired())
		{
			contents.POST("/:id/review", applicationHandler.ReviewContent)
		}

		// Payment routes. The confirm endpoint is the gateway callback and
		// is not authenticated.
		payments := v1.Group("/payments")
		{
			payments.POST("/confirm", middleware.PaymentRateLimit(), paymentHandler.ConfirmPayment)

			protected := payments.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.UserTypeRequired(models.UserTypeBusiness), paymentHandler.CreatePayment)
				protected.GET("/history", paymentHandler.GetPaymentHistory)
				protected.GET("/:id", paymentHandler.GetPayment)
				protected.POST("/:id/cancel", paymentHandler.CancelPayment)
			}
		}

		// Super chat routes
		superChats := v1.Group("/super-chats")
		superChats.Use(middleware.AuthRequired())
		{
			superChats.POST("", paymentHandler.CreateSuperChat)
		}

		// Settlement routes
		settlements := v1.Group("/settlements")
		settlements.Use(middleware.AuthRequired())
		{
			settlements.POST("", middleware.UserTypeRequired(models.UserTypeInfluencer), settlementHandler.RequestSettlement)
			settlements.GET("", settlementHandler.ListSettlements)
			settlements.GET("/:id", settlementHandler.GetSettlement)
		}

		// Revenue routes
		revenues := v1.Group("/revenues")
		revenues.Use(middleware.AuthRequired())
		{
			revenues.GET("/summary", settlementHandler.GetRevenueSummary)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
			}

			adminCampaigns := admin.Group("/campaigns")
			{
				adminCampaigns.POST("/:id/review", campaignHandler.ReviewCampaign)
			}

			adminSettlements := admin.Group("/settlements")
			{
				adminSettlements.GET("", settlementHandler.ListAllSettlements)
				adminSettlements.POST("/:id/process", settlementHandler.ProcessSettlement)
				adminSettlements.POST("/:id/paid", settlementHandler.MarkPaid)
			}

			adminAnalytics := admin.Group("/analytics")
			{
				adminAnalytics.GET("", adminHandler.GetAnalytics)
			}

			adminRevenues := admin.Group("/revenues")
			{
				adminRevenues.GET("/summary", adminHandler.GetRevenueSummary)
			}

			adminSettings := admin.Group("/settings")
			{
				adminSettings.GET("", adminHandler.GetSettings)
				adminSettings.PUT("", adminHandler.UpdateSettings)
			}
		}
	}

	return r
}
