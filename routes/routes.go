package routes

import (
	"github.com/Bips27/tiffinly-daily-bites/handlers"
	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// Catalogs (no auth needed)
		public.GET("/plans", handlers.ListPlans)
		public.GET("/extras", handlers.ListExtras)
		public.GET("/alternatives", handlers.ListAlternatives)
		public.GET("/menu", handlers.GetWeeklyMenu)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)

		// Local development seed
		public.POST("/dev/seed", handlers.SeedDemoData)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		// Subscription
		customer.POST("/subscribe", handlers.SubscribeToPlan)
		customer.GET("/subscription", handlers.GetMySubscription)

		// Meals & customization
		customer.GET("/meals", handlers.GetMyMeals)
		customer.GET("/meals/next", handlers.GetNextMeal)
		customer.GET("/meals/:id", handlers.GetMealDetail)
		customer.POST("/meals/:id/customize", handlers.CustomizeMeal)
		customer.GET("/orders/history", handlers.GetOrderHistory)

		// Wallet
		customer.GET("/wallet", handlers.GetWallet)
		customer.GET("/wallet/transactions", handlers.GetTransactions)
		customer.POST("/wallet/recharge", handlers.RechargeWallet)

		// Live tracking
		customer.GET("/track", handlers.TrackMeals)
	}

	// ── Kitchen routes ─────────────────────────────────────────────
	kitchen := r.Group("/api/kitchen")
	kitchen.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleKitchen))
	{
		kitchen.GET("/queue", handlers.GetKitchenQueue)
		kitchen.PUT("/meals/:id/status", handlers.UpdateMealStatus)
	}

	// ── Courier routes ─────────────────────────────────────────────
	courier := r.Group("/api/courier")
	courier.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCourier))
	{
		courier.GET("/deliveries", handlers.GetCourierDeliveries)
		courier.PUT("/meals/:id/status", handlers.UpdateMealStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/extras", handlers.AdminCreateExtra)
		admin.PUT("/extras/:id", handlers.AdminUpdateExtra)
		admin.POST("/alternatives", handlers.AdminCreateAlternative)
		admin.POST("/plans", handlers.AdminCreatePlan)
		admin.POST("/menu", handlers.AdminCreateMenuTemplate)

		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.GET("/meals", handlers.AdminGetAllMeals)
		admin.PUT("/meals/:id/status", handlers.AdminForceMealStatus)
	}
}
