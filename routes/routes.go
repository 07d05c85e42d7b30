package routes

import (
	"fooddelight/handlers"
	"fooddelight/middleware"
	"fooddelight/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth) {
	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Restaurants & menus (no auth needed)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id/menu", h.GetMenu)

		// Order lifecycle documentation
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	authed := r.Group("/api")
	authed.Use(auth.Required())
	{
		authed.POST("/auth/logout", h.Logout)
		authed.GET("/profile", h.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(auth.Required(), middleware.RoleRequired(models.RoleUser))
	{
		// Cart lives in the session
		customer.GET("/cart", h.GetCart)
		customer.POST("/cart", h.AddToCart)
		customer.DELETE("/cart", h.ClearCart)
		customer.PUT("/cart/:itemId/increment", h.IncrementCartItem)
		customer.PUT("/cart/:itemId/decrement", h.DecrementCartItem)
		customer.DELETE("/cart/:itemId", h.RemoveCartItem)
		customer.POST("/checkout", h.Checkout)

		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/stats", h.GetMyStats)
	}

	// ── Delivery partner routes ────────────────────────────────────
	partner := r.Group("/api/partner")
	partner.Use(auth.Required(), middleware.RoleRequired(models.RolePartner))
	{
		partner.GET("/orders", h.GetAssignedOrders)
		partner.PUT("/orders/:id/start", h.StartDelivery)
		partner.PUT("/orders/:id/collect", h.CollectCash)
		partner.PUT("/orders/:id/deliver", h.DeliverOrder)
		partner.GET("/stats", h.GetPartnerStats)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(auth.Required(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard", h.AdminDashboard)

		// Orders
		admin.GET("/orders", h.AdminListOrders)
		admin.POST("/orders", h.AdminCreateOrder)
		admin.GET("/orders/:id", h.AdminGetOrder)
		admin.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
		admin.PUT("/orders/:id/override", h.AdminOverrideOrderStatus)
		admin.DELETE("/orders/:id", h.AdminDeleteOrder)

		// Payments
		admin.GET("/payments", h.AdminListPayments)
		admin.PUT("/payments/:id/collect", h.AdminCollectPayment)

		// Restaurants & menus
		admin.GET("/restaurants", h.AdminListRestaurants)
		admin.POST("/restaurants", h.CreateRestaurant)
		admin.PUT("/restaurants/:id", h.UpdateRestaurant)
		admin.DELETE("/restaurants/:id", h.DeleteRestaurant)
		admin.GET("/restaurants/:id/menu", h.AdminGetMenu)
		admin.POST("/menu-items", h.AddMenuItem)
		admin.PUT("/menu-items/:itemId", h.UpdateMenuItem)
		admin.DELETE("/menu-items/:itemId", h.DeleteMenuItem)

		// Delivery partners
		admin.GET("/partners", h.AdminListPartners)
		admin.POST("/partners", h.CreatePartner)
		admin.PUT("/partners/:id", h.UpdatePartner)
		admin.DELETE("/partners/:id", h.DeletePartner)

		// Users
		admin.GET("/users", h.AdminListUsers)
		admin.DELETE("/users/:id", h.AdminDeleteUser)

		// Reports
		admin.GET("/reports/top-spenders", h.ReportTopSpenders)
		admin.GET("/reports/best-restaurants", h.ReportBestRestaurants)
		admin.GET("/reports/revenue-by-method", h.ReportRevenueByMethod)
		admin.GET("/reports/partner-performance", h.ReportPartnerPerformance)
		admin.GET("/reports/popular-items", h.ReportPopularItems)
		admin.GET("/reports/monthly-sales", h.ReportMonthlySales)
	}
}
