package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/handlers"
	"github.com/bachhoa/bachhoa-store/internal/middleware"
	"github.com/bachhoa/bachhoa-store/internal/models"
)

// CORSMiddleware allows the storefront origin to call the API with
// credentials.
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight requests stop here.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers, corsOrigin string, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// CORS runs first so preflights never reach auth.
	router.Use(CORSMiddleware(corsOrigin), middleware.Recovery(log), middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Bach Hoa Store API is running"})
	})

	requireAuth := middleware.AuthMiddleware(h.Tokens)
	staffOnly := middleware.RequireRoles(models.RoleStaff, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// --- Auth Routes (Public) ---
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)

		// --- Product Routes ---
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/featured", h.GetFeaturedProducts)
		v1.GET("/products/:id", h.GetProduct)

		products := v1.Group("/products", requireAuth, staffOnly)
		{
			products.POST("", h.CreateProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.PATCH("/:id/status", h.UpdateProductStatus)
			products.PATCH("/:id/inventory", h.AdjustInventory)
			products.DELETE("/:id", adminOnly, h.DeleteProduct)
		}

		// --- Order Routes ---
		v1.POST("/orders", middleware.OptionalAuth(h.Tokens), h.CreateOrder)
		v1.GET("/orders/track/:orderNumber", h.TrackOrder)

		orders := v1.Group("/orders", requireAuth)
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PATCH("/:id/cancel", h.CancelOrder)
			orders.PATCH("/:id/status", staffOnly, h.UpdateOrderStatus)
		}

		// --- Stats (Staff) ---
		stats := v1.Group("/stats", requireAuth, staffOnly)
		{
			stats.GET("/dashboard", h.GetDashboardStats)
			stats.GET("/sales", h.GetSalesStats)
			stats.GET("/top-products", h.GetTopProducts)
		}
	}

	return router
}
