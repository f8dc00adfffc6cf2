package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bachhoa/bachhoa-store/internal/store"
)

//
// --- Admin Dashboard Stats ---
//

type DashboardStats struct {
	TotalUsers       int64           `json:"totalUsers"`
	TotalProducts    int64           `json:"totalProducts"`
	TotalOrders      int64           `json:"totalOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	PendingOrders    int64           `json:"pendingOrders"`
	LowStockProducts int64           `json:"lowStockProducts"`
	Trends           DashboardTrends `json:"trends"`
}

type DashboardTrends struct {
	RecentOrders  int64           `json:"recentOrders"`
	RecentRevenue decimal.Decimal `json:"recentRevenue"`
	RevenueTrend  float64         `json:"revenueTrend"` // percent vs. the previous 30 days
}

// GetDashboardStats returns KPI data for the admin dashboard
// GET /api/v1/stats/dashboard
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	raw, err := h.Store.DashboardStats(c.Request.Context(), time.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": DashboardStats{
		TotalUsers:       raw.TotalUsers,
		TotalProducts:    raw.TotalProducts,
		TotalOrders:      raw.TotalOrders,
		TotalRevenue:     raw.TotalRevenue,
		PendingOrders:    raw.PendingOrders,
		LowStockProducts: raw.LowStockProducts,
		Trends: DashboardTrends{
			RecentOrders:  raw.RecentOrders,
			RecentRevenue: raw.RecentRevenue,
			RevenueTrend:  raw.RevenueTrend(),
		},
	}})
}

// GetSalesStats is GET /api/v1/stats/sales. startDate and endDate are
// YYYY-MM-DD and both inclusive; groupBy is day (default) or month.
func (h *Handlers) GetSalesStats(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("startDate"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate"})
			return
		}
		from = d
	}
	if raw := c.Query("endDate"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate"})
			return
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must not be after endDate"})
		return
	}

	by := store.SalesGrouping(c.DefaultQuery("groupBy", string(store.SalesByDay)))
	if !by.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "groupBy must be day or month"})
		return
	}

	sales, err := h.Store.SalesReport(c.Request.Context(), from, to, by)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// GetTopProducts is GET /api/v1/stats/top-products
func (h *Handlers) GetTopProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	top, err := h.Store.TopProducts(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topProducts": top})
}
