package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// DashboardStats holds the raw figures behind the admin dashboard.
type DashboardStats struct {
	TotalUsers       int64
	TotalProducts    int64
	TotalOrders      int64
	TotalRevenue     decimal.Decimal
	PendingOrders    int64
	LowStockProducts int64
	RecentOrders     int64
	RecentRevenue    decimal.Decimal
	PreviousRevenue  decimal.Decimal
}

var revenueStatuses = []models.OrderStatus{models.OrderStatusDelivered}

var openStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusPacking,
}

// DashboardStats gathers the dashboard figures as of now. The recent
// window is the last 30 days; the previous window the 30 days before it.
func (s *Store) DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	var out DashboardStats
	recentFrom := now.AddDate(0, 0, -30)
	previousFrom := now.AddDate(0, 0, -60)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.conn(ctx).Model(&models.User{}).
			Where("status = ?", models.UserStatusActive).Count(&out.TotalUsers).Error
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Product{}).
			Where("status = ?", models.ProductStatusActive).Count(&out.TotalProducts).Error
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Order{}).Count(&out.TotalOrders).Error
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Order{}).
			Where("status IN ?", openStatuses).Count(&out.PendingOrders).Error
	})
	g.Go(func() error {
		n, err := s.LowStockCount(ctx)
		out.LowStockProducts = n
		return err
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Order{}).
			Where("created_at >= ?", recentFrom).Count(&out.RecentOrders).Error
	})
	g.Go(func() error {
		d, err := s.revenue(s.conn(ctx))
		out.TotalRevenue = d
		return err
	})
	g.Go(func() error {
		d, err := s.revenue(s.conn(ctx).Where("created_at >= ?", recentFrom))
		out.RecentRevenue = d
		return err
	})
	g.Go(func() error {
		d, err := s.revenue(s.conn(ctx).Where("created_at >= ? AND created_at < ?", previousFrom, recentFrom))
		out.PreviousRevenue = d
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) revenue(q *gorm.DB) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := q.Model(&models.Order{}).
		Where("status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&sum)
	return sum, err
}

// RevenueTrend is the percentage change of the last 30 days' revenue
// against the 30 days before, to one decimal place. Zero when there is
// no previous revenue to compare with.
func (d *DashboardStats) RevenueTrend() float64 {
	if !d.PreviousRevenue.IsPositive() {
		return 0
	}
	change := d.RecentRevenue.Sub(d.PreviousRevenue).Div(d.PreviousRevenue).Mul(decimal.NewFromInt(100))
	f, _ := change.Round(1).Float64()
	return f
}

// SalesGrouping is the bucket size of a sales report.
type SalesGrouping string

const (
	SalesByDay   SalesGrouping = "day"
	SalesByMonth SalesGrouping = "month"
)

func (g SalesGrouping) Valid() bool {
	return g == SalesByDay || g == SalesByMonth
}

// SalesPeriod is one bucket of delivered sales.
type SalesPeriod struct {
	Period     string          `json:"period"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SalesReport buckets delivered orders by creation day or month, newest
// bucket first. Zero from or to leaves that side of the range open; to is
// exclusive.
func (s *Store) SalesReport(ctx context.Context, from, to time.Time, by SalesGrouping) ([]SalesPeriod, error) {
	period := s.periodExpr(by)

	q := s.conn(ctx).Model(&models.Order{}).Where("status IN ?", revenueStatuses)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}

	sales := []SalesPeriod{}
	err := q.Select(period + " AS period, COUNT(id) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue").
		Group(period).
		Order("period DESC").
		Scan(&sales).Error
	return sales, err
}

// periodExpr formats created_at as YYYY-MM-DD or YYYY-MM in the dialect's
// own date function.
func (s *Store) periodExpr(by SalesGrouping) string {
	layout := "%Y-%m-%d"
	if by == SalesByMonth {
		layout = "%Y-%m"
	}
	if s.db.Dialector.Name() == "mysql" {
		return "DATE_FORMAT(created_at, '" + layout + "')"
	}
	return "strftime('" + layout + "', created_at)"
}

// TopProduct is one row of the best-seller report.
type TopProduct struct {
	ProductID    int64           `json:"productId"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku" gorm:"column:sku"`
	Price        decimal.Decimal `json:"price"`
	TotalSold    int64           `json:"totalSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// TopProducts ranks products by units sold. Lines of cancelled and
// returned orders do not count.
func (s *Store) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	top := []TopProduct{}
	err := s.conn(ctx).Table("order_items").
		Select("order_items.product_id, products.name, products.sku, products.price, "+
			"SUM(order_items.quantity) AS total_sold, SUM(order_items.total_price) AS total_revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.status NOT IN ?", []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusReturned}).
		Group("order_items.product_id, products.name, products.sku, products.price").
		Order("total_sold DESC").
		Order("order_items.product_id ASC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}
