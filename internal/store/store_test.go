package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bachhoa/bachhoa-store/internal/database/dbtest"
	"github.com/bachhoa/bachhoa-store/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(dbtest.New(t))
}

func seedProduct(t *testing.T, s *Store, name string, price int64, qty int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		Slug:      fmt.Sprintf("%s-%d", name, time.Now().UnixNano()),
		SKU:       fmt.Sprintf("SKU-%s-%d", name, time.Now().UnixNano()),
		Price:     decimal.NewFromInt(price),
		Status:    models.ProductStatusActive,
		Inventory: &models.Inventory{Quantity: qty, LowStockThreshold: 10},
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x", Status: models.UserStatusActive}
	require.NoError(t, s.CreateUser(context.Background(), u, models.RoleCustomer))
	return u
}

func seedOrder(t *testing.T, s *Store, userID int64, number string, status models.OrderStatus, total int64) *models.Order {
	t.Helper()
	o := &models.Order{
		OrderNumber:     number,
		UserID:          userID,
		Status:          status,
		PaymentStatus:   models.PaymentStatusUnpaid,
		PaymentMethod:   "cod",
		Subtotal:        decimal.NewFromInt(total),
		ShippingAmount:  decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TotalAmount:     decimal.NewFromInt(total),
		Currency:        "VND",
		ShippingAddress: models.Address{AddressLine1: "12 Le Loi", City: "Hue"},
	}
	require.NoError(t, s.CreateOrder(context.Background(), o))
	return o
}

func inventoryOf(t *testing.T, s *Store, productID int64) models.Inventory {
	t.Helper()
	var inv models.Inventory
	require.NoError(t, s.DB().Where("product_id = ?", productID).First(&inv).Error)
	return inv
}

func TestReserveStock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "rice", 25000, 5)

	ok, err := s.ReserveStock(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 5, inventoryOf(t, s, p.ID).Quantity)

	ok, err = s.ReserveStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	inv := inventoryOf(t, s, p.ID)
	assert.Equal(t, 0, inv.Quantity)
	assert.Equal(t, 5, inv.ReservedQuantity)
}

func TestRestoreStockFloorsReserved(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "salt", 8000, 4)

	ok, err := s.ReserveStock(ctx, p.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.RestoreStock(ctx, p.ID, 3))
	inv := inventoryOf(t, s, p.ID)
	assert.Equal(t, 5, inv.Quantity)
	assert.Equal(t, 0, inv.ReservedQuantity)
}

func TestAdjustStock(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "sugar", 20000, 3)

	inv, ok, err := s.AdjustStock(ctx, p.ID, -4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, inv)

	inv, ok, err = s.AdjustStock(ctx, p.ID, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, inv.Quantity)

	inv, ok, err = s.AdjustStock(ctx, p.ID, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, inv.Quantity)
}

func TestAdjustStockCreatesMissingInventory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := &models.Product{Name: "tea", Slug: "tea", SKU: "TEA-1", Price: decimal.NewFromInt(30000), Status: models.ProductStatusActive}
	require.NoError(t, s.CreateProduct(ctx, p))

	_, ok, err := s.AdjustStock(ctx, p.ID, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	inv, ok, err := s.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, inv.Quantity)
}

func TestWithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "noodles", 5000, 10)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *Store) error {
		ok, err := tx.ReserveStock(ctx, p.ID, 4)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, inventoryOf(t, s, p.ID).Quantity)

	require.NoError(t, s.WithTx(ctx, func(tx *Store) error {
		_, err := tx.ReserveStock(ctx, p.ID, 4)
		return err
	}))
	assert.Equal(t, 6, inventoryOf(t, s, p.ID).Quantity)
}

func TestProductsWithInventory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := seedProduct(t, s, "milk", 32000, 2)
	b := seedProduct(t, s, "eggs", 3500, 30)

	products, err := s.ProductsWithInventory(ctx, []int64{a.ID, b.ID, 999})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		require.NotNil(t, p.Inventory)
	}

	products, err = s.ProductsWithInventory(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestSlugExists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, "coffee", 90000, 1)

	exists, err := s.SlugExists(ctx, p.Slug)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.SlugExists(ctx, "nothing-here")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsers(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, " Lan@Example.com ")
	assert.Equal(t, "lan@example.com", u.Email)

	found, err := s.FindUserByEmail(ctx, "LAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, found.HasRole(models.RoleCustomer))

	_, err = s.FindUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &models.User{Email: "lan@example.com", PasswordHash: "x", Status: models.UserStatusActive}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

	assert.Error(t, s.CreateUser(ctx, &models.User{Email: "x@example.com", PasswordHash: "x"}, "superuser"))

	at := time.Now().Truncate(time.Second)
	require.NoError(t, s.TouchLastLogin(ctx, u.ID, at))
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.True(t, got.LastLogin.Equal(at))
}

func TestOrderRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "an@example.com")
	p := seedProduct(t, s, "rice", 25000, 10)

	o := seedOrder(t, s, u.ID, "ORD1", models.OrderStatusPending, 50000)
	require.NoError(t, s.CreateOrderItems(ctx, []models.OrderItem{{
		OrderID:    o.ID,
		ProductID:  p.ID,
		Quantity:   2,
		UnitPrice:  decimal.NewFromInt(25000),
		TotalPrice: decimal.NewFromInt(50000),
	}}))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD1", got.OrderNumber)
	assert.Equal(t, "12 Le Loi", got.ShippingAddress.AddressLine1)
	require.NotNil(t, got.User)
	assert.Equal(t, u.Email, got.User.Email)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, "rice", got.Items[0].Product.Name)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(50000)))

	byNumber, err := s.GetOrderByNumber(ctx, "ORD1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, byNumber.ID)
	assert.Nil(t, byNumber.User, "tracking never loads the customer")
	require.Len(t, byNumber.Items, 1)
	require.NotNil(t, byNumber.Items[0].Product)

	_, err = s.GetOrder(ctx, 424242)
	assert.ErrorIs(t, err, ErrNotFound)

	dup := &models.Order{OrderNumber: "ORD1", UserID: u.ID, Status: models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid, PaymentMethod: "cod", Currency: "VND"}
	assert.ErrorIs(t, s.CreateOrder(ctx, dup), ErrDuplicate)
}

func TestOrderStatusWrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "binh@example.com")
	o := seedOrder(t, s, u.ID, "ORD2", models.OrderStatusPending, 10000)

	require.NoError(t, s.UpdateOrderStatus(ctx, o.ID, models.OrderStatusShipping))
	assert.ErrorIs(t, s.UpdateOrderStatus(ctx, 999, models.OrderStatusShipping), ErrNotFound)

	reason := "changed my mind"
	at := time.Now().Truncate(time.Second)
	require.NoError(t, s.MarkCancelled(ctx, o.ID, &reason, at))

	got, err := s.GetOrderForUpdate(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, reason, *got.CancellationReason)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(at))
}

func TestListOrders(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	an := seedUser(t, s, "an@example.com")
	binh := seedUser(t, s, "binh@example.com")

	seedOrder(t, s, an.ID, "ORD100", models.OrderStatusPending, 10000)
	seedOrder(t, s, an.ID, "ORD101", models.OrderStatusDelivered, 20000)
	seedOrder(t, s, binh.ID, "ORD102", models.OrderStatusPending, 30000)

	orders, total, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 3)

	orders, total, err = s.ListOrders(ctx, OrderFilter{UserID: an.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, o := range orders {
		assert.Equal(t, an.ID, o.UserID)
	}

	orders, total, err = s.ListOrders(ctx, OrderFilter{Status: models.OrderStatusPending, SortBy: "totalAmount", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD100", orders[0].OrderNumber)
	assert.Equal(t, "ORD102", orders[1].OrderNumber)

	orders, total, err = s.ListOrders(ctx, OrderFilter{Search: "binh@"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD102", orders[0].OrderNumber)
	require.NotNil(t, orders[0].User)

	orders, total, err = s.ListOrders(ctx, OrderFilter{Page: 2, Limit: 2, SortBy: "orderNumber", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD102", orders[0].OrderNumber)
}

func TestOrderFilterNormalize(t *testing.T) {
	f := OrderFilter{Page: -1, Limit: 500, SortBy: "password_hash; DROP", SortOrder: "sideways"}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "DESC", f.SortOrder)
}

func TestExpiredPendingOrderIDs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "chi@example.com")

	old := seedOrder(t, s, u.ID, "ORD200", models.OrderStatusPending, 10000)
	seedOrder(t, s, u.ID, "ORD201", models.OrderStatusPending, 10000)
	shipped := seedOrder(t, s, u.ID, "ORD202", models.OrderStatusShipping, 10000)
	cod := seedOrder(t, s, u.ID, "ORD203", models.OrderStatusPending, 10000)

	require.NoError(t, s.DB().Model(&models.Order{}).
		Where("id <> ?", cod.ID).
		UpdateColumn("payment_method", "bank_transfer").Error)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, s.DB().Model(&models.Order{}).
		Where("id IN ?", []int64{old.ID, shipped.ID, cod.ID}).
		UpdateColumn("created_at", past).Error)

	ids, err := s.ExpiredPendingOrderIDs(ctx, time.Now().Add(-time.Hour), 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{old.ID}, ids)
}

func TestDashboardStats(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "dung@example.com")
	seedProduct(t, s, "low", 1000, 3)
	seedProduct(t, s, "plenty", 1000, 50)

	seedOrder(t, s, u.ID, "ORD300", models.OrderStatusDelivered, 40000)
	seedOrder(t, s, u.ID, "ORD301", models.OrderStatusPending, 15000)
	seedOrder(t, s, u.ID, "ORD302", models.OrderStatusPacking, 5000)

	stats, err := s.DashboardStats(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalUsers)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 2, stats.PendingOrders)
	assert.EqualValues(t, 1, stats.LowStockProducts)
	assert.EqualValues(t, 3, stats.RecentOrders)
	assert.Equal(t, "40000", stats.TotalRevenue.String())
	assert.Equal(t, "40000", stats.RecentRevenue.String())
	assert.True(t, stats.PreviousRevenue.IsZero())
}

func TestRevenueTrend(t *testing.T) {
	d := DashboardStats{}
	assert.Equal(t, 0.0, d.RevenueTrend())

	d.PreviousRevenue = decimal.NewFromInt(200000)
	d.RecentRevenue = decimal.NewFromInt(250000)
	assert.Equal(t, 25.0, d.RevenueTrend())

	d.RecentRevenue = decimal.NewFromInt(100000)
	assert.Equal(t, -50.0, d.RevenueTrend())
}

func TestListProducts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	rice := seedProduct(t, s, "rice", 25000, 10)
	seedProduct(t, s, "salt", 8000, 10)
	sugar := seedProduct(t, s, "sugar", 20000, 10)
	require.NoError(t, s.UpdateProduct(ctx, rice.ID, map[string]any{"featured": true, "description": "fragrant jasmine"}))
	require.NoError(t, s.SetProductStatus(ctx, sugar.ID, models.ProductStatusDiscontinued))

	names := func(products []models.Product) []string {
		out := []string{}
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	products, total, err := s.ListProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	for _, p := range products {
		require.NotNil(t, p.Inventory)
	}

	products, total, err = s.ListProducts(ctx, ProductFilter{Status: models.ProductStatusActive, SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []string{"salt", "rice"}, names(products))

	featured := true
	products, _, err = s.ListProducts(ctx, ProductFilter{Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, []string{"rice"}, names(products))

	products, _, err = s.ListProducts(ctx, ProductFilter{Search: "jasmine"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rice"}, names(products))

	products, _, err = s.ListProducts(ctx, ProductFilter{
		MinPrice: decimal.NewNullDecimal(decimal.NewFromInt(10000)),
		MaxPrice: decimal.NewNullDecimal(decimal.NewFromInt(21000)),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sugar"}, names(products))

	products, _, err = s.ListProducts(ctx, ProductFilter{SortBy: "featured"})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "rice", products[0].Name)

	products, total, err = s.ListProducts(ctx, ProductFilter{Page: 2, Limit: 2, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"sugar"}, names(products))
}

func TestProductFilterNormalize(t *testing.T) {
	f := ProductFilter{Page: 0, Limit: 0, SortBy: "cost_price", SortOrder: ""}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 12, f.Limit)
	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "DESC", f.SortOrder)
}

func TestFeaturedProducts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	for _, name := range []string{"rice", "tea", "salt"} {
		p := seedProduct(t, s, name, 10000, 5)
		if name != "salt" {
			require.NoError(t, s.UpdateProduct(ctx, p.ID, map[string]any{"featured": true}))
		}
		if name == "tea" {
			require.NoError(t, s.SetProductStatus(ctx, p.ID, models.ProductStatusOutOfStock))
		}
	}

	products, err := s.FeaturedProducts(ctx, 8)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "rice", products[0].Name)
	assert.NotNil(t, products[0].Inventory)
}

func TestUpdateProduct(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	rice := seedProduct(t, s, "rice", 25000, 5)
	salt := seedProduct(t, s, "salt", 8000, 5)

	require.NoError(t, s.UpdateProduct(ctx, rice.ID, map[string]any{
		"price":         decimal.NewFromInt(27000),
		"compare_price": decimal.NewFromInt(30000),
	}))
	got, err := s.GetProduct(ctx, rice.ID)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(27000)))
	assert.True(t, got.IsOnSale())

	require.NoError(t, s.UpdateProduct(ctx, rice.ID, map[string]any{"compare_price": nil}))
	got, err = s.GetProduct(ctx, rice.ID)
	require.NoError(t, err)
	assert.False(t, got.ComparePrice.Valid)

	assert.ErrorIs(t, s.UpdateProduct(ctx, rice.ID, map[string]any{"sku": salt.SKU}), ErrDuplicate)
	assert.NoError(t, s.UpdateProduct(ctx, rice.ID, nil))
}

func TestDeleteProduct(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "em@example.com")
	unused := seedProduct(t, s, "salt", 8000, 5)
	ordered := seedProduct(t, s, "rice", 25000, 5)

	o := seedOrder(t, s, u.ID, "ORD400", models.OrderStatusPending, 25000)
	require.NoError(t, s.CreateOrderItems(ctx, []models.OrderItem{{
		OrderID: o.ID, ProductID: ordered.ID, Quantity: 1,
		UnitPrice: decimal.NewFromInt(25000), TotalPrice: decimal.NewFromInt(25000),
	}}))

	require.NoError(t, s.DeleteProduct(ctx, unused.ID))
	_, err := s.GetProduct(ctx, unused.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	var left int64
	require.NoError(t, s.DB().Model(&models.Inventory{}).Where("product_id = ?", unused.ID).Count(&left).Error)
	assert.Zero(t, left)

	assert.ErrorIs(t, s.DeleteProduct(ctx, ordered.ID), ErrInUse)
	_, err = s.GetProduct(ctx, ordered.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.DeleteProduct(ctx, 999), ErrNotFound)
}

func TestSalesReport(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "giang@example.com")

	at := func(o *models.Order, ts time.Time) {
		require.NoError(t, s.DB().Model(&models.Order{}).Where("id = ?", o.ID).UpdateColumn("created_at", ts).Error)
	}
	at(seedOrder(t, s, u.ID, "ORD500", models.OrderStatusDelivered, 10000), time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	at(seedOrder(t, s, u.ID, "ORD501", models.OrderStatusDelivered, 15000), time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))
	at(seedOrder(t, s, u.ID, "ORD502", models.OrderStatusDelivered, 20000), time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC))
	at(seedOrder(t, s, u.ID, "ORD503", models.OrderStatusDelivered, 40000), time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	at(seedOrder(t, s, u.ID, "ORD504", models.OrderStatusPending, 99000), time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))

	days, err := s.SalesReport(ctx, time.Time{}, time.Time{}, SalesByDay)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2026-04-01", days[0].Period)
	assert.Equal(t, "2026-03-02", days[2].Period)
	assert.EqualValues(t, 2, days[2].OrderCount)
	assert.Equal(t, "25000", days[2].Revenue.String())

	months, err := s.SalesReport(ctx,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), SalesByMonth)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, "2026-03", months[0].Period)
	assert.EqualValues(t, 3, months[0].OrderCount)
	assert.Equal(t, "45000", months[0].Revenue.String())

	assert.True(t, SalesByMonth.Valid())
	assert.False(t, SalesGrouping("week").Valid())
}

func TestTopProducts(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "hoa@example.com")
	rice := seedProduct(t, s, "rice", 25000, 50)
	salt := seedProduct(t, s, "salt", 8000, 50)

	line := func(o *models.Order, p *models.Product, qty int64) models.OrderItem {
		return models.OrderItem{
			OrderID: o.ID, ProductID: p.ID, Quantity: int(qty),
			UnitPrice: p.Price, TotalPrice: p.Price.Mul(decimal.NewFromInt(qty)),
		}
	}
	first := seedOrder(t, s, u.ID, "ORD600", models.OrderStatusDelivered, 0)
	second := seedOrder(t, s, u.ID, "ORD601", models.OrderStatusPending, 0)
	cancelled := seedOrder(t, s, u.ID, "ORD602", models.OrderStatusCancelled, 0)
	require.NoError(t, s.CreateOrderItems(ctx, []models.OrderItem{
		line(first, rice, 2), line(first, salt, 1),
		line(second, salt, 3),
		line(cancelled, rice, 10),
	}))

	top, err := s.TopProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, salt.ID, top[0].ProductID)
	assert.EqualValues(t, 4, top[0].TotalSold)
	assert.Equal(t, "32000", top[0].TotalRevenue.String())
	assert.Equal(t, "rice", top[1].Name)
	assert.EqualValues(t, 2, top[1].TotalSold)
	assert.Equal(t, rice.SKU, top[1].SKU)

	top, err = s.TopProducts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}
