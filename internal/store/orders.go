package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// OrderFilter narrows and pages ListOrders.
type OrderFilter struct {
	Page          int
	Limit         int
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	UserID        int64
	Search        string
	SortBy        string
	SortOrder     string
}

var orderSortColumns = map[string]string{
	"createdAt":   "orders.created_at",
	"updatedAt":   "orders.updated_at",
	"totalAmount": "orders.total_amount",
	"orderNumber": "orders.order_number",
	"status":      "orders.status",
}

// Normalize clamps paging and falls back to newest-first ordering.
func (f *OrderFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if _, ok := orderSortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if strings.ToUpper(f.SortOrder) == "ASC" {
		f.SortOrder = "ASC"
	} else {
		f.SortOrder = "DESC"
	}
}

// CreateOrder inserts the order row only; items go through CreateOrderItems.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.conn(ctx).Omit(clause.Associations).Create(o).Error)
}

// CreateOrderItems bulk-inserts the line items of one order.
func (s *Store) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Omit(clause.Associations).Create(&items).Error)
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := withOrderJoins(s.conn(ctx)).First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// GetOrderForUpdate loads the order and its items, locking the order row
// on MySQL for the rest of the transaction.
func (s *Store) GetOrderForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	err := s.forUpdate(s.conn(ctx)).Preload("Items").First(&o, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// GetOrderByNumber loads an order for public tracking. The customer is
// never joined; only the items and their products come along.
func (s *Store) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var o models.Order
	err := withItemJoins(s.conn(ctx)).Where("order_number = ?", orderNumber).First(&o).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ListOrders returns one page of orders and the total matching count.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	f.Normalize()

	filtered := func() *gorm.DB {
		q := s.conn(ctx).Model(&models.Order{}).
			Joins("LEFT JOIN users ON users.id = orders.user_id")
		if f.Status != "" {
			q = q.Where("orders.status = ?", f.Status)
		}
		if f.PaymentStatus != "" {
			q = q.Where("orders.payment_status = ?", f.PaymentStatus)
		}
		if f.UserID != 0 {
			q = q.Where("orders.user_id = ?", f.UserID)
		}
		if term := strings.TrimSpace(f.Search); term != "" {
			like := "%" + term + "%"
			q = q.Where(
				"orders.order_number LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ?",
				like, like, like, like)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	err := withOrderJoins(filtered()).
		Select("orders.*").
		Order(orderSortColumns[f.SortBy] + " " + f.SortOrder).
		Order("orders.id " + f.SortOrder).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateOrderStatus writes the new status and bumps updated_at.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	res := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCancelled records the cancellation on the order row.
func (s *Store) MarkCancelled(ctx context.Context, id int64, reason *string, at time.Time) error {
	return s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":              models.OrderStatusCancelled,
		"cancellation_reason": reason,
		"cancelled_at":        at,
	}).Error
}

// ExpiredPendingOrderIDs lists unpaid pending orders created before the
// cutoff. Cash-on-delivery orders stay unpaid until delivery and are skipped.
func (s *Store) ExpiredPendingOrderIDs(ctx context.Context, before time.Time, limit int) ([]int64, error) {
	var ids []int64
	err := s.conn(ctx).Model(&models.Order{}).
		Where("status = ? AND payment_status = ? AND payment_method <> ? AND created_at < ?",
			models.OrderStatusPending, models.PaymentStatusUnpaid, models.PaymentMethodCOD, before).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func withOrderJoins(db *gorm.DB) *gorm.DB {
	return withItemJoins(db.Preload("User"))
}

func withItemJoins(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	}).Preload("Items.Product")
}
