package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/apperrors"
	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

// ExpiredReason is recorded on orders cancelled by the expiry worker.
const ExpiredReason = "Payment window expired"

// Cancel cancels an order the actor can access and returns its stock.
// Orders the actor cannot see are reported as not found.
func (s *Service) Cancel(ctx context.Context, actor Actor, id int64, reason string) (*models.Order, error) {
	return s.cancel(ctx, id, reason, func(o *models.Order) bool { return actor.CanAccess(o) })
}

func (s *Service) cancel(ctx context.Context, id int64, reason string, allowed func(*models.Order) bool) (*models.Order, error) {
	var orderNumber string
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Order not found")
		}
		if err != nil {
			return fmt.Errorf("load order %d: %w", id, err)
		}
		if allowed != nil && !allowed(order) {
			return apperrors.NotFound("Order not found")
		}
		if !order.Status.Cancellable() {
			return apperrors.Validation("Order cannot be cancelled")
		}

		var why *string
		if r := strings.TrimSpace(reason); r != "" {
			why = &r
		}
		if err := tx.MarkCancelled(ctx, order.ID, why, s.now()); err != nil {
			return fmt.Errorf("cancel order %d: %w", id, err)
		}

		// Compensation: every reserved unit goes back on the shelf.
		for _, item := range order.Items {
			if err := tx.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		orderNumber = order.OrderNumber
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, orderNumber)
	s.log.Info("order cancelled", zap.Int64("orderId", id), zap.String("orderNumber", orderNumber))
	return s.store.GetOrder(ctx, id)
}

// CancelExpired cancels unpaid pending orders older than ttl and returns
// how many were cancelled.
func (s *Service) CancelExpired(ctx context.Context, ttl time.Duration) (int, error) {
	ids, err := s.store.ExpiredPendingOrderIDs(ctx, s.now().Add(-ttl), 100)
	if err != nil {
		return 0, fmt.Errorf("list expired orders: %w", err)
	}

	cancelled := 0
	for _, id := range ids {
		_, err := s.cancel(ctx, id, ExpiredReason, nil)
		switch {
		case err == nil:
			cancelled++
		case apperrors.IsValidation(err), apperrors.IsNotFound(err):
			// Moved on (paid, shipped or cancelled) since it was listed.
			s.log.Debug("skipping expired order", zap.Int64("orderId", id), zap.Error(err))
		default:
			return cancelled, err
		}
	}
	return cancelled, nil
}

// UpdateStatus sets the order status without transition rules. Setting
// the current status writes nothing.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid order status")
	}

	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	if order.Status == status {
		return order, nil
	}

	if err := s.store.UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Order not found")
		}
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	s.invalidate(ctx, order.OrderNumber)
	s.log.Info("order status updated",
		zap.Int64("orderId", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))

	return s.store.GetOrder(ctx, id)
}

// Track is the public lookup by order number, served from the cache
// when possible.
func (s *Service) Track(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, apperrors.NotFound("Order not found")
	}

	if cached, err := s.cache.Get(ctx, orderNumber); err != nil {
		s.log.Warn("order cache read failed", zap.String("orderNumber", orderNumber), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	order, err := s.store.GetOrderByNumber(ctx, orderNumber)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("track order %s: %w", orderNumber, err)
	}

	if err := s.cache.Set(ctx, order); err != nil {
		s.log.Warn("order cache write failed", zap.String("orderNumber", orderNumber), zap.Error(err))
	}
	return order, nil
}

// Get returns one order with its customer and items.
func (s *Service) Get(ctx context.Context, actor Actor, id int64) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	if !actor.CanAccess(order) {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}

// Page is one page of an order listing.
type Page struct {
	Orders     []models.Order `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// List pages through orders. Customers only ever see their own.
func (s *Service) List(ctx context.Context, actor Actor, f store.OrderFilter) (*Page, error) {
	if !actor.IsStaff() {
		if actor.UserID == 0 {
			return nil, apperrors.Unauthorized("Authentication required")
		}
		f.UserID = actor.UserID
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.Validation("Invalid order status")
	}
	f.Normalize()

	orders, total, err := s.store.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &Page{
		Orders:     orders,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
	}, nil
}

func (s *Service) invalidate(ctx context.Context, orderNumber string) {
	if err := s.cache.Invalidate(ctx, orderNumber); err != nil {
		s.log.Warn("order cache invalidation failed", zap.String("orderNumber", orderNumber), zap.Error(err))
	}
}
