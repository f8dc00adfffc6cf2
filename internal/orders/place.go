package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/apperrors"
	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

type LineItemInput struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput is a checkout request. UserID is zero for guest checkout.
// Total, when set, must agree with the server-side computation.
type PlaceOrderInput struct {
	UserID int64

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress *models.Address
	Items           []LineItemInput

	PaymentMethod  string
	ShippingFee    decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.NullDecimal
	CouponCode     string
	Notes          string
}

// Validate checks the request shape. It touches no storage.
func (in *PlaceOrderInput) Validate() error {
	if strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.CustomerEmail) == "" ||
		strings.TrimSpace(in.CustomerPhone) == "" {
		return apperrors.Validation("Customer information is required")
	}
	if in.ShippingAddress == nil || strings.TrimSpace(in.ShippingAddress.AddressLine1) == "" {
		return apperrors.Validation("Shipping address is required")
	}
	if len(in.Items) == 0 {
		return apperrors.Validation("Order items are required")
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return apperrors.Validation("Invalid quantity for product %d", item.ProductID)
		}
	}
	if in.ShippingFee.IsNegative() {
		return apperrors.Validation("Shipping fee cannot be negative")
	}
	if in.DiscountAmount.IsNegative() {
		return apperrors.Validation("Discount amount cannot be negative")
	}
	return nil
}

// PlaceOrder runs the checkout transaction: resolve products, reserve
// stock line by line, resolve the customer and write the order with its
// items. Any failure rolls every write back.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var orderID int64
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		products, err := resolveProducts(ctx, tx, in.Items)
		if err != nil {
			return err
		}

		items, subtotal, err := reserveStock(ctx, tx, in.Items, products)
		if err != nil {
			return err
		}

		total, err := in.total(subtotal)
		if err != nil {
			return err
		}

		userID, err := s.resolveCustomer(ctx, tx, in)
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:          userID,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusUnpaid,
			PaymentMethod:   in.PaymentMethod,
			Subtotal:        subtotal,
			ShippingAmount:  in.ShippingFee,
			DiscountAmount:  in.DiscountAmount,
			TotalAmount:     total,
			Currency:        s.currency,
			ShippingAddress: *in.ShippingAddress,
			BillingAddress:  *in.ShippingAddress,
			Notes:           in.Notes,
		}
		if order.PaymentMethod == "" {
			order.PaymentMethod = DefaultPaymentMethod
		}
		if code := strings.TrimSpace(in.CouponCode); code != "" {
			order.CouponCode = &code
		}

		if err := s.insertOrder(ctx, tx, order); err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.CreateOrderItems(ctx, items); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reload order %d: %w", orderID, err)
	}
	s.log.Info("order placed",
		zap.String("orderNumber", order.OrderNumber),
		zap.Int64("userId", order.UserID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

// resolveProducts loads every distinct requested product with its
// inventory, failing when any of them does not exist.
func resolveProducts(ctx context.Context, tx *store.Store, items []LineItemInput) (map[int64]*models.Product, error) {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := tx.ProductsWithInventory(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) != len(ids) {
		return nil, apperrors.Validation("Some products not found")
	}

	byID := make(map[int64]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// reserveStock moves stock into reservation for each line in order and
// snapshots the line prices. The in-memory inventory is kept in step so a
// product listed twice is checked against what the earlier line left.
func reserveStock(ctx context.Context, tx *store.Store, lines []LineItemInput, products map[int64]*models.Product) ([]models.OrderItem, decimal.Decimal, error) {
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, apperrors.Validation("Product %d not found", line.ProductID)
		}
		if !product.IsAvailable() {
			return nil, decimal.Zero, apperrors.Validation("Product %s is not available", product.Name)
		}

		available := product.AvailableQuantity()
		if available < line.Quantity {
			return nil, decimal.Zero, insufficientStock(product, available)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			UnitPrice:  product.Price,
			TotalPrice: lineTotal,
		})

		reserved, err := tx.ReserveStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !reserved {
			// Another checkout took the stock after it was read.
			return nil, decimal.Zero, insufficientStock(product, available)
		}
		product.Inventory.Quantity -= line.Quantity
		product.Inventory.ReservedQuantity += line.Quantity
	}

	return items, subtotal, nil
}

func insufficientStock(p *models.Product, available int) error {
	return apperrors.Validation("Insufficient stock for %s. Available: %d", p.Name, available)
}

// total derives subtotal + shipping - discount and checks it against the
// caller's figure when one was sent.
func (in *PlaceOrderInput) total(subtotal decimal.Decimal) (decimal.Decimal, error) {
	total := subtotal.Add(in.ShippingFee).Sub(in.DiscountAmount)
	if total.IsNegative() {
		return decimal.Zero, apperrors.Validation("Order total cannot be negative")
	}
	if in.Total.Valid && !in.Total.Decimal.Equal(total) {
		return decimal.Zero, apperrors.Validation("Order total does not match")
	}
	return total, nil
}

// resolveCustomer returns the owning user id. Guests are matched by email,
// or registered on the fly with a password that can never match.
func (s *Service) resolveCustomer(ctx context.Context, tx *store.Store, in PlaceOrderInput) (int64, error) {
	if in.UserID != 0 {
		return in.UserID, nil
	}

	existing, err := tx.FindUserByEmail(ctx, in.CustomerEmail)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, fmt.Errorf("find guest user: %w", err)
	}

	first, last := models.SplitName(in.CustomerName)
	guest := &models.User{
		FirstName:    first,
		LastName:     last,
		Email:        in.CustomerEmail,
		Phone:        strings.TrimSpace(in.CustomerPhone),
		PasswordHash: models.GuestPasswordHash,
		Status:       models.UserStatusActive,
	}
	if err := tx.CreateUser(ctx, guest); err != nil {
		return 0, fmt.Errorf("create guest user: %w", err)
	}
	return guest.ID, nil
}

// insertOrder assigns an order number and inserts the order, generating a
// fresh number when the previous one collides.
func (s *Service) insertOrder(ctx context.Context, tx *store.Store, order *models.Order) error {
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order.ID = 0
		order.OrderNumber = s.orderNumber(s.now())
		err = tx.CreateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("create order: %w", err)
		}
	}
	return fmt.Errorf("create order: no unique order number after %d attempts: %w", orderNumberAttempts, err)
}
