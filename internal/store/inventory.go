package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// ReserveStock moves qty units from on-hand to reserved for one product.
// The decrement is conditional on enough stock, so it reports false
// instead of ever driving quantity below zero.
func (s *Store) ReserveStock(ctx context.Context, productID int64, qty int) (bool, error) {
	res := s.conn(ctx).Model(&models.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		Updates(map[string]any{
			"quantity":          gorm.Expr("quantity - ?", qty),
			"reserved_quantity": gorm.Expr("reserved_quantity + ?", qty),
		})
	if res.Error != nil {
		return false, fmt.Errorf("reserve stock for product %d: %w", productID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RestoreStock returns qty units to on-hand stock and releases the same
// amount of reservation, never letting reserved_quantity drop below zero.
func (s *Store) RestoreStock(ctx context.Context, productID int64, qty int) error {
	res := s.conn(ctx).Model(&models.Inventory{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"quantity": gorm.Expr("quantity + ?", qty),
			"reserved_quantity": gorm.Expr(
				"CASE WHEN reserved_quantity >= ? THEN reserved_quantity - ? ELSE 0 END", qty, qty),
		})
	if res.Error != nil {
		return fmt.Errorf("restore stock for product %d: %w", productID, res.Error)
	}
	return nil
}

// AdjustStock applies a manual delta to on-hand stock and returns the
// updated row. It reports ok=false when the delta would make stock negative.
// A missing inventory row is created for non-negative deltas.
func (s *Store) AdjustStock(ctx context.Context, productID int64, delta int) (inv *models.Inventory, ok bool, err error) {
	if delta == 0 {
		var out models.Inventory
		if err := s.conn(ctx).Where("product_id = ?", productID).First(&out).Error; err != nil {
			return nil, false, translate(err)
		}
		return &out, true, nil
	}

	res := s.conn(ctx).Model(&models.Inventory{}).
		Where("product_id = ? AND quantity + ? >= 0", productID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return nil, false, fmt.Errorf("adjust stock for product %d: %w", productID, res.Error)
	}

	if res.RowsAffected == 0 {
		var existing int64
		if err := s.conn(ctx).Model(&models.Inventory{}).Where("product_id = ?", productID).Count(&existing).Error; err != nil {
			return nil, false, err
		}
		if existing > 0 || delta < 0 {
			return nil, false, nil
		}
		created := &models.Inventory{ProductID: productID, Quantity: delta}
		if err := s.conn(ctx).Create(created).Error; err != nil {
			return nil, false, translate(err)
		}
	}

	var out models.Inventory
	if err := s.conn(ctx).Where("product_id = ?", productID).First(&out).Error; err != nil {
		return nil, false, translate(err)
	}
	return &out, true, nil
}

// LowStockCount counts inventory rows at or below their threshold.
func (s *Store) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Inventory{}).
		Where("quantity <= low_stock_threshold").
		Count(&count).Error
	return count, err
}
