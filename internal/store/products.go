package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// ProductFilter narrows and pages ListProducts. An empty Status lists
// every status.
type ProductFilter struct {
	Page      int
	Limit     int
	Status    models.ProductStatus
	Featured  *bool
	Search    string
	MinPrice  decimal.NullDecimal
	MaxPrice  decimal.NullDecimal
	SortBy    string
	SortOrder string
}

var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"featured":  "featured",
}

// Normalize clamps paging and falls back to newest-first ordering.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 12
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if _, ok := productSortColumns[f.SortBy]; !ok {
		f.SortBy = "createdAt"
	}
	if strings.ToUpper(f.SortOrder) == "ASC" {
		f.SortOrder = "ASC"
	} else {
		f.SortOrder = "DESC"
	}
}

// ProductsWithInventory loads the given products with their inventory rows.
// Inside a transaction on MySQL the product rows are locked until commit.
func (s *Store) ProductsWithInventory(ctx context.Context, ids []int64) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := s.forUpdate(s.conn(ctx)).
		Preload("Inventory").
		Where("id IN ?", ids).
		Find(&products).Error
	return products, translate(err)
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).Preload("Inventory").First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// CreateProduct inserts the product and, when set, its inventory row.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.conn(ctx).Create(p).Error)
}

func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, translate(err)
}

// ListProducts returns one page of products with inventory and the total
// matching count.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	f.Normalize()

	filtered := func() *gorm.DB {
		q := s.conn(ctx).Model(&models.Product{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.Featured != nil {
			q = q.Where("featured = ?", *f.Featured)
		}
		if term := strings.TrimSpace(f.Search); term != "" {
			like := "%" + term + "%"
			q = q.Where("name LIKE ? OR description LIKE ? OR sku LIKE ?", like, like, like)
		}
		if f.MinPrice.Valid {
			q = q.Where("price >= ?", f.MinPrice.Decimal)
		}
		if f.MaxPrice.Valid {
			q = q.Where("price <= ?", f.MaxPrice.Decimal)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := filtered().Preload("Inventory")
	if f.SortBy == "featured" {
		// Featured first, newest first within each group.
		q = q.Order("featured DESC").Order("created_at DESC")
	} else {
		q = q.Order(productSortColumns[f.SortBy] + " " + f.SortOrder)
	}

	products := []models.Product{}
	err := q.Order("id " + f.SortOrder).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FeaturedProducts lists the newest active featured products.
func (s *Store) FeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := s.conn(ctx).Preload("Inventory").
		Where("status = ? AND featured = ?", models.ProductStatusActive, true).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// UpdateProduct writes the given columns of one product row. Keys are
// column names.
func (s *Store) UpdateProduct(ctx context.Context, id int64, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	err := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(changes).Error
	return translate(err)
}

// SetProductStatus changes the status of one product.
func (s *Store) SetProductStatus(ctx context.Context, id int64, status models.ProductStatus) error {
	return s.UpdateProduct(ctx, id, map[string]any{"status": status})
}

// DeleteProduct removes a product and its inventory row. Products that
// appear on any order are kept and ErrInUse is returned.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *Store) error {
		var refs int64
		err := tx.conn(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&refs).Error
		if err != nil {
			return err
		}
		if refs > 0 {
			return ErrInUse
		}

		if err := tx.conn(ctx).Where("product_id = ?", id).Delete(&models.Inventory{}).Error; err != nil {
			return fmt.Errorf("delete inventory of product %d: %w", id, err)
		}
		res := tx.conn(ctx).Delete(&models.Product{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
