package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusOutOfStock, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product is the model for the 'products' table.
type Product struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Slug        string `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	SKU         string `json:"sku" gorm:"column:sku;size:100;uniqueIndex;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	// --- Pricing ---
	Price        decimal.Decimal     `json:"price" gorm:"type:decimal(14,2);not null"`
	ComparePrice decimal.NullDecimal `json:"comparePrice" gorm:"type:decimal(14,2)"`

	Status   ProductStatus `json:"status" gorm:"size:20;index;not null"`
	Featured bool          `json:"featured" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) IsAvailable() bool {
	return p.Status == ProductStatusActive
}

// IsOnSale is true when a compare-at price above the current price is set.
func (p *Product) IsOnSale() bool {
	return p.ComparePrice.Valid && p.ComparePrice.Decimal.GreaterThan(p.Price)
}

// DiscountPercentage is the rounded saving against the compare-at price.
func (p *Product) DiscountPercentage() int {
	if !p.IsOnSale() {
		return 0
	}
	saving := p.ComparePrice.Decimal.Sub(p.Price)
	return int(saving.Div(p.ComparePrice.Decimal).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// MarshalJSON adds the derived sale fields to the product payload.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		IsOnSale           bool `json:"isOnSale"`
		DiscountPercentage int  `json:"discountPercentage"`
	}{alias(p), p.IsOnSale(), p.DiscountPercentage()})
}

// AvailableQuantity is the on-hand stock, 0 without an inventory record.
func (p *Product) AvailableQuantity() int {
	if p.Inventory == nil {
		return 0
	}
	return p.Inventory.Quantity
}

// Inventory is the model for the 'inventories' table (1:1 with products).
type Inventory struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	ProductID         int64     `json:"productId" gorm:"uniqueIndex;not null"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity  int       `json:"reservedQuantity" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"lowStockThreshold" gorm:"not null;default:10"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (i *Inventory) LowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}
