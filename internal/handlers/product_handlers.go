package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

//
// --- Product Handlers ---
//

type CreateProductInput struct {
	Name              string               `json:"name" binding:"required,max=255"`
	Description       string               `json:"description"`
	SKU               string               `json:"sku" binding:"max=100"`
	Price             decimal.Decimal      `json:"price"`
	ComparePrice      decimal.NullDecimal  `json:"comparePrice"`
	Status            models.ProductStatus `json:"status"`
	Featured          bool                 `json:"featured"`
	Quantity          int                  `json:"quantity" binding:"min=0"`
	LowStockThreshold *int                 `json:"lowStockThreshold" binding:"omitempty,min=0"`
}

// CreateProduct is POST /api/v1/products (staff only). The slug comes from
// the name; the SKU is generated when none is given.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if !bindJSON(c, &input, false) {
		return
	}
	ctx := c.Request.Context()

	// 1. --- Validate Business Rules ---
	if !input.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than zero"})
		return
	}
	if input.Status == "" {
		input.Status = models.ProductStatusActive
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product status"})
		return
	}

	// 2. --- Derive Slug & SKU ---
	productSlug, err := h.uniqueSlug(ctx, input.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = "BH-" + strings.ToUpper(shortID())
	}

	threshold := 10
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}

	// 3. --- Save Product & Stock ---
	product := &models.Product{
		Name:         strings.TrimSpace(input.Name),
		Slug:         productSlug,
		SKU:          sku,
		Description:  input.Description,
		Price:        input.Price,
		ComparePrice: input.ComparePrice,
		Status:       input.Status,
		Featured:     input.Featured,
		Inventory: &models.Inventory{
			Quantity:          input.Quantity,
			LowStockThreshold: threshold,
		},
	}
	err = h.Store.CreateProduct(ctx, product)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A product with this SKU already exists"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// GetProduct is GET /api/v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}

	product, err := h.Store.GetProduct(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ListProducts is GET /api/v1/products. Only active products are listed
// unless a status is given; status=all lists every status.
func (h *Handlers) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	filter := store.ProductFilter{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	if filter.Search == "" {
		filter.Search = c.Query("q")
	}

	if status := c.DefaultQuery("status", string(models.ProductStatusActive)); status != "all" {
		filter.Status = models.ProductStatus(status)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product status"})
			return
		}
	}

	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid featured filter"})
			return
		}
		filter.Featured = &featured
	}

	for _, bound := range []struct {
		key string
		dst *decimal.NullDecimal
	}{{"minPrice", &filter.MinPrice}, {"maxPrice", &filter.MaxPrice}} {
		raw := c.Query(bound.key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + bound.key})
			return
		}
		*bound.dst = decimal.NewNullDecimal(d)
	}

	products, total, err := h.Store.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filter.Normalize()
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": gin.H{
			"total":      total,
			"page":       filter.Page,
			"limit":      filter.Limit,
			"totalPages": totalPages,
		},
	})
}

// GetFeaturedProducts is GET /api/v1/products/featured
func (h *Handlers) GetFeaturedProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if err != nil || limit < 1 {
		limit = 8
	}
	if limit > 50 {
		limit = 50
	}

	products, err := h.Store.FeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// UpdateProductInput carries a partial update; nil fields are left alone.
// A comparePrice of 0 clears the compare-at price.
type UpdateProductInput struct {
	Name         *string               `json:"name" binding:"omitempty,min=1,max=255"`
	Description  *string               `json:"description"`
	SKU          *string               `json:"sku" binding:"omitempty,min=1,max=100"`
	Price        *decimal.Decimal      `json:"price"`
	ComparePrice *decimal.Decimal      `json:"comparePrice"`
	Status       *models.ProductStatus `json:"status"`
	Featured     *bool                 `json:"featured"`
}

// UpdateProduct is PUT /api/v1/products/:id (staff only). Renaming a
// product gives it a new slug.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}
	var input UpdateProductInput
	if !bindJSON(c, &input, false) {
		return
	}
	ctx := c.Request.Context()

	// 1. --- Load Product ---
	product, err := h.Store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Collect Changes ---
	changes := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
			return
		}
		if name != product.Name {
			productSlug, err := h.uniqueSlug(ctx, name)
			if err != nil {
				h.respondError(c, err)
				return
			}
			changes["name"] = name
			changes["slug"] = productSlug
		}
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.SKU != nil {
		if sku := strings.TrimSpace(*input.SKU); sku != product.SKU {
			changes["sku"] = sku
		}
	}
	if input.Price != nil {
		if !input.Price.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than zero"})
			return
		}
		changes["price"] = *input.Price
	}
	if input.ComparePrice != nil {
		switch {
		case input.ComparePrice.IsNegative():
			c.JSON(http.StatusBadRequest, gin.H{"error": "Compare price cannot be negative"})
			return
		case input.ComparePrice.IsZero():
			changes["compare_price"] = nil
		default:
			changes["compare_price"] = *input.ComparePrice
		}
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product status"})
			return
		}
		changes["status"] = *input.Status
	}
	if input.Featured != nil {
		changes["featured"] = *input.Featured
	}

	// 3. --- Save & Reload ---
	err = h.Store.UpdateProduct(ctx, id, changes)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A product with this SKU already exists"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if product, err = h.Store.GetProduct(ctx, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

type UpdateProductStatusInput struct {
	Status models.ProductStatus `json:"status"`
}

// UpdateProductStatus is PATCH /api/v1/products/:id/status (staff only).
func (h *Handlers) UpdateProductStatus(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}
	var input UpdateProductStatusInput
	if !bindJSON(c, &input, false) {
		return
	}
	if !input.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product status"})
		return
	}
	ctx := c.Request.Context()

	product, err := h.Store.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	if product.Status != input.Status {
		if err := h.Store.SetProductStatus(ctx, id, input.Status); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product status updated successfully",
		"product": gin.H{"id": product.ID, "name": product.Name, "status": input.Status},
	})
}

// DeleteProduct is DELETE /api/v1/products/:id (admin only). Products that
// were ever ordered stay; they can be discontinued instead.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}

	err := h.Store.DeleteProduct(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, store.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Product has orders and cannot be deleted; discontinue it instead"})
	case err != nil:
		h.respondError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

type AdjustInventoryInput struct {
	Delta int `json:"delta"`
}

// AdjustInventory is PATCH /api/v1/products/:id/inventory (staff only).
// A positive delta receives stock, a negative one writes it off.
func (h *Handlers) AdjustInventory(c *gin.Context) {
	id, ok := pathID(c, "product")
	if !ok {
		return
	}
	var input AdjustInventoryInput
	if !bindJSON(c, &input, false) {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Store.GetProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.respondError(c, err)
		return
	}

	inv, adjusted, err := h.Store.AdjustStock(ctx, id, input.Delta)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory not found"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !adjusted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot go below zero"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Inventory updated successfully",
		"inventory": inv,
	})
}

// uniqueSlug derives the URL slug from a product name, adding a short
// random suffix when the plain slug is taken.
func (h *Handlers) uniqueSlug(ctx context.Context, name string) (string, error) {
	productSlug := slug.Make(name)
	if productSlug == "" {
		productSlug = "product"
	}
	taken, err := h.Store.SlugExists(ctx, productSlug)
	if err != nil {
		return "", err
	}
	if taken {
		productSlug = fmt.Sprintf("%s-%s", productSlug, shortID())
	}
	return productSlug, nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
