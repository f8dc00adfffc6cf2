package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/bachhoa/bachhoa-store/internal/middleware"
	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/orders"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

//
// --- Order Handlers ---
//

type OrderItemInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderInput is the checkout body. Presence checks are left to the
// order service so every client sees the same messages. Subtotal is
// accepted for compatibility and recomputed on the server.
type CreateOrderInput struct {
	CustomerName    string              `json:"customerName"`
	CustomerEmail   string              `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone   string              `json:"customerPhone"`
	ShippingAddress *models.Address     `json:"shippingAddress"`
	Items           []OrderItemInput    `json:"items"`
	PaymentMethod   string              `json:"paymentMethod"`
	Subtotal        decimal.NullDecimal `json:"subtotal"`
	ShippingFee     decimal.Decimal     `json:"shippingFee"`
	DiscountAmount  decimal.Decimal     `json:"discountAmount"`
	Total           decimal.NullDecimal `json:"total"`
	CouponCode      string              `json:"couponCode"`
	Notes           string              `json:"notes"`
}

// CreateOrder is the handler for POST /api/v1/orders (guest or signed in).
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Bind Input ---
	var input CreateOrderInput
	if !bindJSON(c, &input, false) {
		return
	}

	// 2. --- Build Checkout Request ---
	in := orders.PlaceOrderInput{
		CustomerName:    input.CustomerName,
		CustomerEmail:   input.CustomerEmail,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ShippingFee:     input.ShippingFee,
		DiscountAmount:  input.DiscountAmount,
		Total:           input.Total,
		CouponCode:      input.CouponCode,
		Notes:           input.Notes,
	}
	for _, item := range input.Items {
		in.Items = append(in.Items, orders.LineItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if userID, _, ok := middleware.CurrentUser(c); ok {
		in.UserID = userID
	}

	// 3. --- Place Order ---
	order, err := h.Orders.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
	})
}

// TrackOrder is the public lookup: GET /api/v1/orders/track/:orderNumber
func (h *Handlers) TrackOrder(c *gin.Context) {
	order, err := h.Orders.Track(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// ListOrders is GET /api/v1/orders. Customers only see their own orders;
// staff may filter by userId.
func (h *Handlers) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	userID, _ := strconv.ParseInt(c.Query("userId"), 10, 64)

	filter := store.OrderFilter{
		Page:          page,
		Limit:         limit,
		Status:        models.OrderStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("paymentStatus")),
		UserID:        userID,
		Search:        c.Query("search"),
		SortBy:        c.Query("sortBy"),
		SortOrder:     c.Query("sortOrder"),
	}

	result, err := h.Orders.List(c.Request.Context(), actor(c), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": result.Orders,
		"pagination": gin.H{
			"total":      result.Total,
			"page":       result.Page,
			"limit":      result.Limit,
			"totalPages": result.TotalPages,
		},
	})
}

// GetOrder is GET /api/v1/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}

	order, err := h.Orders.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

type CancelOrderInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrder is PATCH /api/v1/orders/:id/cancel (owner or staff).
func (h *Handlers) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}
	var input CancelOrderInput
	if !bindJSON(c, &input, true) {
		return
	}

	order, err := h.Orders.Cancel(c.Request.Context(), actor(c), id, input.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

type UpdateOrderStatusInput struct {
	Status models.OrderStatus `json:"status"`
}

// UpdateOrderStatus is PATCH /api/v1/orders/:id/status (staff only).
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "order")
	if !ok {
		return
	}
	var input UpdateOrderStatusInput
	if !bindJSON(c, &input, true) {
		return
	}

	order, err := h.Orders.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"order":   order,
	})
}
