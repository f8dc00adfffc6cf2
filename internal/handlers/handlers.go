package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/apperrors"
	"github.com/bachhoa/bachhoa-store/internal/auth"
	"github.com/bachhoa/bachhoa-store/internal/middleware"
	"github.com/bachhoa/bachhoa-store/internal/orders"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store  *store.Store
	Orders *orders.Service
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

// respondError maps an error to its status code and the {"error": msg}
// envelope. Unclassified errors are logged and hidden behind a generic 500.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON binds the body; an empty body is accepted when optional is set.
func bindJSON(c *gin.Context, dst any, optional bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	return false
}

func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

// actor builds the order actor from the authenticated caller.
func actor(c *gin.Context) orders.Actor {
	userID, role, _ := middleware.CurrentUser(c)
	return orders.Actor{UserID: userID, Role: role}
}
