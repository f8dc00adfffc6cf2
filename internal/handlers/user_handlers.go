package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

// --- User Registration ---

// RegisterUserInput is kept apart from models.User so callers cannot set
// ids, roles or status.
type RegisterUserInput struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone" binding:"max=32"`
}

// Register is the handler for POST /api/v1/auth/register.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if !bindJSON(c, &input, false) {
		return
	}

	// 2. --- Hash the Password ---
	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// 3. --- Save User ---
	user := &models.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: password.Hash,
		Status:       models.UserStatusActive,
	}
	err := h.Store.CreateUser(c.Request.Context(), user, models.RoleCustomer)
	if errors.Is(err, store.ErrDuplicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 4. --- Issue Token ---
	token, err := h.Tokens.GenerateToken(user.ID, user.PrimaryRole())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// --- User Login ---

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /api/v1/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if !bindJSON(c, &input, false) {
		return
	}
	ctx := c.Request.Context()

	// 1. --- Find User ---
	user, err := h.Store.FindUserByEmail(ctx, input.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Check Password ---
	// Guest checkout accounts carry a placeholder hash that never matches.
	pw := models.Password{Hash: user.PasswordHash}
	match, err := pw.Matches(input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !match {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
		return
	}

	// 3. --- Check Status ---
	if user.Status != models.UserStatusActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account is inactive"})
		return
	}

	// 4. --- Record Login & Issue Token ---
	now := time.Now()
	if err := h.Store.TouchLastLogin(ctx, user.ID, now); err != nil {
		h.respondError(c, err)
		return
	}
	user.LastLogin = &now

	token, err := h.Tokens.GenerateToken(user.ID, user.PrimaryRole())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
