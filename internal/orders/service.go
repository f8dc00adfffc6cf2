// Package orders implements order placement, cancellation and the order
// status lifecycle on top of the transactional store.
package orders

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/bachhoa/bachhoa-store/internal/cache"
	"github.com/bachhoa/bachhoa-store/internal/models"
	"github.com/bachhoa/bachhoa-store/internal/store"
)

const (
	DefaultCurrency      = "VND"
	DefaultPaymentMethod = models.PaymentMethodCOD

	// orderNumberAttempts bounds regeneration after a unique-key collision.
	orderNumberAttempts = 3
)

type Service struct {
	store       *store.Store
	cache       cache.OrderCache
	log         *zap.Logger
	currency    string
	now         func() time.Time
	orderNumber func(time.Time) string
}

type Option func(*Service)

func WithCache(c cache.OrderCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func WithCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = code
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithOrderNumbers replaces the order-number generator.
func WithOrderNumbers(gen func(time.Time) string) Option {
	return func(s *Service) { s.orderNumber = gen }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store:       st,
		cache:       cache.Nop{},
		log:         zap.NewNop(),
		currency:    DefaultCurrency,
		now:         time.Now,
		orderNumber: NewOrderNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("orders")
	return s
}

// NewOrderNumber builds "ORD" + unix milliseconds + a random 0-999 suffix.
func NewOrderNumber(at time.Time) string {
	return fmt.Sprintf("ORD%d%d", at.UnixMilli(), rand.IntN(1000))
}

// Actor is the caller an order operation runs on behalf of.
type Actor struct {
	UserID int64
	Role   string
}

// IsStaff is true for roles that may see and manage every order.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleStaff || a.Role == models.RoleAdmin
}

// CanAccess reports whether the actor may read or cancel the order.
func (a Actor) CanAccess(o *models.Order) bool {
	return a.IsStaff() || (a.UserID != 0 && o.UserID == a.UserID)
}
