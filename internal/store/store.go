package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInUse is returned when a row is still referenced by orders.
	ErrInUse = errors.New("record in use")
)

// Store is the data-access context. A Store returned to a WithTx callback
// is bound to that transaction; every call on it joins the transaction.
type Store struct {
	db       *gorm.DB
	lockRows bool
}

func New(db *gorm.DB) *Store {
	return &Store{
		db: db,
		// SQLite has no row locks; MySQL gets SELECT ... FOR UPDATE.
		lockRows: db.Dialector.Name() == "mysql",
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithTx runs fn inside a transaction. Any error returned by fn rolls the
// transaction back and is returned unchanged; otherwise it commits.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(&Store{db: tx, lockRows: s.lockRows}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// forUpdate adds a row lock when the dialect supports it.
func (s *Store) forUpdate(db *gorm.DB) *gorm.DB {
	if !s.lockRows {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
