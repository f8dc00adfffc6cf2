package database

import (
	"database/sql"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bachhoa/bachhoa-store/internal/models"
)

// Open connects using the configured driver ("mysql" or "sqlite"). gorm
// logs through log.
func Open(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		pool, err := OpenDBWithDSN(dsn)
		if err != nil {
			return nil, err
		}
		return OpenMySQL(pool, log)
	case "sqlite":
		return OpenSQLite(dsn, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenDBWithDSN creates and configures the MySQL connection pool.
// parseTime is forced on so DATETIME columns scan into time.Time.
func OpenDBWithDSN(dsn string) (*sql.DB, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// OpenMySQL hands an existing pool to gorm.
func OpenMySQL(pool *sql.DB, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: pool}), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open gorm mysql: %w", err)
	}
	return db, nil
}

// OpenSQLite is used for local development and tests. SQLite allows a
// single writer, so the pool is pinned to one connection.
func OpenSQLite(dsn string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log),
	}
}

// AutoMigrate creates or updates every table the API uses. Idempotent.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Product{},
		&models.Inventory{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// SeedRoles makes sure the fixed role rows exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleCustomer, models.RoleStaff, models.RoleAdmin} {
		role := models.Role{Name: name}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
