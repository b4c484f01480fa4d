package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/emlak-portal/logging"
	"github.com/emlak-portal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Options selects the driver and pool settings for Open
type Options struct {
	Driver       string // postgres or sqlite
	URL          string
	MaxIdleConns int
	MaxOpenConns int
	Logger       *zap.Logger
	LogLevel     string
}

// Open sets up the GORM database connection. Driver errors are translated
// into gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(opts Options) (*gorm.DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "postgres":
		dialector = postgres.Open(opts.URL)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(opts.URL))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	// Connect to database
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.Gorm(opts.Logger, opts.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}

	if opts.Driver == "sqlite" {
		// An in-memory database lives as long as its single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxIdleConns(orDefault(opts.MaxIdleConns, 10))
		sqlDB.SetMaxOpenConns(orDefault(opts.MaxOpenConns, 100))
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := setupJoinTables(db); err != nil {
		return nil, err
	}

	logVersion(db, opts)
	return db, nil
}

// setupJoinTables registers custom join models before migration
func setupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Property{}, "Descriptors", &models.PropertyDescriptorAssignment{}); err != nil {
		return fmt.Errorf("failed to set up descriptor join table: %w", err)
	}
	return nil
}

func logVersion(db *gorm.DB, opts Options) {
	query := "SELECT version()"
	if opts.Driver == "sqlite" {
		query = "SELECT sqlite_version()"
	}
	var version string
	if err := db.Raw(query).Scan(&version).Error; err == nil {
		opts.Logger.Info("connected to database", zap.String("driver", opts.Driver), zap.String("version", version))
	}
}

func sqliteDSN(url string) string {
	if strings.Contains(url, "_foreign_keys") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&_foreign_keys=1"
	}
	return url + "?_foreign_keys=1"
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
