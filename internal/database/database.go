package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bountychain/report-vault/internal/config"
	"github.com/bountychain/report-vault/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database and stores it in DB.
func Connect(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	DB = db
	slog.Info("database connected", "driver", cfg.DBDriver)
	return nil
}

// Open returns a configured *gorm.DB without touching the package global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite serializes writers; one connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}
	return db, nil
}

// Migrate runs AutoMigrate for every model the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Bounty{},
		&models.Report{},
		&models.ReportEvent{},
		&models.PayoutIntent{},
		&models.SystemLog{},
	)
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
