package db

import (
	"fmt"
	"time"

	"github.com/gatherup-events/gatherup/internal/config"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Dialect builds the postgres dialector from application config.
func Dialect(cfg config.Config) gorm.Dialector {
	return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	))
}

// Open connects to the database and applies pool settings from config.
func Open(cfg config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(Dialect(cfg), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)

	return gdb, nil
}

// Module wires the shared gorm handle.
var Module = fx.Module("db",
	fx.Provide(Open),
)
