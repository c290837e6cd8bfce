package client

import (
	"fmt"
	"spice-storefront/internal/config"
	"spice-storefront/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitStorageClient opens the console's local storage and migrates its schema.
func InitStorageClient(storageCfg *config.Storage) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch storageCfg.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(storageCfg.DSN)
	case "mysql":
		dialector = mysql.Open(storageCfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", storageCfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage handle: %w", err)
	}

	if storageCfg.Driver == "mysql" {
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite serialises writers anyway
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.StorageEntry{}); err != nil {
		return nil, fmt.Errorf("migrate storage: %w", err)
	}

	return db, nil
}
