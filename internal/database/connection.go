// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dungeun/video-platform-sub018/internal/config"
	"github.com/dungeun/video-platform-sub018/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Campaign{},
		&models.Application{},
		&models.Content{},
		&models.Payment{},
		&models.SuperChat{},
		&models.Settlement{},
		&models.SettlementItem{},
		&models.Revenue{},
		&models.AdminSettings{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",

		// Campaign indexes
		"CREATE INDEX IF NOT EXISTS idx_campaigns_business ON campaigns(business_id)",
		"CREATE INDEX IF NOT EXISTS idx_campaigns_status_paid ON campaigns(status, is_paid)",
		"CREATE INDEX IF NOT EXISTS idx_campaigns_dates ON campaigns(start_date, end_date)",

		// Application indexes
		"CREATE INDEX IF NOT EXISTS idx_applications_influencer_status ON applications(influencer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_unsettled ON applications(influencer_id) WHERE settled_at IS NULL",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_campaign_status ON payments(campaign_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_payer ON payments(payer_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at DESC)",

		// Settlement indexes
		"CREATE INDEX IF NOT EXISTS idx_settlements_influencer_status ON settlements(influencer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_settlement_items_application ON settlement_items(application_id)",

		// Revenue indexes
		"CREATE INDEX IF NOT EXISTS idx_revenues_bucket ON revenues(year, month)",
		"CREATE INDEX IF NOT EXISTS idx_revenues_user ON revenues(user_id)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@video-platform.local",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
			ProfileData: models.JSONB{
				"display_name": "Platform Administrator",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Create default platform settings
	defaultSettings := []models.AdminSettings{
		{
			Category:    "payments",
			Key:         "platform_fee_rate",
			Value:       models.JSONB{"value": 0.1},
			DataType:    "float",
			Description: "Default platform fee rate applied to new campaigns",
		},
		{
			Category:    "payments",
			Key:         "influencer_fee_rate",
			Value:       models.JSONB{"value": 0.0},
			DataType:    "float",
			Description: "Fee rate deducted from influencer settlement items",
		},
		{
			Category:    "settlements",
			Key:         "minimum_settlement_amount",
			Value:       models.JSONB{"value": 10000},
			DataType:    "integer",
			Description: "Minimum total amount (minor units) for a settlement request",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.AdminSettings{}).Where("category = ? AND key = ?", setting.Category, setting.Key).Count(&count)

		if count == 0 {
			// Get admin user ID for the UpdatedBy field
			var admin models.User
			if err := db.Where("user_type = ?", models.UserTypeAdmin).First(&admin).Error; err == nil {
				setting.UpdatedBy = admin.ID
				if err := db.Create(&setting).Error; err != nil {
					log.Printf("Warning: Failed to create setting %s.%s: %v", setting.Category, setting.Key, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// WithTransaction runs fn inside a transaction, retrying once when the
// failure looks transient (dropped connection). Financial mutations are
// otherwise never retried blindly.
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := runTransaction(db, fn)
	if err != nil && isTransient(err) {
		return runTransaction(db, fn)
	}
	return err
}

func runTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func isTransient(err error) bool {
	return errors.Is(err, gorm.ErrInvalidTransaction)
}
