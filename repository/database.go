package repository

import (
	"fmt"

	"github.com/anil29717/DeepDoc/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared database handle, set by Connect.
var DB *gorm.DB

// Connect opens the postgres connection and runs migrations.
func Connect(cfg *config.Config) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	DB = db
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Folder{},
		&Document{},
		&Conversation{},
		&Message{},
		&Feedback{},
	)
}

// SeedAdmin ensures the configured admin account exists. Existing accounts
// are left untouched.
func SeedAdmin(email, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
	}
	return DB.Create(&admin).Error
}
