package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "tiffinly_super_secret_2024"))

// Load reads the optional .env file. Must run before any getter that depends
// on environment values.
func Load() {
	_ = godotenv.Load()
	JWTSecret = []byte(getEnv("JWT_SECRET", "tiffinly_super_secret_2024"))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// CutoffWindow is the pre-delivery buffer during which customization is no
// longer permitted. Configurable so a menu-cycle change never needs a deploy.
func CutoffWindow() time.Duration {
	return time.Duration(getEnvInt("CUSTOMIZATION_CUTOFF_MINUTES", 120)) * time.Minute
}

// DebitTimeout bounds the wallet-debit call inside a customization apply
func DebitTimeout() time.Duration {
	return time.Duration(getEnvInt("DEBIT_TIMEOUT_SECONDS", 5)) * time.Second
}

// HistoryRetention is how long past meals stay visible in order history
func HistoryRetention() time.Duration {
	return time.Duration(getEnvInt("HISTORY_RETENTION_DAYS", 30)) * 24 * time.Hour
}

func InitDB() {
	var err error
	DB, err = gorm.Open(sqlite.Open(getEnv("TIFFINLY_DB", "tiffinly.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.MenuTemplate{},
		&models.ExtraItem{},
		&models.AlternativeMeal{},
		&models.Meal{},
		&models.AppliedExtra{},
		&models.MealStatusHistory{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
}
