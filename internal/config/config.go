package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stepanovd/tasktrack/internal/models"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTTTL           time.Duration
	BcryptCost       int
	CORSOrigins      []string
	KafkaAddress     string
	KafkaTopic       string
	ESURL            string
	ESUser           string
	ESPassword       string
	ESIndex          string
	SessionRetention time.Duration
	LogLevel         string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           getDuration("JWT_TTL", 24*time.Hour),
		BcryptCost:       getInt("BCRYPT_COST", bcrypt.DefaultCost),
		CORSOrigins:      splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		KafkaAddress:     os.Getenv("KAFKA_ADDRESS"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "user_events"),
		ESURL:            os.Getenv("ES_URL"),
		ESUser:           os.Getenv("ES_USER"),
		ESPassword:       os.Getenv("ES_PASSWORD"),
		ESIndex:          getEnv("ES_INDEX", "tasks"),
		SessionRetention: getDuration("SESSION_RETENTION", 7*24*time.Hour),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	if config.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if config.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return config, nil
}

func (c *Config) InitDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.DatabaseURL), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Task{}); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Notice: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Notice: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
