package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName     string      `json:"appname"`
	AppEnv      string      `json:"appenv"`
	AppPort     uint16      `json:"appport"`
	GinMode     string      `json:"ginmode"`
	DBHost      string      `json:"dbhost"`
	DBPort      uint16      `json:"dbport"`
	DBName      string      `json:"dbname"`
	DBUSER      string      `json:"dbuser"`
	DBPass      string      `json:"dbpass"`
	JWTSecret   string      `json:"-"`
	LogLevel    string      `json:"loglevel"`
	CORSOrigins []string    `json:"cors_origins"`
	Redis       RedisConfig `json:"redis"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error; the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}

		appPort, err := strconv.ParseUint(getEnv("APPPORT", "3000"), 10, 16)
		if err != nil {
			appPort = 3000
		}
		dbPort, err := strconv.ParseUint(getEnv("DBPORT", "3306"), 10, 16)
		if err != nil {
			dbPort = 3306
		}

		config = &Config{
			AppName:     getEnv("APPNAME", "neuro-clinic"),
			AppEnv:      os.Getenv("APPENV"),
			AppPort:     uint16(appPort),
			GinMode:     getEnv("GINMODE", "release"),
			DBHost:      os.Getenv("DBHOST"),
			DBPort:      uint16(dbPort),
			DBName:      os.Getenv("DBNAME"),
			DBUSER:      os.Getenv("DBUSER"),
			DBPass:      os.Getenv("DBPASS"),
			JWTSecret:   os.Getenv("JWTSECRET"),
			LogLevel:    getEnv("LOGLEVEL", "info"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
			Redis:       loadRedisConfig(),
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// gormConfig is shared by the MySQL and SQLite connections. Duplicate key errors are
// translated to gorm.ErrDuplicatedKey, and no foreign keys are created so that deleting
// a doctor or disorder leaves patient references dangling instead of failing.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

// ConnectMySQL establishes a connection to a MySQL database using the configuration values.
// When APPENV is "test" a fresh in-memory SQLite database is returned instead.
func ConnectMySQL() (*gorm.DB, error) {
	if os.Getenv("APPENV") == "test" {
		dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), gormConfig())
	}

	cfg := LoadConfig()
	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	return db, nil
}
