package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cipher   CipherConfig
	Password PasswordConfig
	Geo      GeoConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// CipherConfig holds the process-wide field encryption settings.
type CipherConfig struct {
	Algorithm string
	Key       string
	IV        string
}

type PasswordConfig struct {
	BcryptCost         int
	HashConcurrency    int
	ResetTokenLifetime time.Duration
}

// GeoConfig is the base point used by radius queries.
type GeoConfig struct {
	BaseLng float64
	BaseLat float64
}

// ConnString returns DATABASE_URL when set, otherwise a postgres URL built
// from the DB_* parts.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "food-ordering")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("ENCRYPT_ALGO", "aes-256-cbc")
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("HASH_CONCURRENCY", runtime.NumCPU())
	viper.SetDefault("RESET_TOKEN_TTL_MINUTES", 10)
	viper.SetDefault("BASE_LNG", 51.3890)
	viper.SetDefault("BASE_LAT", 35.6892)

	// .env is optional, plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			URL:         viper.GetString("DATABASE_URL"),
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			Name:        viper.GetString("DB_NAME"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASS"),
			MaxConns:    viper.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		Cipher: CipherConfig{
			Algorithm: viper.GetString("ENCRYPT_ALGO"),
			Key:       viper.GetString("ENCRYPT_KEY"),
			IV:        viper.GetString("ENCRYPT_INIT_VEC"),
		},
		Password: PasswordConfig{
			BcryptCost:         viper.GetInt("BCRYPT_COST"),
			HashConcurrency:    viper.GetInt("HASH_CONCURRENCY"),
			ResetTokenLifetime: time.Duration(viper.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,
		},
		Geo: GeoConfig{
			BaseLng: viper.GetFloat64("BASE_LNG"),
			BaseLat: viper.GetFloat64("BASE_LAT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	if c.Cipher.Key == "" || c.Cipher.IV == "" {
		return fmt.Errorf("ENCRYPT_KEY and ENCRYPT_INIT_VEC are required")
	}
	if c.Database.URL == "" && c.Database.Name == "" {
		return fmt.Errorf("DATABASE_URL or DB_NAME is required")
	}
	if c.Password.HashConcurrency < 1 {
		c.Password.HashConcurrency = 1
	}
	if c.Password.ResetTokenLifetime <= 0 {
		c.Password.ResetTokenLifetime = 10 * time.Minute
	}
	return nil
}
