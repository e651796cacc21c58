package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	MinIO    MinIOConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Env          string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// BodyLimit caps request bodies; movie videos pass through it.
	BodyLimit    int
}

type APIConfig struct {
	Origin  string
	Version string
	// Zero leaves the http.Client default in place.
	HTTPTimeout time.Duration
	PageLimit   int
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	// Idle mounted pages are dropped after this long.
	WorkspaceTTL time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type MinIOConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
	PublicURL       string
	StageVideos     bool
	PresignExpiry   time.Duration
}

type AdminConfig struct {
	Token string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env:          getEnvOrDefault("GO_ENV", "dev"),
			Port:         getEnvOrDefault("SERVER_PORT", "8020"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 5*time.Minute),
			BodyLimit:    getIntOrDefault("SERVER_BODY_LIMIT_MB", 512) * 1024 * 1024,
		},
		API: APIConfig{
			Origin:      strings.TrimRight(getEnvOrDefault("API_ORIGIN", "http://localhost:3000"), "/"),
			Version:     getEnvOrDefault("API_VERSION", "v1"),
			HTTPTimeout: getDurationOrDefault("API_HTTP_TIMEOUT", 0),
			PageLimit:   getIntOrDefault("API_PAGE_LIMIT", 10),
		},
		Session: SessionConfig{
			CookieName:   getEnvOrDefault("SESSION_COOKIE", "catalog_admin_session"),
			TTL:          getDurationOrDefault("SESSION_TTL", 24*time.Hour),
			WorkspaceTTL: getDurationOrDefault("WORKSPACE_TTL", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Enabled:         getBoolOrDefault("AUDIT_ENABLED", false),
			Host:            getEnvOrDefault("DB_HOST", "localhost"),
			Port:            getEnvOrDefault("DB_PORT", "5432"),
			User:            getEnvOrDefault("DB_USER", "postgres"),
			Password:        getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:          getEnvOrDefault("DB_NAME", "catalog_admin"),
			SSLMode:         getEnvOrDefault("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("DB_QUERY_TIMEOUT", 10*time.Second),
		},
		MinIO: MinIOConfig{
			Enabled:         getBoolOrDefault("MINIO_ENABLED", false),
			Endpoint:        getEnvOrDefault("AWS_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnvOrDefault("AWS_BUCKET", "catalog-uploads"),
			Region:          getEnvOrDefault("AWS_DEFAULT_REGION", "us-east-1"),
			UseSSL:          getBoolOrDefault("AWS_USE_SSL", false),
			PublicURL:       getEnvOrDefault("AWS_URL", "http://localhost:9000"),
			StageVideos:     getBoolOrDefault("STAGE_VIDEO_UPLOADS", false),
			PresignExpiry:   getDurationOrDefault("PRESIGN_EXPIRY", 15*time.Minute),
		},
		Admin: AdminConfig{
			Token: os.Getenv("ADMIN_API_TOKEN"),
		},
	}
}

// BaseURL returns the versioned API root, e.g. https://api.example.com/v1.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("%s/%s", c.API.Origin, strings.Trim(c.API.Version, "/"))
}

// RedisAddr returns the Redis address in host:port format
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "dev" || c.Server.Env == "development"
}

func (c *Config) Validate() error {
	if c.API.Origin == "" {
		return fmt.Errorf("API_ORIGIN is required")
	}
	if !strings.HasPrefix(c.API.Origin, "http://") && !strings.HasPrefix(c.API.Origin, "https://") {
		return fmt.Errorf("API_ORIGIN must start with http:// or https://")
	}
	if c.API.PageLimit < 1 || c.API.PageLimit > 100 {
		return fmt.Errorf("API_PAGE_LIMIT must be between 1 and 100")
	}
	if c.MinIO.Enabled {
		if c.MinIO.AccessKeyID == "" {
			return fmt.Errorf("AWS_ACCESS_KEY_ID is required for MinIO")
		}
		if c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("AWS_SECRET_ACCESS_KEY is required for MinIO")
		}
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when AUDIT_ENABLED is set")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC connect_timeout=10",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
