// 환경변수 기반 설정 로딩
//
// 우선순위: 환경변수 > CONFIG_FILE(YAML) > 기본값
// .env 파일이 있으면 먼저 로드합니다 (없어도 에러 아님).

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Minio    MinioConfig    `yaml:"minio"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Timezone       string   `yaml:"timezone"`
}

type PostgresConfig struct {
	DatabaseURL string `yaml:"database_url"`
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"sslmode"`
}

type AuthConfig struct {
	JWTAccessSecret    string `yaml:"jwt_access_secret"`
	JWTRefreshSecret   string `yaml:"jwt_refresh_secret"`
	JWTAccessTTL       string `yaml:"jwt_access_ttl"`
	JWTRefreshTTL      string `yaml:"jwt_refresh_ttl"`
	BcryptCost         int    `yaml:"bcrypt_cost"`
	RootUsername       string `yaml:"root_username"`
	RootPassword       string `yaml:"root_password"`
	LoginMaxFailures   int    `yaml:"login_max_failures"`
	LoginLockoutTTL    string `yaml:"login_lockout_ttl"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:     "8080",
			Timezone: "UTC",
		},
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			SSLMode: "disable",
		},
		Auth: AuthConfig{
			JWTAccessTTL:       "10m",
			JWTRefreshTTL:      "30m",
			BcryptCost:         10,
			LoginMaxFailures:   5,
			LoginLockoutTTL:    "15m",
			RateLimitPerMinute: 10,
		},
		Minio: MinioConfig{
			Bucket: "avatars",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// YAML 안의 ${VAR} 는 로드 전에 환경변수로 치환
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.Server.Port = getenv("PORT", cfg.Server.Port)
	cfg.Server.Timezone = getenv("TIMEZONE", cfg.Server.Timezone)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	cfg.Postgres.DatabaseURL = getenv("DATABASE_URL", cfg.Postgres.DatabaseURL)
	cfg.Postgres.Host = getenv("PGHOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getenv("PGPORT", cfg.Postgres.Port)
	cfg.Postgres.User = getenv("PGUSER", cfg.Postgres.User)
	cfg.Postgres.Password = getenv("PGPASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Database = getenv("PGDATABASE", cfg.Postgres.Database)
	cfg.Postgres.SSLMode = getenv("PGSSLMODE", cfg.Postgres.SSLMode)

	cfg.Auth.JWTAccessSecret = getenv("JWT_ACCESS_SECRET", cfg.Auth.JWTAccessSecret)
	cfg.Auth.JWTRefreshSecret = getenv("JWT_REFRESH_SECRET", cfg.Auth.JWTRefreshSecret)
	cfg.Auth.JWTAccessTTL = getenv("JWT_ACCESS_TTL", cfg.Auth.JWTAccessTTL)
	cfg.Auth.JWTRefreshTTL = getenv("JWT_REFRESH_TTL", cfg.Auth.JWTRefreshTTL)
	cfg.Auth.RootUsername = getenv("ROOT_USERNAME", cfg.Auth.RootUsername)
	cfg.Auth.RootPassword = getenv("ROOT_PASSWORD", cfg.Auth.RootPassword)
	cfg.Auth.LoginLockoutTTL = getenv("LOGIN_LOCKOUT_TTL", cfg.Auth.LoginLockoutTTL)
	if cfg.Auth.BcryptCost, err = getenvInt("BCRYPT_COST", cfg.Auth.BcryptCost); err != nil {
		return err
	}
	if cfg.Auth.LoginMaxFailures, err = getenvInt("LOGIN_MAX_FAILURES", cfg.Auth.LoginMaxFailures); err != nil {
		return err
	}
	if cfg.Auth.RateLimitPerMinute, err = getenvInt("AUTH_RATE_LIMIT", cfg.Auth.RateLimitPerMinute); err != nil {
		return err
	}

	cfg.Redis.Addr = getenv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getenv("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = getenvInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}

	cfg.Minio.Endpoint = getenv("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.AccessKey = getenv("MINIO_ACCESS_KEY", cfg.Minio.AccessKey)
	cfg.Minio.SecretKey = getenv("MINIO_SECRET_KEY", cfg.Minio.SecretKey)
	cfg.Minio.Bucket = getenv("MINIO_BUCKET", cfg.Minio.Bucket)
	if cfg.Minio.UseSSL, err = getenvBool("MINIO_USE_SSL", cfg.Minio.UseSSL); err != nil {
		return err
	}

	cfg.Log.Level = getenv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenv("LOG_FORMAT", cfg.Log.Format)
	return nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
