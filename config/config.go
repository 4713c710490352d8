package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	JWTSecret []byte

	LikeSyncInterval time.Duration
}

// Load reads configuration from the environment, falling back to
// local-development defaults.
func Load() Config {
	return Config{
		Addr:           getenv("ADDR", ":8080"),
		MySQLDSN:       getenv("MYSQL_DSN", "root:123456@tcp(127.0.0.1:3306)/linkup?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		RedisDB:        getenvInt("REDIS_DB", 0),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "admin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "password123"),
		MinioBucket:    getenv("MINIO_BUCKET", "linkup"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "") == "true",
		MinioPublicURL: getenv("MINIO_PUBLIC_URL", "http://127.0.0.1:9000"),
		JWTSecret:      []byte(getenv("JWT_SECRET", "my_secret_key")),

		LikeSyncInterval: getenvDuration("LIKE_SYNC_INTERVAL", time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
