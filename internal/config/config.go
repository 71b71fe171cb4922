package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store backends selectable with MAPS_STORE.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreS3       = "s3"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr string // MAPS_HTTP_ADDR (default ":8080")
	Store    string // MAPS_STORE (default "postgres")
	NATSURL  string // MAPS_NATS_URL (optional, empty = no events)

	DatabaseURL string // MAPS_DATABASE_URL (required for postgres)

	MongoURI      string // MAPS_MONGO_URI (required for mongo)
	MongoDatabase string // MAPS_MONGO_DATABASE (default "marketmaps")

	S3Bucket   string // MAPS_S3_BUCKET (required for s3)
	S3Region   string // MAPS_S3_REGION (default "us-east-1")
	S3Endpoint string // MAPS_S3_ENDPOINT (custom endpoint for MinIO)
	S3Prefix   string // MAPS_S3_PREFIX (default "market_maps/")

	MaxBodyBytes int64 // MAPS_MAX_BODY_BYTES (default 10 MiB)
	IDLength     int   // MAPS_ID_LENGTH (default 6)

	// Backup settings. Backups are driven by map-saved events, so they
	// require MAPS_NATS_URL.
	BackupS3Bucket   string // MAPS_BACKUP_S3_BUCKET (enables S3 backup when set)
	BackupS3Endpoint string // MAPS_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string // MAPS_BACKUP_S3_REGION (default MAPS_S3_REGION)
	BackupS3Prefix   string // MAPS_BACKUP_S3_PREFIX (default "market_maps/")
	BackupGitRepo    string // MAPS_BACKUP_GIT_REPO (enables git backup when set; path to clone)
	BackupGitDir     string // MAPS_BACKUP_GIT_DIR (default "maps")
	BackupGitBranch  string // MAPS_BACKUP_GIT_BRANCH (default "main")
}

// BackupEnabled reports whether any backup destination is configured.
func (c *Config) BackupEnabled() bool {
	return c.BackupS3Bucket != "" || c.BackupGitRepo != ""
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:      envOrDefault("MAPS_HTTP_ADDR", ":8080"),
		Store:         strings.ToLower(envOrDefault("MAPS_STORE", StorePostgres)),
		NATSURL:       os.Getenv("MAPS_NATS_URL"),
		DatabaseURL:   os.Getenv("MAPS_DATABASE_URL"),
		MongoURI:      os.Getenv("MAPS_MONGO_URI"),
		MongoDatabase: envOrDefault("MAPS_MONGO_DATABASE", "marketmaps"),
		S3Bucket:      os.Getenv("MAPS_S3_BUCKET"),
		S3Region:      envOrDefault("MAPS_S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("MAPS_S3_ENDPOINT"),
		S3Prefix:      envOrDefault("MAPS_S3_PREFIX", "market_maps/"),

		BackupS3Bucket:   os.Getenv("MAPS_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("MAPS_BACKUP_S3_ENDPOINT"),
		BackupS3Prefix:   envOrDefault("MAPS_BACKUP_S3_PREFIX", "market_maps/"),
		BackupGitRepo:    os.Getenv("MAPS_BACKUP_GIT_REPO"),
		BackupGitDir:     envOrDefault("MAPS_BACKUP_GIT_DIR", "maps"),
		BackupGitBranch:  envOrDefault("MAPS_BACKUP_GIT_BRANCH", "main"),
	}
	c.BackupS3Region = envOrDefault("MAPS_BACKUP_S3_REGION", c.S3Region)

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("MAPS_DATABASE_URL is required for the postgres store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return nil, fmt.Errorf("MAPS_MONGO_URI is required for the mongo store")
		}
	case StoreS3:
		if c.S3Bucket == "" {
			return nil, fmt.Errorf("MAPS_S3_BUCKET is required for the s3 store")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("MAPS_STORE: unknown store %q", c.Store)
	}

	maxBody, err := strconv.ParseInt(envOrDefault("MAPS_MAX_BODY_BYTES", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("MAPS_MAX_BODY_BYTES: %w", err)
	}
	if maxBody <= 0 {
		return nil, fmt.Errorf("MAPS_MAX_BODY_BYTES must be positive, got %d", maxBody)
	}
	c.MaxBodyBytes = maxBody

	idLength, err := strconv.Atoi(envOrDefault("MAPS_ID_LENGTH", "6"))
	if err != nil {
		return nil, fmt.Errorf("MAPS_ID_LENGTH: %w", err)
	}
	if idLength <= 0 {
		return nil, fmt.Errorf("MAPS_ID_LENGTH must be positive, got %d", idLength)
	}
	c.IDLength = idLength

	if c.BackupEnabled() && c.NATSURL == "" {
		return nil, fmt.Errorf("backups require MAPS_NATS_URL")
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
