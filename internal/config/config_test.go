package config

import (
	"testing"
)

// allEnvVars lists every variable Load reads; each test starts from a clean slate.
var allEnvVars = []string{
	"MAPS_HTTP_ADDR", "MAPS_STORE", "MAPS_NATS_URL", "MAPS_DATABASE_URL",
	"MAPS_MONGO_URI", "MAPS_MONGO_DATABASE",
	"MAPS_S3_BUCKET", "MAPS_S3_REGION", "MAPS_S3_ENDPOINT", "MAPS_S3_PREFIX",
	"MAPS_MAX_BODY_BYTES", "MAPS_ID_LENGTH",
	"MAPS_BACKUP_S3_BUCKET", "MAPS_BACKUP_S3_ENDPOINT", "MAPS_BACKUP_S3_REGION",
	"MAPS_BACKUP_S3_PREFIX", "MAPS_BACKUP_GIT_REPO", "MAPS_BACKUP_GIT_DIR",
	"MAPS_BACKUP_GIT_BRANCH",
}

func clearAllEnv(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	for _, tc := range []struct {
		name         string
		env          map[string]string
		wantErr      bool
		wantStore    string
		wantHTTPAddr string
		wantNATSURL  string
	}{
		{
			name:    "MissingDatabaseURL",
			env:     map[string]string{},
			wantErr: true,
		},
		{
			name:         "DefaultPostgres",
			env:          map[string]string{"MAPS_DATABASE_URL": "postgres://localhost/maps"},
			wantStore:    StorePostgres,
			wantHTTPAddr: ":8080",
		},
		{
			name: "CustomAddresses",
			env: map[string]string{
				"MAPS_DATABASE_URL": "postgres://db:5432/maps",
				"MAPS_HTTP_ADDR":    ":3000",
				"MAPS_NATS_URL":     "nats://localhost:4222",
			},
			wantStore:    StorePostgres,
			wantHTTPAddr: ":3000",
			wantNATSURL:  "nats://localhost:4222",
		},
		{
			name:         "Memory",
			env:          map[string]string{"MAPS_STORE": "memory"},
			wantStore:    StoreMemory,
			wantHTTPAddr: ":8080",
		},
		{
			name:         "MongoUpperCase",
			env:          map[string]string{"MAPS_STORE": "MONGO", "MAPS_MONGO_URI": "mongodb://localhost:27017"},
			wantStore:    StoreMongo,
			wantHTTPAddr: ":8080",
		},
		{
			name:    "MongoMissingURI",
			env:     map[string]string{"MAPS_STORE": "mongo"},
			wantErr: true,
		},
		{
			name:         "S3",
			env:          map[string]string{"MAPS_STORE": "s3", "MAPS_S3_BUCKET": "maps"},
			wantStore:    StoreS3,
			wantHTTPAddr: ":8080",
		},
		{
			name:    "S3MissingBucket",
			env:     map[string]string{"MAPS_STORE": "s3"},
			wantErr: true,
		},
		{
			name:    "UnknownStore",
			env:     map[string]string{"MAPS_STORE": "redis"},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Store != tc.wantStore {
				t.Errorf("Store = %q, want %q", cfg.Store, tc.wantStore)
			}
			if cfg.HTTPAddr != tc.wantHTTPAddr {
				t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, tc.wantHTTPAddr)
			}
			if cfg.NATSURL != tc.wantNATSURL {
				t.Errorf("NATSURL = %q, want %q", cfg.NATSURL, tc.wantNATSURL)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MAPS_STORE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MongoDatabase != "marketmaps" {
		t.Errorf("MongoDatabase = %q, want marketmaps", cfg.MongoDatabase)
	}
	if cfg.S3Region != "us-east-1" {
		t.Errorf("S3Region = %q, want us-east-1", cfg.S3Region)
	}
	if cfg.S3Prefix != "market_maps/" {
		t.Errorf("S3Prefix = %q, want market_maps/", cfg.S3Prefix)
	}
	if cfg.MaxBodyBytes != 10<<20 {
		t.Errorf("MaxBodyBytes = %d, want %d", cfg.MaxBodyBytes, 10<<20)
	}
	if cfg.IDLength != 6 {
		t.Errorf("IDLength = %d, want 6", cfg.IDLength)
	}
}

func TestLoad_Limits(t *testing.T) {
	for _, tc := range []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"MaxBodyValid", "MAPS_MAX_BODY_BYTES", "1024", false},
		{"MaxBodyNotNumber", "MAPS_MAX_BODY_BYTES", "lots", true},
		{"MaxBodyZero", "MAPS_MAX_BODY_BYTES", "0", true},
		{"IDLengthValid", "MAPS_ID_LENGTH", "12", false},
		{"IDLengthNegative", "MAPS_ID_LENGTH", "-1", true},
		{"IDLengthNotNumber", "MAPS_ID_LENGTH", "six", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			clearAllEnv(t)
			t.Setenv("MAPS_STORE", "memory")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoad_Backup(t *testing.T) {
	clearAllEnv(t)
	t.Setenv("MAPS_STORE", "memory")
	t.Setenv("MAPS_S3_REGION", "eu-west-1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupEnabled() {
		t.Error("backup should be disabled by default")
	}
	if cfg.BackupS3Region != "eu-west-1" {
		t.Errorf("BackupS3Region = %q, want the primary region", cfg.BackupS3Region)
	}

	t.Setenv("MAPS_BACKUP_GIT_REPO", "/srv/maps-backup")
	if _, err := Load(); err == nil {
		t.Fatal("expected error: git backup without NATS")
	}

	t.Setenv("MAPS_NATS_URL", "nats://localhost:4222")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.BackupEnabled() {
		t.Error("backup should be enabled")
	}
	if cfg.BackupGitDir != "maps" || cfg.BackupGitBranch != "main" {
		t.Errorf("git defaults = %q, %q", cfg.BackupGitDir, cfg.BackupGitBranch)
	}
}
