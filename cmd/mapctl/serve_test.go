package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alfredjeanlab/marketmaps/internal/config"
	"github.com/alfredjeanlab/marketmaps/internal/store/memory"
)

func TestOpenStore_Memory(t *testing.T) {
	st, err := openStore(context.Background(), &config.Config{Store: config.StoreMemory})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*memory.Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", st)
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	if _, err := openStore(context.Background(), &config.Config{Store: "redis"}); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestStartBackup_Disabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, sub := startBackup(context.Background(), &config.Config{}, memory.New(), logger)
	if r != nil || sub != nil {
		t.Fatal("expected no replicator when backups are disabled")
	}
}

func TestStartBackup_Git(t *testing.T) {
	url := startTestNATS(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		NATSURL:         url,
		BackupGitRepo:   t.TempDir(),
		BackupGitDir:    "maps",
		BackupGitBranch: "main",
	}

	r, sub := startBackup(context.Background(), cfg, memory.New(), logger)
	if r == nil || sub == nil {
		t.Fatal("expected a running replicator")
	}
	r.Stop()
	sub.Close()
}
