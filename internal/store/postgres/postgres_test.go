package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alfredjeanlab/marketmaps/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var mapRowColumns = []string{"id", "map_data", "created_at", "updated_at"}

func TestQueryPutMap_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	payload := `{"filename":"city42","data":[1,2,3]}`

	mock.ExpectQuery("INSERT INTO market_maps .+ ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs("city42", payload, now).
		WillReturnRows(sqlmock.NewRows(mapRowColumns).AddRow("city42", payload, now, now))

	m, err := queryPutMap(context.Background(), db, "city42", payload, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "city42" || m.MapData != payload {
		t.Fatalf("got id=%q data=%q", m.ID, m.MapData)
	}
	if !m.CreatedAt.Equal(now) || !m.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", m.CreatedAt, m.UpdatedAt, now)
	}
}

func TestQueryPutMap_OverwriteKeepsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	mock.ExpectQuery("INSERT INTO market_maps").
		WithArgs("city42", "v2", now).
		WillReturnRows(sqlmock.NewRows(mapRowColumns).AddRow("city42", "v2", created, now))

	m, err := queryPutMap(context.Background(), db, "city42", "v2", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", m.CreatedAt, created)
	}
	if !m.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", m.UpdatedAt, now)
	}
}

func TestQueryPutMap_Error(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO market_maps").
		WithArgs("m", "data", now).
		WillReturnError(errors.New("connection refused"))

	if _, err := queryPutMap(context.Background(), db, "m", "data", now); err == nil {
		t.Fatal("expected error")
	}
}

func TestQueryGetMap(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM market_maps WHERE id = \\$1").WithArgs("city42").
		WillReturnRows(sqlmock.NewRows(mapRowColumns).AddRow("city42", "payload", now, now))

	m, err := queryGetMap(context.Background(), db, "city42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "city42" || m.MapData != "payload" {
		t.Fatalf("got id=%q data=%q", m.ID, m.MapData)
	}
}

func TestQueryGetMap_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM market_maps WHERE id = \\$1").WithArgs("nonexistent").
		WillReturnError(sql.ErrNoRows)

	_, err := queryGetMap(context.Background(), db, "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryGetMap_EmptyResult(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM market_maps WHERE id = \\$1").WithArgs("nonexistent").
		WillReturnRows(sqlmock.NewRows(mapRowColumns))

	_, err := queryGetMap(context.Background(), db, "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryGetMap_Error(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT .+ FROM market_maps").WithArgs("m").
		WillReturnError(errors.New("connection reset"))

	_, err := queryGetMap(context.Background(), db, "m")
	if err == nil || errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected a non-NotFound error, got %v", err)
	}
}

func TestPostgresStore_UsesClock(t *testing.T) {
	db, mock := newMockDB(t)
	fixed := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	s := newWithDB(db)
	s.now = func() time.Time { return fixed }

	mock.ExpectQuery("INSERT INTO market_maps").
		WithArgs("m", "data", fixed).
		WillReturnRows(sqlmock.NewRows(mapRowColumns).AddRow("m", "data", fixed, fixed))

	if _, err := s.PutMap(context.Background(), "m", "data"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	mdb, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer mdb.Close()
	mock.ExpectPing()

	if err := newWithDB(mdb).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected up and down migration, got %d files", len(entries))
	}
}
