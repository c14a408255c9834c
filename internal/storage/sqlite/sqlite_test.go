package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/lifesync/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("New creates parent directories", func(t *testing.T) {
		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("Expected database file to exist: %v", err)
		}
	})

	t.Run("Load of missing key is not an error", func(t *testing.T) {
		value, ok, err := store.Load(ctx, "missing")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if ok {
			t.Error("Expected ok=false for missing key")
		}
		if value != nil {
			t.Errorf("Expected nil value, got %q", value)
		}
	})

	t.Run("Save then Load returns the value", func(t *testing.T) {
		if err := store.Save(ctx, "tasks", []byte(`[{"id":"t1"}]`)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		value, ok, err := store.Load(ctx, "tasks")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if !ok {
			t.Fatal("Expected ok=true after Save")
		}
		if string(value) != `[{"id":"t1"}]` {
			t.Errorf("Value mismatch: got %s", value)
		}
	})

	t.Run("Save overwrites previous value", func(t *testing.T) {
		store.Save(ctx, "total-budget", []byte("2000"))
		store.Save(ctx, "total-budget", []byte("2500"))

		value, _, err := store.Load(ctx, "total-budget")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if string(value) != "2500" {
			t.Errorf("Expected last write to win, got %s", value)
		}
	})

	t.Run("Entries lists keys in order", func(t *testing.T) {
		entries, err := store.Entries(ctx)
		if err != nil {
			t.Fatalf("Entries failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].Key != "tasks" || entries[1].Key != "total-budget" {
			t.Errorf("Unexpected key order: %s, %s", entries[0].Key, entries[1].Key)
		}
		if entries[1].UpdatedAt == 0 {
			t.Error("Expected UpdatedAt to be set")
		}
	})
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	kv := storage.NewKV(first)
	storage.Set(ctx, kv, "identity", map[string]string{"id": "user-1", "name": "Ana"})
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	got := storage.Get(ctx, storage.NewKV(second), "identity", map[string]string{})
	if got["id"] != "user-1" || got["name"] != "Ana" {
		t.Errorf("Expected identity to survive reopen, got %v", got)
	}
}

func TestSQLiteStore_ClosedStoreFails(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.Close()

	if err := store.Save(context.Background(), "k", []byte("1")); err == nil {
		t.Error("Expected Save on closed store to fail")
	}
	if _, _, err := store.Load(context.Background(), "k"); err == nil {
		t.Error("Expected Load on closed store to fail")
	}
}
