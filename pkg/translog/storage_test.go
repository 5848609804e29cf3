package translog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := OpenStorage(filepath.Join(t.TempDir(), "transfers.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func testRecord(at time.Time) *Record {
	return &Record{
		ID:         uuid.NewString(),
		RequestID:  uuid.NewString(),
		Time:       at,
		Token:      "tok",
		Backend:    "bot1",
		Route:      "dl",
		Status:     206,
		From:       0,
		Until:      999,
		BytesSent:  1000,
		RemoteAddr: "10.0.0.1:5555",
	}
}

func TestStorageInsertAndCount(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := storage.Insert(ctx, testRecord(time.Now())); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	n, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 records, got %d", n)
	}
}

func TestStoragePruneBefore(t *testing.T) {
	storage := openTestStorage(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -40)
	recent := time.Now()

	for i := 0; i < 2; i++ {
		if err := storage.Insert(ctx, testRecord(old)); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}
	if err := storage.Insert(ctx, testRecord(recent)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	removed, err := storage.PruneBefore(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 pruned records, got %d", removed)
	}

	n, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 surviving record, got %d", n)
	}
}

func TestStorageCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "transfers.db")
	storage, err := OpenStorage(path)
	if err != nil {
		t.Fatalf("expected parent directories to be created: %v", err)
	}
	storage.Close()
}
