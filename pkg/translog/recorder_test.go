package translog

import (
	"context"
	"testing"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
)

func TestRecorderWritesAsync(t *testing.T) {
	storage := openTestStorage(t)

	recorder := NewRecorder(storage, config.TransferLogConfig{Buffer: 10})

	for i := 0; i < 5; i++ {
		recorder.Record(&Record{Token: "tok", Backend: "bot1", Route: "dl", Status: 206})
	}

	// Close drains the buffer before returning.
	if err := recorder.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	n, err := storage.Count(context.Background())
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 records after drain, got %d", n)
	}
	if recorder.Dropped() != 0 {
		t.Errorf("expected no drops, got %d", recorder.Dropped())
	}
}

func TestRecorderAssignsIDAndTime(t *testing.T) {
	storage := openTestStorage(t)

	recorder := NewRecorder(storage, config.TransferLogConfig{Buffer: 1})

	rec := &Record{Token: "tok"}
	recorder.Record(rec)

	if rec.ID == "" {
		t.Error("expected an assigned record ID")
	}
	if rec.Time.IsZero() {
		t.Error("expected an assigned timestamp")
	}

	recorder.Close()
}
