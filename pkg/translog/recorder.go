package translog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/config"
)

// Recorder writes transfer records asynchronously so the response path
// never blocks on storage.
type Recorder struct {
	storage    *Storage
	recordChan chan *Record
	done       chan struct{}
	wg         sync.WaitGroup
	dropped    atomic.Int64
}

// NewRecorder creates a recorder over the given storage and starts its
// background worker.
func NewRecorder(storage *Storage, cfg config.TransferLogConfig) *Recorder {
	r := &Recorder{
		storage:    storage,
		recordChan: make(chan *Record, cfg.Buffer),
		done:       make(chan struct{}),
	}

	r.wg.Add(1)
	go r.worker()

	slog.Info("transfer log recorder started", "buffer", cfg.Buffer)

	return r
}

// Record enqueues one record for async writing. The record gets its ID and
// timestamp here. When the buffer is full the record is dropped and counted
// rather than blocking the caller.
func (r *Recorder) Record(rec *Record) {
	rec.ID = uuid.NewString()
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}

	select {
	case r.recordChan <- rec:
	default:
		if n := r.dropped.Add(1); n%100 == 1 {
			slog.Warn("transfer log buffer full, dropping records", "dropped_total", n)
		}
	}
}

// Dropped returns the number of records dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close drains pending records and stops the worker.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.recordChan:
			r.write(rec)
		case <-r.done:
			// Drain whatever is still buffered before exiting.
			for {
				select {
				case rec := <-r.recordChan:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.storage.Insert(ctx, rec); err != nil {
		slog.Error("failed to write transfer record", "record_id", rec.ID, "error", err)
	}
}
