package handlers

import (
	"context"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/pool"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/telemetry/metrics"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/translog"
)

// Deps bundles the shared state every handler needs: the backend pool with
// its load tracker, the per-backend session cache, the fixed chunk size,
// and the optional observers.
type Deps struct {
	Tracker   *pool.LoadTracker
	Sessions  *pool.SessionCache
	ChunkSize int64

	// Metrics may be nil when metrics are disabled.
	Metrics *metrics.Collector

	// Transfers may be nil when the transfer log is disabled.
	Transfers *translog.Recorder
}

// pickSession selects the least-loaded backend and returns its cached
// session, constructing it on first use.
func (d *Deps) pickSession(ctx context.Context) (backend.Client, backend.Session, error) {
	client, _ := d.Tracker.Select()

	session, err := d.Sessions.GetOrCreate(ctx, client)
	if err != nil {
		return nil, nil, err
	}

	if d.Metrics != nil {
		return client, &meteredSession{Session: session, name: client.Name(), metrics: d.Metrics}, nil
	}
	return client, session, nil
}

// meteredSession wraps a backend session to count chunk fetches.
type meteredSession struct {
	backend.Session
	name    string
	metrics *metrics.Collector
}

func (m *meteredSession) FetchChunk(ctx context.Context, handle string, offset, size int64) ([]byte, error) {
	data, err := m.Session.FetchChunk(ctx, handle, offset, size)
	m.metrics.RecordChunkFetch(m.name, err == nil)
	return data, err
}
