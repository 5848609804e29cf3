package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
)

// Sequencer produces the body of a range response as an io.ReadCloser.
//
// Chunks are fetched one at a time, in order, only when the consumer asks
// for more data. Nothing is fetched ahead, so cancelling the context stops
// the sequence after at most the chunk currently in flight. The sequence is
// not restartable: a fetch failure sticks and every later Read returns it.
type Sequencer struct {
	ctx     context.Context
	session backend.Session
	handle  string
	plan    ChunkPlan

	part int    // next part index to fetch
	buf  []byte // unread remainder of the current part
	err  error  // sticky terminal error
}

// NewSequencer creates a sequencer for one planned fetch run. The context
// governs every chunk fetch; it is normally the inbound request's context so
// a client disconnect aborts the run.
func NewSequencer(ctx context.Context, session backend.Session, handle string, plan ChunkPlan) *Sequencer {
	return &Sequencer{
		ctx:     ctx,
		session: session,
		handle:  handle,
		plan:    plan,
	}
}

// Read implements io.Reader, fetching the next chunk lazily when the
// buffered remainder runs out.
func (s *Sequencer) Read(p []byte) (int, error) {
	for len(s.buf) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		if s.part >= s.plan.PartCount {
			s.err = io.EOF
			return 0, io.EOF
		}
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return 0, err
		}
		if err := s.fetchNext(); err != nil {
			s.err = err
			return 0, err
		}
	}

	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// fetchNext fetches the next chunk and trims it to the plan's boundaries.
func (s *Sequencer) fetchNext() error {
	offset := s.plan.Offset + int64(s.part)*s.plan.ChunkSize

	chunk, err := s.session.FetchChunk(s.ctx, s.handle, offset, s.plan.ChunkSize)
	if err != nil {
		return err
	}

	first := s.part == 0
	last := s.part == s.plan.PartCount-1

	if !last && int64(len(chunk)) != s.plan.ChunkSize {
		return fmt.Errorf("short chunk at offset %d: got %d bytes, want %d",
			offset, len(chunk), s.plan.ChunkSize)
	}
	if last {
		if int64(len(chunk)) < s.plan.LastCut {
			// A short final chunk would silently corrupt the byte-exact
			// contract, so fail the stream instead.
			return fmt.Errorf("short chunk at offset %d: got %d bytes, need %d",
				offset, len(chunk), s.plan.LastCut)
		}
		chunk = chunk[:s.plan.LastCut]
	}
	if first {
		if int64(len(chunk)) < s.plan.FirstCut {
			return fmt.Errorf("short chunk at offset %d: got %d bytes, cut %d",
				offset, len(chunk), s.plan.FirstCut)
		}
		chunk = chunk[s.plan.FirstCut:]
	}

	s.buf = chunk
	s.part++
	return nil
}

// Close marks the sequence finished. Further Reads return io.EOF if the
// sequence completed, or the sticky error otherwise.
func (s *Sequencer) Close() error {
	if s.err == nil {
		s.err = io.EOF
	}
	return nil
}
