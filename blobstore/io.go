package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitedWriter wraps an io.Writer with byte-rate limiting, used to
// keep artifact uploads from starving foreground traffic.
type RateLimitedWriter struct {
	w       io.Writer
	limiter *rate.Limiter
	ctx     context.Context
}

// NewRateLimitedWriter creates a new RateLimitedWriter.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, limiter *rate.Limiter) *RateLimitedWriter {
	return &RateLimitedWriter{
		w:       w,
		limiter: limiter,
		ctx:     ctx,
	}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		// WaitN rejects requests larger than the burst, so feed it chunks.
		chunk := len(p)
		if burst := w.limiter.Burst(); chunk > burst {
			chunk = burst
		}
		if err := w.limiter.WaitN(w.ctx, chunk); err != nil {
			return written, err
		}
		n, err := w.w.Write(p[:chunk])
		written += n
		if err != nil {
			return written, err
		}
		p = p[chunk:]
	}
	return written, nil
}

// Throttled wraps a Store so that Put consumes from the given limiter
// before delegating. Reads are not limited.
func Throttled(store Store, limiter *rate.Limiter) Store {
	return &throttledStore{Store: store, limiter: limiter}
}

type throttledStore struct {
	Store
	limiter *rate.Limiter
}

func (s *throttledStore) Put(ctx context.Context, name string, data []byte) error {
	remaining := len(data)
	for remaining > 0 {
		chunk := remaining
		if burst := s.limiter.Burst(); chunk > burst {
			chunk = burst
		}
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		remaining -= chunk
	}
	return s.Store.Put(ctx, name, data)
}
