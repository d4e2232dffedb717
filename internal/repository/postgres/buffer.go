package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FlushPolicy controls write coalescing.
// Buffered writes are flushed Window after the last enqueued write, or as soon as
// MaxPending writes are queued. A zero Window makes the buffer write-through.
type FlushPolicy struct {
	Window     time.Duration
	MaxPending int
}

type pendingWrite struct {
	query string
	args  []any
}

// WriteBuffer coalesces log-type writes and applies them in a single transaction
type WriteBuffer struct {
	db     *sql.DB
	policy FlushPolicy
	logger *zap.Logger

	mu      sync.Mutex
	pending []pendingWrite
	timer   *time.Timer
	closed  bool

	flushMu sync.Mutex
}

// NewWriteBuffer creates a new write buffer
func NewWriteBuffer(db *sql.DB, policy FlushPolicy, logger *zap.Logger) *WriteBuffer {
	return &WriteBuffer{
		db:     db,
		policy: policy,
		logger: logger,
	}
}

// Enqueue queues a write. It flushes synchronously when the policy says so
// and then returns the flush error.
func (b *WriteBuffer) Enqueue(ctx context.Context, query string, args ...any) error {
	b.mu.Lock()
	b.pending = append(b.pending, pendingWrite{query: query, args: args})
	full := b.policy.MaxPending > 0 && len(b.pending) >= b.policy.MaxPending
	immediate := b.policy.Window <= 0 || b.closed || full

	if !immediate {
		if b.timer != nil {
			b.timer.Stop()
		}
		b.timer = time.AfterFunc(b.policy.Window, b.flushOnTimer)
	}
	b.mu.Unlock()

	if immediate {
		return b.Flush(ctx)
	}
	return nil
}

func (b *WriteBuffer) flushOnTimer() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := b.Flush(ctx); err != nil {
		b.logger.Error("Failed to flush write buffer", zap.Error(err), zap.Int("pending", b.Pending()))
	}
}

// Pending returns the number of queued writes
func (b *WriteBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush applies all queued writes. On failure the batch is put back in front of the queue.
func (b *WriteBuffer) Flush(ctx context.Context) error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	batch := b.pending
	b.pending = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	err := withTx(ctx, b.db, func(tx *sql.Tx) error {
		for i, w := range batch {
			if _, err := tx.ExecContext(ctx, w.query, w.args...); err != nil {
				return fmt.Errorf("buffered write %d of %d: %w", i+1, len(batch), err)
			}
		}
		return nil
	})
	if err != nil {
		b.mu.Lock()
		b.pending = append(batch, b.pending...)
		b.mu.Unlock()
		return err
	}

	b.logger.Debug("Write buffer flushed", zap.Int("writes", len(batch)))
	return nil
}

// Close flushes what is queued and makes later writes write-through
func (b *WriteBuffer) Close(ctx context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	return b.Flush(ctx)
}
