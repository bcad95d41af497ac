package taskstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/storage"
)

// DefaultWriteTimeout bounds a single background write.
const DefaultWriteTimeout = 5 * time.Second

// Persister mirrors committed state to a storage.Storage from one background
// goroutine. Notify never blocks; bursts collapse to the newest snapshot, and
// writes for the key are applied in commit order.
type Persister struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger
	timeout time.Duration
	onError func(error)

	mu      sync.Mutex
	pending *State
	closed  bool

	kick      chan struct{}
	flushReq  chan chan struct{}
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPersister starts the writer goroutine. Call Close to stop it.
func NewPersister(st storage.Storage, key string, logger *zap.Logger, timeout time.Duration, onError func(error)) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	p := &Persister{
		storage:  st,
		key:      key,
		logger:   logger,
		timeout:  timeout,
		onError:  onError,
		kick:     make(chan struct{}, 1),
		flushReq: make(chan chan struct{}),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Notify records s as the latest state to write. It is the store's on-change hook.
func (p *Persister) Notify(c Change) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Debug("persister closed, dropping write", zap.String("action", c.Action))
		return
	}
	s := c.State
	p.pending = &s
	p.mu.Unlock()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Flush blocks until every state notified before the call has been written
// (or its write has failed), or ctx is done.
func (p *Persister) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case p.flushReq <- ack:
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes whatever is pending and stops the writer goroutine.
func (p *Persister) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.quit)
	})
	<-p.stopped
}

func (p *Persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.kick:
			p.writePending()
		case ack := <-p.flushReq:
			p.writePending()
			close(ack)
		case <-p.quit:
			p.writePending()
			return
		}
	}
}

func (p *Persister) writePending() {
	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.mu.Unlock()
	if s == nil {
		return
	}

	data, err := Encode(*s)
	if err != nil {
		p.fail(fmt.Errorf("encode state: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.storage.SetItem(ctx, p.key, data); err != nil {
		p.fail(fmt.Errorf("write %s: %w", p.key, err))
		return
	}
	p.logger.Debug("state persisted", zap.String("key", p.key), zap.Int("bytes", len(data)))
}

func (p *Persister) fail(err error) {
	p.logger.Warn("failed to persist state", zap.String("key", p.key), zap.Error(err))
	if p.onError != nil {
		p.onError(err)
	}
}
