package pdf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrPoolClosed     = errors.New("pdf renderer pool is closed")
	ErrAcquireTimeout = errors.New("no pdf renderer available")
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// session is one reusable rendering tab.
type session interface {
	render(ctx context.Context, html string) ([]byte, error)
	healthy(ctx context.Context) bool
	close()
}

// Pool hands out at most size sessions. A slot holds nil until its session is
// first opened; unhealthy or failed sessions are closed and reopened on the
// next acquire.
type Pool struct {
	slots         chan session
	open          func() (session, error)
	acquireWait   time.Duration
	renderTimeout time.Duration
	logger        *zap.Logger

	mu       sync.Mutex
	closed   bool
	shutdown func()
}

func newPool(size int, open func() (session, error), acquireWait time.Duration, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		slots:         make(chan session, size),
		open:          open,
		acquireWait:   acquireWait,
		renderTimeout: 30 * time.Second,
		logger:        logger,
	}
	for i := 0; i < size; i++ {
		p.slots <- nil
	}
	return p
}

func (p *Pool) acquire(ctx context.Context) (session, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.acquireWait)
	defer cancel()

	var s session
	select {
	case s = <-p.slots:
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrAcquireTimeout
	}

	if s != nil {
		checkCtx, cancelCheck := context.WithTimeout(ctx, 2*time.Second)
		ok := s.healthy(checkCtx)
		cancelCheck()
		if ok {
			return s, nil
		}
		p.logger.Warn("pdf session failed health check, reopening")
		s.close()
	}

	s, err := p.open()
	if err != nil {
		p.slots <- nil
		return nil, fmt.Errorf("open pdf session: %w", err)
	}
	return s, nil
}

// release returns s to the pool; a broken session gives its slot back empty.
func (p *Pool) release(s session, broken bool) {
	if broken || p.isClosed() {
		s.close()
		s = nil
	}
	p.slots <- s
}

func (p *Pool) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	s, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	renderCtx, cancel := context.WithTimeout(ctx, p.renderTimeout)
	defer cancel()

	start := time.Now()
	out, err := s.render(renderCtx, html)
	p.release(s, err != nil)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	p.logger.Debug("rendered pdf", zap.Int("bytes", len(out)), zap.Duration("took", time.Since(start)))
	return out, nil
}

// Close shuts every idle session and the browser. Sessions still in use are
// closed when released.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	for {
		select {
		case s := <-p.slots:
			if s != nil {
				s.close()
			}
		default:
			if p.shutdown != nil {
				p.shutdown()
			}
			return
		}
	}
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
