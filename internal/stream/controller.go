package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	obs "github.com/byStayo/AI-Computer-Controller/internal/infrastructure/observability"
)

var (
	// ErrBusy means the client's producer already feeds a consumer.
	ErrBusy = errors.New("stream already has a consumer")
	// ErrInactive means no producer runs for the client.
	ErrInactive = errors.New("no active stream for client")
)

// Config snapshots the quality/size tuning a producer runs with. A producer
// keeps its snapshot for its whole life; retuning applies to the next start.
type Config struct {
	FPS     int
	Quality int
	// Target bounding box. Zero disables resizing (native resolution).
	Width  int
	Height int
}

func (c Config) withDefaults() Config {
	if c.FPS <= 0 {
		c.FPS = 8
	}
	if c.FPS > 60 {
		c.FPS = 60
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = 75
	}
	return c
}

const maxGrabFailures = 3

// producer holds the single in-flight frame for one client. Frames are never
// queued: publish replaces, consumers only ever see the latest.
type producer struct {
	cfg    Config
	cancel context.CancelFunc

	mu       sync.Mutex
	cond     *sync.Cond
	frame    []byte
	seq      uint64
	taken    uint64
	done     bool
	attached bool
}

func newProducer(cfg Config, cancel context.CancelFunc) *producer {
	p := &producer{cfg: cfg, cancel: cancel}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// publish replaces the in-flight frame. Reports whether the previous frame
// was discarded unseen.
func (p *producer) publish(frame []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	dropped := p.attached && p.seq > p.taken
	p.frame = frame
	p.seq++
	p.cond.Broadcast()
	return dropped
}

func (p *producer) finish() {
	p.mu.Lock()
	p.done = true
	p.cond.Broadcast()
	p.mu.Unlock()
}

func (p *producer) next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.cond.Broadcast()
		p.mu.Unlock()
	})
	defer stop()
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.seq <= after && !p.done && ctx.Err() == nil {
		p.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, after, err
	}
	if p.seq <= after {
		return nil, after, ErrInactive
	}
	p.taken = p.seq
	return p.frame, p.seq, nil
}

// Controller owns one frame producer per client identifier and paces frame
// pulls from the Source at the configured rate.
type Controller struct {
	src     Source
	logger  *zerolog.Logger
	metrics *obs.Metrics

	mu        sync.Mutex
	producers map[string]*producer
}

func NewController(src Source, logger *zerolog.Logger, metrics *obs.Metrics) *Controller {
	return &Controller{
		src:       src,
		logger:    logger,
		metrics:   metrics,
		producers: make(map[string]*producer),
	}
}

// Start begins frame production for clientID. Idempotent: a running producer
// keeps its config snapshot. One probe grab runs synchronously so WATCH can
// report a broken capture backend right away.
func (c *Controller) Start(clientID string, cfg Config) error {
	if c.src == nil {
		return ErrSourceUnavailable
	}
	c.mu.Lock()
	if _, ok := c.producers[clientID]; ok {
		c.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := newProducer(cfg.withDefaults(), cancel)
	c.producers[clientID] = p
	c.mu.Unlock()

	probeCtx, probeCancel := context.WithTimeout(ctx, 2*time.Second)
	_, err := c.src.Grab(probeCtx)
	probeCancel()
	if err != nil {
		c.remove(clientID, p)
		p.finish()
		cancel()
		if errors.Is(err, ErrSourceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	c.logger.Info().Str("client", clientID).Int("fps", p.cfg.FPS).Int("quality", p.cfg.Quality).Msg("remote-gateway: frame producer started")
	go c.run(ctx, clientID, p)
	return nil
}

// Stop halts production for clientID. Stopping an already-stopped stream is
// a no-op.
func (c *Controller) Stop(clientID string) {
	c.mu.Lock()
	p := c.producers[clientID]
	delete(c.producers, clientID)
	c.mu.Unlock()
	if p != nil {
		p.cancel()
		p.finish()
	}
}

// Active reports whether a producer currently runs for clientID.
func (c *Controller) Active(clientID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.producers[clientID] != nil
}

// Attach binds the single allowed consumer to the client's producer.
func (c *Controller) Attach(clientID string) (*Consumer, error) {
	c.mu.Lock()
	p := c.producers[clientID]
	c.mu.Unlock()
	if p == nil {
		return nil, ErrInactive
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return nil, ErrInactive
	}
	if p.attached {
		return nil, ErrBusy
	}
	p.attached = true
	return &Consumer{p: p}, nil
}

// Consumer pulls the latest frame; each Next call delivers a frame newer than
// the previous one.
type Consumer struct {
	p    *producer
	last uint64
}

// Next blocks until a frame newer than the last delivered one exists, the
// producer stops (ErrInactive), or ctx ends.
func (cs *Consumer) Next(ctx context.Context) ([]byte, error) {
	frame, seq, err := cs.p.next(ctx, cs.last)
	if err != nil {
		return nil, err
	}
	cs.last = seq
	return frame, nil
}

// Close releases the consumer slot.
func (cs *Consumer) Close() {
	cs.p.mu.Lock()
	cs.p.attached = false
	cs.p.mu.Unlock()
}

func (c *Controller) run(ctx context.Context, clientID string, p *producer) {
	defer func() {
		p.finish()
		c.remove(clientID, p)
		c.logger.Info().Str("client", clientID).Msg("remote-gateway: frame producer stopped")
	}()

	ticker := time.NewTicker(time.Second / time.Duration(p.cfg.FPS))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		img, err := c.src.Grab(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			c.logger.Warn().Err(err).Str("client", clientID).Int("failures", failures).Msg("remote-gateway: frame grab failed")
			if failures >= maxGrabFailures {
				return
			}
			continue
		}
		failures = 0
		frame, err := encodeFrame(img, p.cfg)
		if err != nil {
			c.logger.Warn().Err(err).Str("client", clientID).Msg("remote-gateway: frame encode failed")
			continue
		}
		if p.publish(frame) {
			c.metrics.FramesTotal.WithLabelValues("dropped").Inc()
		}
	}
}

func (c *Controller) remove(clientID string, p *producer) {
	c.mu.Lock()
	if c.producers[clientID] == p {
		delete(c.producers, clientID)
	}
	c.mu.Unlock()
}
