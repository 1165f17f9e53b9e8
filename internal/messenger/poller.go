package messenger

import (
	"context"
	"errors"
	"sync"
	"time"

	"chantierpro/internal/logging"

	"github.com/rs/zerolog"
)

// Poller errors.
var (
	ErrPollerAlreadyRunning = errors.New("poller already running")
	ErrPollerNotRunning     = errors.New("poller not running")
)

// Notifier receives the new total unread count when it increased.
type Notifier func(totalUnread int)

// PollerConfig contains configuration for the sync poller.
type PollerConfig struct {
	// Interval is how often the conversation list is refreshed.
	// Default: 30s
	Interval time.Duration

	// NotifyThrottle caps notifications to one per window, however many
	// ticks raise the unread count inside it.
	// Default: 5s
	NotifyThrottle time.Duration
}

// DefaultPollerConfig returns sensible defaults.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:       30 * time.Second,
		NotifyThrottle: 5 * time.Second,
	}
}

// Poller periodically refreshes the session's conversation list and fires a
// notification when the total unread count rises. It stands in for a
// realtime transport: there is no persistent connection, only this loop and
// the RequestRefresh hook wired to foreground-visibility events.
//
// At most one refresh is ever in flight; ticks and RequestRefresh calls that
// land during a refresh coalesce into a single queued rerun.
type Poller struct {
	config  PollerConfig
	session *Session
	notify  Notifier
	logger  zerolog.Logger

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	kick    chan struct{}

	hasBaseline  bool
	lastTotal    int
	lastNotified time.Time
}

// NewPoller creates a Poller over the session. notify may be nil.
func NewPoller(config PollerConfig, session *Session, notify Notifier) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollerConfig().Interval
	}
	if config.NotifyThrottle <= 0 {
		config.NotifyThrottle = DefaultPollerConfig().NotifyThrottle
	}

	return &Poller{
		config:  config,
		session: session,
		notify:  notify,
		logger:  logging.Component("messenger-poller"),
		kick:    make(chan struct{}, 1),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrPollerAlreadyRunning
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.logger.Info().
		Dur("interval", p.config.Interval).
		Dur("notify_throttle", p.config.NotifyThrottle).
		Msg("sync poller starting")

	p.wg.Add(1)
	go p.runLoop()

	return nil
}

// Stop tears the loop down. In-flight requests are not cancelled mid-write
// by force; their results are discarded through the context liveness check
// in the session.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrPollerNotRunning
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info().Msg("sync poller stopped")
	return nil
}

// RequestRefresh asks for an immediate refresh, typically wired to the
// application regaining foreground visibility. Calls made while a refresh
// is in flight collapse into one queued rerun.
func (p *Poller) RequestRefresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) runLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.refresh()
		case <-p.kick:
			p.refresh()
		}
	}
}

// refresh runs on the loop goroutine only, which is what guarantees a single
// in-flight request.
func (p *Poller) refresh() {
	if err := p.session.RefreshConversations(p.ctx); err != nil {
		// Previous list stays visible; nothing else to do.
		p.logger.Warn().Err(err).Msg("poll refresh failed")
		return
	}

	total := p.session.TotalUnread()

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	// The first successful refresh only establishes the baseline.
	if !p.hasBaseline {
		p.hasBaseline = true
		p.lastTotal = total
		return
	}

	if total > p.lastTotal && p.notify != nil {
		now := time.Now()
		if now.Sub(p.lastNotified) >= p.config.NotifyThrottle {
			p.notify(total)
			p.lastNotified = now
		}
	}
	p.lastTotal = total
}
