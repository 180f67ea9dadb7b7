package health

import (
	"context"
	"sync"
	"time"

	"exam-admin-console/internal/apiclient"
	"exam-admin-console/internal/logger"
	"exam-admin-console/internal/model"
	"exam-admin-console/internal/session"

	"github.com/rs/zerolog"
)

// Status is the dashboard's infrastructure snapshot.
type Status struct {
	API      string              `json:"api"`      // "loading", "ok", "error"
	Database string              `json:"database"` // "loading", "connected", "disconnected"
	Details  model.HealthDetails `json:"details"`
	Checked  time.Time           `json:"checked_at"`
}

// Poller checks the remote health endpoint on a fixed interval while the
// status screen is alive. The ticker stops with the context, so nothing
// keeps running after shutdown.
type Poller struct {
	client   *apiclient.Client
	sessions *session.Store
	interval time.Duration

	mu     sync.RWMutex
	status Status

	log zerolog.Logger
}

func NewPoller(client *apiclient.Client, sessions *session.Store, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		client:   client,
		sessions: sessions,
		interval: interval,
		status:   Status{API: "loading", Database: "loading"},
		log:      logger.Named("health"),
	}
}

// Start polls immediately and then on every tick until the context is
// cancelled.
func (p *Poller) Start(ctx context.Context) {
	p.log.Info().Dur("interval", p.interval).Msg("Starting health poller")

	p.check(ctx)

	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.log.Info().Msg("Health poller stopped")
				return
			case <-ticker.C:
				p.check(ctx)
			}
		}
	}()
}

func (p *Poller) check(ctx context.Context) {
	resp, err := p.client.Health(ctx, p.sessions.Token())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Checked = time.Now()

	if err != nil {
		p.status.API = "error"
		p.status.Database = "disconnected"
		p.status.Details = model.HealthDetails{Engine: "Server Offline", Name: "-"}
		p.log.Warn().Err(err).Msg("Health check failed")
		return
	}

	p.status.API = "ok"
	if resp.Database == "connected" {
		p.status.Database = "connected"
	} else {
		p.status.Database = "disconnected"
	}
	p.status.Details = resp.Details
}

func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
