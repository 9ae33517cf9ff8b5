// Package service provides the server context and the operations behind
// the HTTP API: server info, health, portfolio listing and contact intake.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/okian/portfolio/internal/domain/model"
	"github.com/okian/portfolio/pkg/logger"
	"github.com/okian/portfolio/pkg/metrics"
)

// Fixed server identity reported by GET /api/info.
const (
	ServerName    = "Portfolio Web Server"
	ServerVersion = "1.0.0"
)

// ContactLimiter decides whether a client may submit another contact message.
type ContactLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// Service owns process-wide state: the start time and the environment.
type Service struct {
	mu sync.RWMutex

	startedAt   time.Time
	now         func() time.Time
	environment string
	production  bool

	contactDelay time.Duration
	limiter      ContactLimiter
	sanitizer    *bluemonday.Policy
	newID        func() string

	accepted atomic.Int64
	rejected atomic.Int64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnvironment sets the environment name and whether it is production-like.
func WithEnvironment(name string, production bool) Option {
	return func(s *Service) {
		if strings.TrimSpace(name) != "" {
			s.environment = name
		}
		s.production = production
	}
}

// WithContactDelay sets the simulated processing time for contact submissions.
func WithContactDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.contactDelay = d
		}
	}
}

// WithContactLimiter installs a per-client submission limiter.
func WithContactLimiter(l ContactLimiter) Option {
	return func(s *Service) {
		s.limiter = l
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the contact reference ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service. The start time is captured here.
func New(opts ...Option) *Service {
	s := &Service{
		now:          time.Now,
		environment:  "development",
		contactDelay: time.Second,
		sanitizer:    bluemonday.StrictPolicy(),
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Start marks the service as running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.logger.Info(ctx, "portfolio service started",
		logger.String("environment", s.environment),
		logger.Duration("contactDelay", s.contactDelay),
		logger.Bool("rateLimited", s.limiter != nil),
	)
	return nil
}

// Stop marks the service as stopped and logs its final counters.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	st := s.Stats()
	s.log().Info(context.Background(), "portfolio service stopped",
		logger.Float64("uptime", st.Uptime),
		logger.Int("contactsAccepted", int(st.Accepted)),
		logger.Int("contactsRejected", int(st.Rejected)),
	)
}

// Environment returns the configured environment name.
func (s *Service) Environment() string { return s.environment }

// IsProduction reports whether internal error detail must be hidden.
func (s *Service) IsProduction() bool { return s.production }

// StartedAt returns the time the service was constructed.
func (s *Service) StartedAt() time.Time { return s.startedAt }

// Uptime returns seconds elapsed since the service was constructed.
func (s *Service) Uptime() float64 {
	d := s.now().Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// Info returns a fresh ServerInfoSnapshot.
func (s *Service) Info(_ context.Context) model.ServerInfoSnapshot {
	return model.ServerInfoSnapshot{
		ServerName:     ServerName,
		Version:        ServerVersion,
		Uptime:         s.Uptime(),
		Timestamp:      isoTimestamp(s.now()),
		RuntimeVersion: runtime.Version(),
		Environment:    s.environment,
	}
}

// Health returns the liveness payload.
func (s *Service) Health(_ context.Context) model.HealthStatus {
	return model.HealthStatus{
		Status:    "OK",
		Timestamp: isoTimestamp(s.now()),
		Uptime:    s.Uptime(),
	}
}

// Portfolio returns the fixed project listing.
func (s *Service) Portfolio(_ context.Context) []model.PortfolioProject {
	return model.Projects()
}

// SubmitContact validates c, logs it and waits the configured delay.
// Failures wrap one of the model.Err* contact sentinels.
// clientKey identifies the sender for the optional limiter.
func (s *Service) SubmitContact(ctx context.Context, clientKey string, c model.ContactSubmission) (model.ContactRecord, error) {
	const op = "service.submit_contact"
	start := time.Now()

	if err := c.Validate(); err != nil {
		s.rejected.Add(1)
		metrics.RecordContactSubmission(outcomeFor(err))
		return model.ContactRecord{}, err
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, clientKey) {
		s.rejected.Add(1)
		metrics.RecordContactSubmission("rate_limited")
		return model.ContactRecord{}, fmt.Errorf("%s: %w", op, model.ErrRateLimited)
	}

	rec := model.ContactRecord{
		ID:         s.newID(),
		Submission: c,
		ReceivedAt: s.now(),
	}
	s.log().Info(ctx, "Thông tin liên hệ mới",
		logger.String("id", rec.ID),
		logger.String("name", s.sanitizer.Sanitize(c.Name)),
		logger.String("email", s.sanitizer.Sanitize(c.Email)),
		logger.String("subject", s.sanitizer.Sanitize(c.Subject)),
		logger.String("message", s.sanitizer.Sanitize(c.Message)),
		logger.String("time", rec.ReceivedAt.Local().Format(model.LocalTimeLayout)),
	)

	if err := s.wait(ctx); err != nil {
		metrics.RecordContactSubmission("abandoned")
		return rec, fmt.Errorf("%s: %w: %w", op, model.ErrAbandoned, err)
	}

	s.accepted.Add(1)
	metrics.RecordContactSubmission("accepted")
	metrics.RecordContactLatency(float64(time.Since(start).Milliseconds()))
	return rec, nil
}

// Stats is a point-in-time view of the service counters.
type Stats struct {
	Started     bool
	Environment string
	Uptime      float64
	Accepted    int64
	Rejected    int64
}

// Stats returns the current counters.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	return Stats{
		Started:     started,
		Environment: s.environment,
		Uptime:      s.Uptime(),
		Accepted:    s.accepted.Load(),
		Rejected:    s.rejected.Load(),
	}
}

func (s *Service) wait(ctx context.Context) error {
	if s.contactDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.contactDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

func outcomeFor(err error) string {
	if errors.Is(err, model.ErrInvalidEmail) {
		return "invalid_email"
	}
	return "missing_fields"
}

// isoTimestamp formats t like JavaScript's Date.toISOString.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
