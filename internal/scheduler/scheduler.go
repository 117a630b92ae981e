// Package scheduler wires up the cron job that periodically builds the
// dashboard and publishes a digest of it for the Gateway.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"jobmate/recruiter-service/internal/model"
)

// EventDashboardDigest is published after every digest run.
const EventDashboardDigest = "EVENT_DASHBOARD_DIGEST"

// Builder builds dashboard snapshots.
type Builder interface {
	Build(ctx context.Context) (*model.DashboardSnapshot, error)
}

// Publisher sends events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Digest is the compact summary published for a snapshot.
type Digest struct {
	TotalJobs         int                `json:"totalJobs"`
	NewHighScoreCount int                `json:"newHighScoreCount"`
	StaleCount        int                `json:"staleCount"`
	ContactMatches    int                `json:"contactMatches"`
	ActionItems       []model.ActionItem `json:"actionItems"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// Summarize reduces snap to a Digest.
func Summarize(snap *model.DashboardSnapshot) Digest {
	return Digest{
		TotalJobs:         snap.TotalJobs,
		NewHighScoreCount: snap.NewHighScoreCount,
		StaleCount:        snap.StaleCount,
		ContactMatches:    len(snap.ContactMatches),
		ActionItems:       snap.ActionItems,
		GeneratedAt:       snap.GeneratedAt,
	}
}

// Scheduler wraps robfig/cron and manages the digest loop.
type Scheduler struct {
	cron    *cron.Cron
	builder Builder
	pub     Publisher
	log     *zap.Logger
	spec    string // cron spec, e.g. "0 8 * * *"
}

// New creates a Scheduler that fires on spec in loc.
func New(builder Builder, pub Publisher, spec string, loc *time.Location, log *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{log.Sugar()})),
		builder: builder,
		pub:     pub,
		log:     log,
		spec:    spec,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunDigest(ctx); err != nil {
			s.log.Warn("digest run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("cron started", zap.String("spec", s.spec))
	return nil
}

// Stop shuts down the scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

// RunDigest builds one snapshot and publishes its digest. A publish failure
// is logged and does not fail the run.
func (s *Scheduler) RunDigest(ctx context.Context) (Digest, error) {
	s.log.Debug("digest run started")

	snap, err := s.builder.Build(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("build dashboard: %w", err)
	}

	d := Summarize(snap)
	if s.pub != nil {
		if err := s.pub.Publish(ctx, EventDashboardDigest, d); err != nil {
			s.log.Warn("publish digest failed", zap.Error(err))
		}
	}

	s.log.Info("digest run complete",
		zap.Int("total_jobs", d.TotalJobs),
		zap.Int("action_items", len(d.ActionItems)),
	)
	return d, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
