// Package scheduler runs the hourly auto-refill sweep and the nightly
// stock alert mail on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"ai-mart-inventory/config"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/refill"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type RefillRunner interface {
	Run(ctx context.Context, storeID uuid.UUID, opts refill.Options) (*refill.Result, error)
}

type StoreLister interface {
	ListAutoRefillEnabled(ctx context.Context) ([]model.Store, error)
}

type AlertSender interface {
	SendAll(ctx context.Context) (int, error)
}

// SweepReport counts the outcome of one refill sweep.
type SweepReport struct {
	Stores    int `json:"stores"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type Scheduler struct {
	cron   *cron.Cron
	runner RefillRunner
	stores StoreLister
	alerts AlertSender
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New registers the refill sweep and, when alerts is non-nil, the nightly
// alert job. The alert spec is evaluated in cfg.AlertTimezone.
func New(cfg config.SchedulerConfig, runner RefillRunner, stores StoreLister, alerts AlertSender, log *zap.Logger) (*Scheduler, error) {
	log = log.Named("scheduler")
	cl := cronLogger{log.Sugar()}
	s := &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		runner: runner,
		stores: stores,
		alerts: alerts,
		log:    log,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(cfg.RefillSpec, s.refillJob); err != nil {
		return nil, fmt.Errorf("refill schedule %q: %w", cfg.RefillSpec, err)
	}
	if alerts != nil {
		spec := cfg.AlertSpec
		if cfg.AlertTimezone != "" {
			if _, err := time.LoadLocation(cfg.AlertTimezone); err != nil {
				return nil, fmt.Errorf("alert timezone: %w", err)
			}
			spec = "CRON_TZ=" + cfg.AlertTimezone + " " + spec
		}
		if _, err := s.cron.AddFunc(spec, s.alertJob); err != nil {
			return nil, fmt.Errorf("alert schedule %q: %w", cfg.AlertSpec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// RunRefillOnce runs the engine for every store that has auto-refill
// enabled, one store after another. A failing store is logged and counted
// and the sweep moves on.
func (s *Scheduler) RunRefillOnce(ctx context.Context) (SweepReport, error) {
	stores, err := s.stores.ListAutoRefillEnabled(ctx)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list stores: %w", err)
	}
	rep := SweepReport{Stores: len(stores)}
	for _, st := range stores {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res, err := s.runner.Run(ctx, st.ID, refill.Options{})
		if err != nil {
			rep.Failed++
			s.log.Error("auto-refill failed", zap.String("store_id", st.ID.String()), zap.Error(err))
			continue
		}
		rep.Succeeded++
		s.log.Debug("auto-refill done", zap.String("store_id", st.ID.String()), zap.String("message", res.Message))
	}
	return rep, nil
}

func (s *Scheduler) refillJob() {
	rep, err := s.RunRefillOnce(s.ctx)
	if err != nil {
		s.log.Error("refill sweep aborted", zap.Error(err))
		return
	}
	s.log.Info("refill sweep complete",
		zap.Int("stores", rep.Stores),
		zap.Int("succeeded", rep.Succeeded),
		zap.Int("failed", rep.Failed),
	)
}

func (s *Scheduler) alertJob() {
	if _, err := s.alerts.SendAll(s.ctx); err != nil {
		s.log.Error("nightly alerts failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.s.Debugw(msg, kv...)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw(msg, append(kv, "error", err)...)
}
