package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/clock"
	followupdomain "github.com/smallbiznis/officecrm/internal/followup/domain"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	obsmetrics "github.com/smallbiznis/officecrm/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	jobMarkOverdue    = "mark_overdue"
	jobFollowupDigest = "followup_digest"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log         *zap.Logger
	InvoiceSvc  invoicedomain.Service
	FollowupSvc followupdomain.Service `optional:"true"`
	GenID       *snowflake.Node
	Clock       clock.Clock
	Metrics     *obsmetrics.Metrics `optional:"true"`
	Config      Config              `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	genID       *snowflake.Node
	clock       clock.Clock
	metrics     *obsmetrics.Metrics
	invoiceSvc  invoicedomain.Service
	followupSvc followupdomain.Service
}

type job struct {
	name string
	run  func(context.Context, *jobRun) error
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.InvoiceSvc == nil || p.GenID == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		genID:       p.GenID,
		clock:       p.Clock,
		metrics:     p.Metrics,
		invoiceSvc:  p.InvoiceSvc,
		followupSvc: p.FollowupSvc,
	}, nil
}

func (s *Scheduler) jobs() []job {
	jobs := []job{{jobMarkOverdue, s.markOverdue}}
	if s.followupSvc != nil {
		jobs = append(jobs, job{jobFollowupDigest, s.followupDigest})
	}
	return jobs
}

// runJob runs fn under the job timeout. A timeout is logged and swallowed so
// the next tick retries; other failures are returned wrapped with the name.
func (s *Scheduler) runJob(parent context.Context, j job) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	ctx, run := s.newRun(ctx, j.name)
	s.logger(ctx).Debug("job started", zap.String("job", j.name), zap.Int("batch_size", s.cfg.BatchSize))

	err := j.run(ctx, run)
	outcome := outcomeOf(err)
	s.metrics.RecordJobRun(ctx, j.name, outcome, s.clock.Now().Sub(run.started))
	s.report(ctx, run, outcome, err)

	if outcome == outcomeError {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	return nil
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	var err error
	for _, j := range s.jobs() {
		if !s.isJobEnabled(j.name) {
			continue
		}
		err = errors.Join(err, s.runJob(ctx, j))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(name string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, name) {
			return true
		}
	}
	return false
}

// MarkOverdueJob flips unpaid invoices past their due date to overdue.
func (s *Scheduler) MarkOverdueJob(ctx context.Context) error {
	return s.runJob(ctx, job{jobMarkOverdue, s.markOverdue})
}

func (s *Scheduler) markOverdue(ctx context.Context, run *jobRun) error {
	count, err := s.invoiceSvc.MarkOverdue(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}
	run.touched = count
	return nil
}

// followupDigest logs the pending follow-up counts so overdue tasks surface
// without anyone opening the dashboard.
func (s *Scheduler) followupDigest(ctx context.Context, run *jobRun) error {
	summary, err := s.followupSvc.Summary(ctx)
	if err != nil {
		return err
	}
	run.touched = int(summary.Overdue + summary.DueToday)
	if run.touched > 0 {
		s.logger(ctx).Info("follow-ups need attention",
			zap.Int64("overdue", summary.Overdue),
			zap.Int64("due_today", summary.DueToday),
			zap.Int64("pending", summary.Pending),
		)
	}
	return nil
}
