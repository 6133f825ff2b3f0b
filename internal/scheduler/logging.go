package scheduler

import (
	"context"
	"errors"
	"time"

	obslogger "github.com/smallbiznis/officecrm/internal/observability/logger"
	"go.uber.org/zap"
)

const (
	outcomeSuccess = "success"
	outcomeTimeout = "timeout"
	outcomeError   = "error"
)

// jobRun is one execution of a job. Its id is stored as the request id on
// the job context so statement logs join back to the run.
type jobRun struct {
	job     string
	id      string
	started time.Time
	// touched counts the records the job changed or reported on.
	touched int
}

func (s *Scheduler) newRun(ctx context.Context, job string) (context.Context, *jobRun) {
	run := &jobRun{
		job:     job,
		id:      s.genID.Generate().String(),
		started: s.clock.Now(),
	}
	return obslogger.WithRequestID(ctx, run.id), run
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return outcomeTimeout
	default:
		return outcomeError
	}
}

func (s *Scheduler) logger(ctx context.Context) *zap.Logger {
	return obslogger.WithContext(ctx, s.log)
}

// report writes the single summary line of a run. Idle passes stay at debug
// so a quiet ledger does not flood the log every interval.
func (s *Scheduler) report(ctx context.Context, run *jobRun, outcome string, err error) {
	fields := []zap.Field{
		zap.String("job", run.job),
		zap.String("run_id", run.id),
		zap.String("outcome", outcome),
		zap.Int("touched", run.touched),
		zap.Duration("elapsed", s.clock.Now().Sub(run.started)),
	}
	log := s.logger(ctx)
	switch {
	case outcome == outcomeTimeout:
		log.Warn("job timed out", append(fields, zap.Duration("timeout", s.cfg.JobTimeout))...)
	case err != nil:
		log.Warn("job failed", append(fields, zap.Error(err))...)
	case run.touched == 0:
		log.Debug("job finished", fields...)
	default:
		log.Info("job finished", fields...)
	}
}
