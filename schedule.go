package artcards

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/agentstation/artcards/pkg/constants"
	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Scheduler = (*client)(nil)

// Scheduler re-invokes price batches on a schedule until stopped.
type Scheduler interface {
	// StartSchedule runs one RefreshPrices batch per tick of the configured
	// cron spec. A tick is skipped while the previous batch still runs.
	// The schedule stops when ctx is done or StopSchedule is called.
	StartSchedule(ctx context.Context) error

	// StopSchedule stops the schedule and waits briefly for a running batch.
	StopSchedule() error

	// NextRun returns the time of the next scheduled batch, or the zero
	// time when no schedule runs.
	NextRun() time.Time
}

// StartSchedule implements Scheduler.
func (c *client) StartSchedule(ctx context.Context) error {
	// Stop any existing schedule to prevent overlapping jobs
	if err := c.StopSchedule(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	logger := logging.FromContext(ctx)
	cl := cronLogger{logger: logger}
	sched := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	spec := c.options.schedule
	_, err := sched.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		result, err := c.RefreshPrices(ctx)
		switch {
		case err == nil:
			logger.Info().Str("run_id", result.RunID).Msg(result.Summary())
		case stderrors.Is(err, context.Canceled) || errors.IsCanceled(err):
			logger.Debug().Msg("Scheduled batch canceled")
		default:
			// Log and keep the schedule; the next tick retries the same slice.
			logger.Error().Err(err).Msg("Scheduled price batch failed")
		}
	})
	if err != nil {
		cancel()
		return &errors.ValidationError{
			Field:   "schedule",
			Value:   spec,
			Message: err.Error(),
		}
	}

	c.schedMu.Lock()
	c.cron = sched
	c.schedCancel = cancel
	c.schedMu.Unlock()
	sched.Start()
	logger.Info().Str("schedule", spec).Time("next", c.NextRun()).Msg("Price refresh schedule started")

	go func() {
		<-ctx.Done()
		_ = c.stopCron(sched)
	}()
	return nil
}

// StopSchedule implements Scheduler.
func (c *client) StopSchedule() error {
	c.schedMu.Lock()
	sched, cancel := c.cron, c.schedCancel
	c.cron, c.schedCancel = nil, nil
	c.schedMu.Unlock()
	if cancel != nil {
		cancel()
	}
	return c.stopCron(sched)
}

func (c *client) stopCron(sched *cron.Cron) error {
	if sched == nil {
		return nil
	}
	done := sched.Stop()
	select {
	case <-done.Done():
		return nil
	case <-time.After(constants.ShutdownTimeout):
		return &errors.ResourceError{
			Operation: "stop",
			Resource:  "scheduler",
			Message:   "running batch did not finish within " + constants.ShutdownTimeout.String(),
			Err:       errors.ErrTimeout,
		}
	}
}

// NextRun implements Scheduler.
func (c *client) NextRun() time.Time {
	c.schedMu.Lock()
	defer c.schedMu.Unlock()
	if c.cron == nil {
		return time.Time{}
	}
	entries := c.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger routes cron's logging into zerolog.
type cronLogger struct {
	logger *zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
