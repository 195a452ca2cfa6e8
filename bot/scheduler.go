package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Cycler is anything that can run one polling pass.
type Cycler interface {
	RunCycle(ctx context.Context) CycleStats
}

// Scheduler runs a Cycler once immediately and then every interval. A tick
// that fires while the previous cycle is still running is skipped, so two
// cycles never overlap.
type Scheduler struct {
	cron  *cron.Cron
	entry cron.EntryID
	wg    sync.WaitGroup
}

// NewScheduler wires c into a cron runner. Cycles get ctx, so cancelling it
// interrupts a running cycle and any sleep inside it.
func NewScheduler(ctx context.Context, c Cycler, interval time.Duration) *Scheduler {
	logger := cronLogger{log: slog.Default().With("component", "scheduler")}
	cr := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	id := cr.Schedule(cron.Every(interval), cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		c.RunCycle(ctx)
	}))
	return &Scheduler{cron: cr, entry: id}
}

// Start kicks off the first cycle right away and starts the periodic timer.
// It does not block.
func (s *Scheduler) Start() {
	// The wrapped job shares the skip-if-running guard with timer-driven runs.
	job := s.cron.Entry(s.entry).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
	s.cron.Start()
}

// Stop halts the timer and returns a context that is done once the running
// cycle, if any, has returned.
func (s *Scheduler) Stop() context.Context {
	cronDone := s.cron.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		cancel()
	}()
	return ctx
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
