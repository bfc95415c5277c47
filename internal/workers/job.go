package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-vault-sync/internal/logger"
)

const defaultInterval = time.Minute

// periodicJob calls task on a ticker until stopped.
type periodicJob struct {
	name     string
	interval time.Duration
	// immediate runs task once right after Start.
	immediate bool
	task      func(ctx context.Context) error
	logger    *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newPeriodicJob(name string, interval time.Duration, immediate bool, task func(ctx context.Context) error, log *logger.Logger) *periodicJob {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &periodicJob{
		name:      name,
		interval:  interval,
		immediate: immediate,
		task:      task,
		logger:    log,
	}
}

func (j *periodicJob) Name() string {
	return j.name
}

// Start stops any previously running instance, then launches a goroutine that
// calls the task every interval. The goroutine exits when ctx is cancelled or
// Stop is called.
func (j *periodicJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		if j.immediate {
			j.runOnce(jobCtx)
		}
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.runOnce(jobCtx)
			}
		}
	}()
}

func (j *periodicJob) runOnce(ctx context.Context) {
	if err := j.task(ctx); err != nil && ctx.Err() == nil {
		j.logger.Err(err).
			Str("func", "periodicJob.runOnce").
			Str("job", j.name).
			Msg("background job failed")
	}
}

// Stop cancels the job and waits for its goroutine. It is a no-op when the
// job is not running.
func (j *periodicJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
