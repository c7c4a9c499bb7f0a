package journal

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// cleanupTask periodically removes expired entries until stopped
type cleanupTask struct {
	freq    time.Duration
	logger  *zap.Logger
	cleanup func(ctx context.Context) error
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func startCleanupTask(freq time.Duration, logger *zap.Logger, cleanup func(ctx context.Context) error) *cleanupTask {
	t := &cleanupTask{
		freq:    freq,
		logger:  logger,
		cleanup: cleanup,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	if freq <= 0 {
		close(t.doneCh)
		return t
	}
	go t.run()
	return t
}

func (t *cleanupTask) run() {
	defer close(t.doneCh)

	ticker := time.NewTicker(t.freq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.cleanup(context.Background()); err != nil {
				t.logger.Error("Failed to clean up journal", zap.Error(err))
			}
		case <-t.stopCh:
			return
		}
	}
}

// stop signals the task and waits for it to exit
func (t *cleanupTask) stop() {
	select {
	case <-t.stopCh:
	default:
		close(t.stopCh)
	}
	<-t.doneCh
}
