package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/procfs"
	"go.uber.org/zap"
)

// ProcessUsage is one process resource reading
type ProcessUsage struct {
	CPUSeconds float64
	RSSBytes   int
}

// UsageReader reads the current process usage
type UsageReader func() (ProcessUsage, error)

// ReadSelf reads the usage of the current process from /proc
func ReadSelf() (ProcessUsage, error) {
	proc, err := procfs.Self()
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("failed to open /proc/self: %w", err)
	}
	stat, err := proc.Stat()
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("failed to read process stat: %w", err)
	}
	return ProcessUsage{CPUSeconds: stat.CPUTime(), RSSBytes: stat.ResidentMemory()}, nil
}

// ProcessSampler periodically feeds CPU and memory usage into a Collector
type ProcessSampler struct {
	collector *Collector
	read      UsageReader
	logger    *zap.Logger
	now       func() time.Time

	last   ProcessUsage
	lastAt time.Time
}

// NewProcessSampler creates a sampler reading from read
func NewProcessSampler(collector *Collector, read UsageReader, logger *zap.Logger) *ProcessSampler {
	return &ProcessSampler{
		collector: collector,
		read:      read,
		logger:    logger,
		now:       time.Now,
	}
}

// Sample takes one reading. CPU percent is the CPU time used since the
// previous reading over the wall time elapsed; the first reading reports 0.
func (s *ProcessSampler) Sample() error {
	usage, err := s.read()
	if err != nil {
		return err
	}
	now := s.now()

	cpuPercent := 0.0
	if !s.lastAt.IsZero() {
		if wall := now.Sub(s.lastAt).Seconds(); wall > 0 {
			cpuPercent = (usage.CPUSeconds - s.last.CPUSeconds) / wall * 100
		}
	}
	if cpuPercent < 0 {
		cpuPercent = 0
	}

	s.collector.SetProcessUsage(cpuPercent, float64(usage.RSSBytes)/1e6)
	s.last = usage
	s.lastAt = now
	return nil
}

// Run samples every interval until ctx is done. Sampling stops at the first
// failed read, which is expected on systems without procfs.
func (s *ProcessSampler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Warn("Process metrics disabled, sample interval must be positive", zap.Duration("interval", interval))
		return
	}
	if err := s.Sample(); err != nil {
		s.logger.Info("Process metrics unavailable", zap.Error(err))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Sample(); err != nil {
				s.logger.Warn("Stopped sampling process metrics", zap.Error(err))
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
