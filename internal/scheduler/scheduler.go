package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/types"
)

// ScanRunner runs one discovery cycle
type ScanRunner interface {
	Scan(ctx context.Context) (*types.Snapshot, error)
}

// Merger applies a scan snapshot to the device registry
type Merger interface {
	Merge(snap *types.Snapshot) []types.DeviceEvent
}

// EventSink receives the lifecycle events a merge produced
type EventSink interface {
	NotifyDeviceEvents(events []types.DeviceEvent)
}

// Scheduler triggers discovery cycles on a fixed interval for the
// lifetime of the process. It is a two-state machine (idle, scanning):
// a tick or manual trigger that arrives while a scan is running is
// dropped, never queued, so at most one scan and one registry merge
// are ever in flight.
type Scheduler struct {
	interval time.Duration
	scanner  ScanRunner
	registry Merger
	notifier EventSink
	logger   *zap.Logger

	scanning atomic.Bool
	trigger  chan struct{}

	mu       sync.Mutex
	status   types.ScanStatus
	scansRun atomic.Int64
}

// New creates a new scheduler. The notifier may be nil.
func New(interval time.Duration, scanner ScanRunner, registry Merger, notifier EventSink, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		scanner:  scanner,
		registry: registry,
		notifier: notifier,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Run drives the scan loop until the context is canceled. The first
// scan starts immediately so the registry is populated as soon as
// possible after startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scan scheduler started",
		zap.Duration("interval", s.interval))

	s.startScan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scan scheduler stopped")
			return
		case <-ticker.C:
			s.startScan(ctx)
		case <-s.trigger:
			s.startScan(ctx)
		}
	}
}

// TriggerScan requests an immediate scan. Returns false when a scan is
// already running or pending; the request is dropped in that case.
func (s *Scheduler) TriggerScan() bool {
	if s.scanning.Load() {
		return false
	}
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status returns the current scheduler state for the API
func (s *Scheduler) Status() types.ScanStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.status
	st.Scanning = s.scanning.Load()
	st.ScansRun = s.scansRun.Load()
	return st
}

// startScan transitions idle -> scanning, or drops the request when a
// scan is already in flight
func (s *Scheduler) startScan(ctx context.Context) {
	if !s.scanning.CompareAndSwap(false, true) {
		s.logger.Debug("Scan already in progress, skipping tick")
		return
	}

	go func() {
		defer s.scanning.Store(false)
		s.runScan(ctx)
	}()
}

// runScan executes one full scan-merge-notify cycle
func (s *Scheduler) runScan(ctx context.Context) {
	snap, err := s.scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("Scan cycle failed", zap.Error(err))
		}
		return
	}

	events := s.registry.Merge(snap)
	s.scansRun.Add(1)

	s.mu.Lock()
	s.status.LastScanID = snap.ID
	s.status.LastStarted = snap.StartedAt
	s.status.LastDuration = snap.Duration.String()
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.NotifyDeviceEvents(events)
	}
}
