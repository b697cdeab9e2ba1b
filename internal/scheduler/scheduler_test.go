package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lanwatch/internal/types"
)

// fakeScanner blocks for a configurable delay and records how many
// scans ever ran at the same time
type fakeScanner struct {
	delay       time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	scans       atomic.Int32
}

func (f *fakeScanner) Scan(ctx context.Context) (*types.Snapshot, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		prev := f.maxInFlight.Load()
		if cur <= prev || f.maxInFlight.CompareAndSwap(prev, cur) {
			break
		}
	}

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	f.scans.Add(1)
	return &types.Snapshot{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Results:   []types.ProbeResult{{IP: "10.0.0.5", Reachable: true}},
	}, nil
}

type fakeMerger struct {
	merges atomic.Int32
}

func (f *fakeMerger) Merge(snap *types.Snapshot) []types.DeviceEvent {
	f.merges.Add(1)
	return []types.DeviceEvent{{Type: types.EventDeviceNew, Device: types.Device{IP: "10.0.0.5"}}}
}

type fakeSink struct {
	events atomic.Int32
}

func (f *fakeSink) NotifyDeviceEvents(events []types.DeviceEvent) {
	f.events.Add(int32(len(events)))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestSchedulerFirstScanImmediate(t *testing.T) {
	scanner := &fakeScanner{}
	merger := &fakeMerger{}
	sink := &fakeSink{}

	s := New(time.Hour, scanner, merger, sink, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	// the first cycle must not wait for a full interval
	waitFor(t, time.Second, func() bool { return merger.merges.Load() == 1 })
	waitFor(t, time.Second, func() bool { return sink.events.Load() == 1 })
}

func TestSchedulerNeverOverlapsScans(t *testing.T) {
	scanner := &fakeScanner{delay: 50 * time.Millisecond}
	merger := &fakeMerger{}

	// interval far shorter than a scan, ticks must be dropped
	s := New(10*time.Millisecond, scanner, merger, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, 2*time.Second, func() bool { return scanner.scans.Load() >= 3 })
	cancel()

	assert.Equal(t, int32(1), scanner.maxInFlight.Load(),
		"at most one scan may ever be in flight")
}

func TestTriggerScan(t *testing.T) {
	scanner := &fakeScanner{}
	merger := &fakeMerger{}

	s := New(time.Hour, scanner, merger, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, time.Second, func() bool { return scanner.scans.Load() == 1 })

	require.True(t, s.TriggerScan())
	waitFor(t, time.Second, func() bool { return scanner.scans.Load() == 2 })
}

func TestTriggerScanDroppedWhileScanning(t *testing.T) {
	scanner := &fakeScanner{delay: 200 * time.Millisecond}
	merger := &fakeMerger{}

	s := New(time.Hour, scanner, merger, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, time.Second, func() bool { return scanner.inFlight.Load() == 1 })
	assert.False(t, s.TriggerScan(), "trigger during a running scan is dropped")

	status := s.Status()
	assert.True(t, status.Scanning)
}

func TestStatusAfterScan(t *testing.T) {
	scanner := &fakeScanner{}
	merger := &fakeMerger{}

	s := New(time.Hour, scanner, merger, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	waitFor(t, time.Second, func() bool { return s.Status().ScansRun == 1 })

	status := s.Status()
	assert.False(t, status.Scanning)
	assert.NotEmpty(t, status.LastScanID)
	assert.False(t, status.LastStarted.IsZero())
}
