package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lanwatch/internal/types"
)

func snapshotOf(results ...types.ProbeResult) *types.Snapshot {
	return &types.Snapshot{
		ID:        "test-scan",
		StartedAt: time.Now(),
		Results:   results,
	}
}

func TestMergeInsertsNewDevice(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	t1 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return t1 }

	events := r.Merge(snapshotOf(types.ProbeResult{
		IP:        "10.0.0.5",
		Reachable: true,
		Hostname:  "laptop",
	}))

	require.Len(t, events, 1)
	assert.Equal(t, types.EventDeviceNew, events[0].Type)

	dev, ok := r.Get("10.0.0.5")
	require.True(t, ok)
	assert.Equal(t, types.DeviceStatusOnline, dev.Status)
	assert.Equal(t, "laptop", dev.Hostname)
	assert.Empty(t, dev.MAC)
	assert.Equal(t, t1, dev.LastSeen)
	assert.Equal(t, t1, dev.FirstSeen)
}

func TestMergeHostnameFallsBackToIP(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.7", Reachable: true}))

	dev, ok := r.Get("10.0.0.7")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.7", dev.Hostname)
}

func TestMergeAbsentDeviceGoesOffline(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	t1 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return t1 }

	r.Merge(snapshotOf(types.ProbeResult{
		IP:        "10.0.0.5",
		Reachable: true,
		Hostname:  "laptop",
		MAC:       "aa:bb:cc:dd:ee:ff",
	}))

	// next cycle finds nothing at all
	r.now = func() time.Time { return t1.Add(30 * time.Second) }
	events := r.Merge(snapshotOf())

	require.Len(t, events, 1)
	assert.Equal(t, types.EventDeviceOffline, events[0].Type)

	dev, ok := r.Get("10.0.0.5")
	require.True(t, ok, "records are never deleted")
	assert.Equal(t, types.DeviceStatusOffline, dev.Status)
	assert.Equal(t, "laptop", dev.Hostname)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", dev.MAC)
	assert.Equal(t, t1, dev.LastSeen, "last_seen unchanged while offline")
}

func TestMergeNeverErasesKnownValues(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	r.Merge(snapshotOf(types.ProbeResult{
		IP:        "10.0.0.5",
		Reachable: true,
		Hostname:  "laptop",
		MAC:       "aa:bb:cc:dd:ee:ff",
	}))

	// same device, this time without hostname or MAC resolution
	r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))

	dev, _ := r.Get("10.0.0.5")
	assert.Equal(t, "laptop", dev.Hostname)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", dev.MAC)
	assert.Equal(t, types.DeviceStatusOnline, dev.Status)
}

func TestMergeOfflineToOnlineTransition(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))
	r.Merge(snapshotOf())
	events := r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))

	require.Len(t, events, 1)
	assert.Equal(t, types.EventDeviceOnline, events[0].Type)
	assert.Equal(t, "10.0.0.5", events[0].Device.IP)
}

func TestMergeLastSeenMonotonic(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	t1 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	times := []time.Time{t1, t1.Add(30 * time.Second), t1.Add(time.Minute)}
	var lastSeen time.Time
	for _, now := range times {
		now := now
		r.now = func() time.Time { return now }
		r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))

		dev, _ := r.Get("10.0.0.5")
		assert.False(t, dev.LastSeen.Before(lastSeen))
		lastSeen = dev.LastSeen
	}
}

func TestSnapshotOrderedByIP(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	r.Merge(snapshotOf(
		types.ProbeResult{IP: "10.0.0.100", Reachable: true},
		types.ProbeResult{IP: "10.0.0.2", Reachable: true},
		types.ProbeResult{IP: "10.0.0.30", Reachable: true},
	))

	devices := r.Snapshot()
	require.Len(t, devices, 3)
	assert.Equal(t, "10.0.0.2", devices[0].IP)
	assert.Equal(t, "10.0.0.30", devices[1].IP)
	assert.Equal(t, "10.0.0.100", devices[2].IP)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New(zaptest.NewLogger(t))
	r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))

	devices := r.Snapshot()
	devices[0].Hostname = "mutated"

	dev, _ := r.Get("10.0.0.5")
	assert.Equal(t, "10.0.0.5", dev.Hostname)
}

func TestCounts(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	r.Merge(snapshotOf(
		types.ProbeResult{IP: "10.0.0.5", Reachable: true},
		types.ProbeResult{IP: "10.0.0.6", Reachable: true},
	))
	r.Merge(snapshotOf(types.ProbeResult{IP: "10.0.0.5", Reachable: true}))

	online, offline := r.Counts()
	assert.Equal(t, 1, online)
	assert.Equal(t, 1, offline)
}

func TestConcurrentReadsDuringMerge(t *testing.T) {
	r := New(zaptest.NewLogger(t))

	results := make([]types.ProbeResult, 0, 254)
	for i := 1; i < 255; i++ {
		results = append(results, types.ProbeResult{
			IP:        fmt.Sprintf("10.0.0.%d", i),
			Reachable: true,
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			r.Merge(snapshotOf(results...))
			r.Merge(snapshotOf())
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			devices := r.Snapshot()
			if len(devices) == 0 {
				continue
			}
			// a read observes either the pre-merge or post-merge registry:
			// all records must share one status, never a mix
			for _, dev := range devices[1:] {
				assert.Equal(t, devices[0].Status, dev.Status)
			}
		}
	}()

	wg.Wait()
}
