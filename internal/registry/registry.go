package registry

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/types"
	"lanwatch/internal/utils"
)

// Registry is the single shared source of truth for discovered
// devices. Merges and reads are serialized through one lock so an API
// read never observes a half-applied scan result. Records are never
// deleted within a process lifetime: a device that stops responding
// only flips to offline.
type Registry struct {
	mu      sync.RWMutex
	devices map[string]*types.Device
	logger  *zap.Logger

	// now is replaced in tests
	now func() time.Time
}

// New creates an empty registry
func New(logger *zap.Logger) *Registry {
	return &Registry{
		devices: make(map[string]*types.Device),
		logger:  logger,
		now:     time.Now,
	}
}

// Merge applies one scan snapshot as a single atomic transition and
// returns the device lifecycle events it produced.
//
// Every device in the snapshot is inserted or marked online with a
// refreshed last_seen; hostname and MAC are only overwritten by
// non-empty values. Every known device absent from the snapshot flips
// to offline with everything else untouched.
func (r *Registry) Merge(snap *types.Snapshot) []types.DeviceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	seen := make(map[string]struct{}, len(snap.Results))
	var events []types.DeviceEvent

	for _, res := range snap.Results {
		seen[res.IP] = struct{}{}

		dev, known := r.devices[res.IP]
		if !known {
			dev = &types.Device{
				IP:        res.IP,
				MAC:       res.MAC,
				Hostname:  res.Hostname,
				Status:    types.DeviceStatusOnline,
				LastSeen:  now,
				FirstSeen: now,
			}
			if dev.Hostname == "" {
				dev.Hostname = res.IP
			}
			r.devices[res.IP] = dev
			events = append(events, types.DeviceEvent{Type: types.EventDeviceNew, Device: *dev})
			continue
		}

		wasOffline := dev.Status == types.DeviceStatusOffline

		// refresh opportunistically, never erase a known value
		if res.MAC != "" {
			dev.MAC = res.MAC
		}
		if res.Hostname != "" {
			dev.Hostname = res.Hostname
		}
		dev.Status = types.DeviceStatusOnline
		if now.After(dev.LastSeen) {
			dev.LastSeen = now
		}

		if wasOffline {
			events = append(events, types.DeviceEvent{Type: types.EventDeviceOnline, Device: *dev})
		}
	}

	for ip, dev := range r.devices {
		if _, ok := seen[ip]; ok {
			continue
		}
		if dev.Status == types.DeviceStatusOnline {
			dev.Status = types.DeviceStatusOffline
			events = append(events, types.DeviceEvent{Type: types.EventDeviceOffline, Device: *dev})
		}
	}

	r.logger.Debug("registry merged",
		zap.String("scan_id", snap.ID),
		zap.Int("snapshot_devices", len(snap.Results)),
		zap.Int("registry_devices", len(r.devices)),
		zap.Int("events", len(events)))

	return events
}

// Snapshot returns a copy of all device records ordered by IP
// ascending. The ordering is stable between calls so a polling client
// can diff consecutive responses.
func (r *Registry) Snapshot() []types.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]types.Device, 0, len(r.devices))
	for _, dev := range r.devices {
		devices = append(devices, *dev)
	}

	sort.Slice(devices, func(i, j int) bool {
		return utils.CompareIPv4(devices[i].IP, devices[j].IP) < 0
	})
	return devices
}

// Get returns a copy of a single device record
func (r *Registry) Get(ip string) (types.Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[ip]
	if !ok {
		return types.Device{}, false
	}
	return *dev, true
}

// Counts returns the number of online and offline devices
func (r *Registry) Counts() (online, offline int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, dev := range r.devices {
		if dev.Status == types.DeviceStatusOnline {
			online++
		} else {
			offline++
		}
	}
	return online, offline
}
