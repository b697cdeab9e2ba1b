package types

import "time"

// Device represents a device discovered on the local network
type Device struct {
	IP        string       `json:"ip"`
	MAC       string       `json:"mac,omitempty"`
	Hostname  string       `json:"hostname"`
	Status    DeviceStatus `json:"status"`
	LastSeen  time.Time    `json:"last_seen"`
	FirstSeen time.Time    `json:"first_seen"`
}

// DeviceStatus represents the current status of a device
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

// ProbeResult represents the outcome of probing a single candidate address
type ProbeResult struct {
	IP        string `json:"ip"`
	Reachable bool   `json:"reachable"`
	Hostname  string `json:"hostname,omitempty"`
	MAC       string `json:"mac,omitempty"`
}

// Snapshot represents the result of one scan cycle
type Snapshot struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []ProbeResult `json:"results"`
}

// ScanStatus represents scheduler state exposed to the API
type ScanStatus struct {
	Scanning     bool      `json:"scanning"`
	LastScanID   string    `json:"last_scan_id,omitempty"`
	LastStarted  time.Time `json:"last_started,omitempty"`
	LastDuration string    `json:"last_duration,omitempty"`
	ScansRun     int64     `json:"scans_run"`
}
