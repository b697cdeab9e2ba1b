package types

// EventType identifies a device lifecycle transition observed during a merge
type EventType string

const (
	// EventDeviceNew fires the first time an IP is seen
	EventDeviceNew EventType = "device.new"
	// EventDeviceOnline fires when a known device transitions offline -> online
	EventDeviceOnline EventType = "device.online"
	// EventDeviceOffline fires when a known device transitions online -> offline
	EventDeviceOffline EventType = "device.offline"
)

// DeviceEvent pairs a transition with the post-merge device record
type DeviceEvent struct {
	Type   EventType `json:"type"`
	Device Device    `json:"device"`
}
