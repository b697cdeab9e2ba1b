package scanner

import (
	"fmt"
	"runtime"
	"time"
)

// Commands builds the external OS commands used by the discovery
// engine. One implementation exists per OS family, selected once at
// startup so call sites never branch on OS identity.
type Commands interface {
	// Ping returns the command for a single bounded reachability probe
	Ping(ip string, timeout time.Duration) (name string, args []string)
	// ARPTable returns the command that dumps the neighbor/ARP cache
	ARPTable() (name string, args []string)
}

// CommandsForOS returns the command builder for the given GOOS value
func CommandsForOS(goos string) Commands {
	switch goos {
	case "windows":
		return windowsCommands{}
	case "darwin":
		return darwinCommands{}
	default:
		return linuxCommands{}
	}
}

// NativeCommands returns the command builder for the running platform
func NativeCommands() Commands {
	return CommandsForOS(runtime.GOOS)
}

type linuxCommands struct{}

func (linuxCommands) Ping(ip string, timeout time.Duration) (string, []string) {
	// -W takes whole seconds, round up so sub-second timeouts still wait
	secs := int((timeout + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return "ping", []string{"-c", "1", "-W", fmt.Sprintf("%d", secs), ip}
}

func (linuxCommands) ARPTable() (string, []string) {
	// net-tools is not guaranteed on modern distros, iproute2 is
	return "ip", []string{"neigh", "show"}
}

type darwinCommands struct{}

func (darwinCommands) Ping(ip string, timeout time.Duration) (string, []string) {
	return "ping", []string{"-c", "1", "-W", fmt.Sprintf("%d", timeout.Milliseconds()), ip}
}

func (darwinCommands) ARPTable() (string, []string) {
	return "arp", []string{"-an"}
}

type windowsCommands struct{}

func (windowsCommands) Ping(ip string, timeout time.Duration) (string, []string) {
	return "ping", []string{"-n", "1", "-w", fmt.Sprintf("%d", timeout.Milliseconds()), ip}
}

func (windowsCommands) ARPTable() (string, []string) {
	return "arp", []string{"-a"}
}
