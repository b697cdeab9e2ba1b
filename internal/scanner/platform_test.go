package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandsForOS(t *testing.T) {
	testCases := []struct {
		goos     string
		pingName string
		pingArgs []string
		arpName  string
		arpArgs  []string
	}{
		{
			goos:     "linux",
			pingName: "ping",
			pingArgs: []string{"-c", "1", "-W", "1", "10.0.0.5"},
			arpName:  "ip",
			arpArgs:  []string{"neigh", "show"},
		},
		{
			goos:     "darwin",
			pingName: "ping",
			pingArgs: []string{"-c", "1", "-W", "800", "10.0.0.5"},
			arpName:  "arp",
			arpArgs:  []string{"-an"},
		},
		{
			goos:     "windows",
			pingName: "ping",
			pingArgs: []string{"-n", "1", "-w", "800", "10.0.0.5"},
			arpName:  "arp",
			arpArgs:  []string{"-a"},
		},
		{
			// unknown platforms fall back to the Linux toolset
			goos:     "freebsd",
			pingName: "ping",
			pingArgs: []string{"-c", "1", "-W", "1", "10.0.0.5"},
			arpName:  "ip",
			arpArgs:  []string{"neigh", "show"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.goos, func(t *testing.T) {
			cmds := CommandsForOS(tc.goos)

			name, args := cmds.Ping("10.0.0.5", 800*time.Millisecond)
			assert.Equal(t, tc.pingName, name)
			assert.Equal(t, tc.pingArgs, args)

			name, args = cmds.ARPTable()
			assert.Equal(t, tc.arpName, name)
			assert.Equal(t, tc.arpArgs, args)
		})
	}
}

func TestLinuxPingRoundsTimeoutUp(t *testing.T) {
	_, args := linuxCommands{}.Ping("10.0.0.5", 2500*time.Millisecond)
	assert.Equal(t, []string{"-c", "1", "-W", "3", "10.0.0.5"}, args)
}
