package scanner

import (
	"bufio"
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/utils"
)

// ARPReader reads the OS neighbor cache once per scan cycle and builds
// an IP to MAC lookup. It is a best-effort enrichment source: any
// failure yields an empty map, never an error.
type ARPReader struct {
	cmds    Commands
	timeout time.Duration
	logger  *zap.Logger
}

// NewARPReader creates a new ARP table reader
func NewARPReader(cmds Commands, timeout time.Duration, logger *zap.Logger) *ARPReader {
	return &ARPReader{
		cmds:    cmds,
		timeout: timeout,
		logger:  logger,
	}
}

// Read invokes the platform neighbor-table utility and parses its
// output. Returns an empty map when the utility is missing or its
// output is unusable.
func (r *ARPReader) Read(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name, args := r.cmds.ARPTable()
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		r.logger.Debug("neighbor table read failed",
			zap.String("command", name),
			zap.Error(err))
		return map[string]string{}
	}

	return parseNeighborTable(string(out))
}

// parseNeighborTable extracts IP to MAC pairs from neighbor-table
// output. The format varies across platforms (ip neigh, BSD arp -an,
// Windows arp -a), so parsing is token based: the first IPv4-looking
// token on a line is the address, the first MAC-looking token is its
// hardware address. Malformed or incomplete lines are skipped.
func parseNeighborTable(output string) map[string]string {
	table := make(map[string]string)

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		var ip, mac string
		for _, token := range strings.Fields(sc.Text()) {
			token = strings.Trim(token, "()")
			if ip == "" && utils.IsValidIPv4(token) {
				ip = token
				continue
			}
			if mac == "" {
				mac = utils.NormalizeMAC(token)
			}
		}

		// incomplete entries carry no MAC, all-zero means unresolved
		if ip == "" || mac == "" || mac == "00:00:00:00:00:00" {
			continue
		}
		if _, exists := table[ip]; !exists {
			table[ip] = mac
		}
	}

	return table
}
