package scanner

import (
	"context"
	"net"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"lanwatch/internal/types"
)

// Prober performs a single reachability probe plus a best-effort
// reverse name lookup per candidate address. It never returns an
// error: every failure collapses to an unreachable, unresolved result.
type Prober struct {
	cmds          Commands
	probeTimeout  time.Duration
	lookupTimeout time.Duration
	resolver      *net.Resolver
	logger        *zap.Logger
}

// NewProber creates a new prober
func NewProber(cmds Commands, probeTimeout, lookupTimeout time.Duration, logger *zap.Logger) *Prober {
	return &Prober{
		cmds:          cmds,
		probeTimeout:  probeTimeout,
		lookupTimeout: lookupTimeout,
		resolver:      net.DefaultResolver,
		logger:        logger,
	}
}

// Probe checks reachability of one candidate address and, when it
// responds, resolves its hostname. Both steps are bounded by their own
// timeouts so a silent network cannot stall the scan cycle.
func (p *Prober) Probe(ctx context.Context, ip string) types.ProbeResult {
	result := types.ProbeResult{IP: ip}

	if !p.ping(ctx, ip) {
		return result
	}
	result.Reachable = true
	result.Hostname = p.resolveHostname(ctx, ip)
	return result
}

// ping spawns one short-lived ping process. The context deadline backs
// up the utility's own timeout flag in case the binary ignores it.
func (p *Prober) ping(ctx context.Context, ip string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout+time.Second)
	defer cancel()

	name, args := p.cmds.Ping(ip, p.probeTimeout)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		// non-zero exit means unreachable; anything else (missing binary,
		// spawn failure) is treated the same way
		if _, ok := err.(*exec.ExitError); !ok {
			p.logger.Debug("ping execution failed",
				zap.String("ip", ip),
				zap.Error(err))
		}
		return false
	}
	return true
}

// resolveHostname performs a reverse DNS lookup with its own timeout
func (p *Prober) resolveHostname(ctx context.Context, ip string) string {
	ctx, cancel := context.WithTimeout(ctx, p.lookupTimeout)
	defer cancel()

	names, err := p.resolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
