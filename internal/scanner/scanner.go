package scanner

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"lanwatch/internal/config"
	"lanwatch/internal/types"
	"lanwatch/internal/utils"
)

// Scanner orchestrates one discovery cycle: it enumerates the target
// address range, fans probes out across it with bounded concurrency,
// reads the neighbor table once and merges the two result sets into an
// ordered snapshot.
type Scanner struct {
	config *config.ScanConfig
	prober *Prober
	arp    *ARPReader
	logger *zap.Logger

	// localIP overrides discovery in tests
	localIP func() (net.IP, error)
}

// New creates a new scanner for the running platform
func New(cfg *config.ScanConfig, logger *zap.Logger) *Scanner {
	cmds := NativeCommands()
	return &Scanner{
		config:  cfg,
		prober:  NewProber(cmds, cfg.ProbeTimeout, cfg.LookupTimeout, logger),
		arp:     NewARPReader(cmds, 5*time.Second, logger),
		logger:  logger,
		localIP: LocalIPv4,
	}
}

// Scan runs one full discovery cycle and returns its snapshot
func (s *Scanner) Scan(ctx context.Context) (*types.Snapshot, error) {
	started := time.Now()

	snap := &types.Snapshot{
		ID:        uuid.New().String(),
		StartedAt: started,
	}

	hosts, err := s.candidates()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("scan cycle started",
		zap.String("scan_id", snap.ID),
		zap.Int("candidates", len(hosts)))

	results := s.probeAll(ctx, hosts)

	// one neighbor-table read per cycle, merged by address equality
	snap.Results = mergeARP(results, s.arp.Read(ctx))
	snap.Duration = time.Since(started)

	s.logger.Info("scan cycle completed",
		zap.String("scan_id", snap.ID),
		zap.Int("candidates", len(hosts)),
		zap.Int("discovered", len(snap.Results)),
		zap.Duration("duration", snap.Duration))

	return snap, nil
}

// mergeARP enriches probe results with neighbor-table MACs and keeps
// the devices considered seen this cycle, ordered by address. An ARP
// entry is populated by actual traffic exchange, so its presence counts
// as a liveness signal even when ping marked the address unreachable.
func mergeARP(results []types.ProbeResult, arpTable map[string]string) []types.ProbeResult {
	seen := make([]types.ProbeResult, 0, len(results))
	for _, res := range results {
		if mac, ok := arpTable[res.IP]; ok {
			res.MAC = mac
			res.Reachable = true
		}
		if res.Reachable {
			seen = append(seen, res)
		}
	}

	sort.Slice(seen, func(i, j int) bool {
		return utils.CompareIPv4(seen[i].IP, seen[j].IP) < 0
	})
	return seen
}

// candidates computes the target address set from the configured or
// discovered local IPv4 address
func (s *Scanner) candidates() ([]string, error) {
	var ip net.IP
	if s.config.SourceIP != "" {
		ip = net.ParseIP(s.config.SourceIP)
		if ip == nil {
			return nil, fmt.Errorf("invalid source IP %q", s.config.SourceIP)
		}
	} else {
		var err error
		ip, err = s.localIP()
		if err != nil {
			return nil, fmt.Errorf("failed to discover local address: %w", err)
		}
	}

	return EnumerateHosts(ip, s.config.PrefixLen)
}

// probeAll fans the prober out over all candidates, capped by the
// configured concurrency so a /24 sweep cannot exhaust process limits
func (s *Scanner) probeAll(ctx context.Context, hosts []string) []types.ProbeResult {
	sem := semaphore.NewWeighted(int64(s.config.Concurrency))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]types.ProbeResult, 0, len(hosts))
	)

	for _, ip := range hosts {
		if err := sem.Acquire(ctx, 1); err != nil {
			// context canceled, abandon the remaining candidates
			break
		}

		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			defer sem.Release(1)

			res := s.prober.Probe(ctx, ip)

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(ip)
	}

	wg.Wait()
	return results
}
