package georesolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Sh00ty/leader-geo/internal/geo"
	"github.com/Sh00ty/leader-geo/internal/leader"
	"github.com/Sh00ty/leader-geo/internal/metrics"
	"github.com/Sh00ty/leader-geo/internal/models"
)

// ErrUpstream marks failures of the cluster rpc: transport errors and a missing
// leader schedule.
var ErrUpstream = errors.New("upstream failure")

// region reported when the leader ip is unknown or unusable
const unknownIPRegion = models.Tokyo

type Resolver struct {
	rpc        RPCClient
	clusterIPs ClusterIPs
	table      GeoTable
	misses     *MissCounter
	opts       option
}

// NewResolver wires the resolver. misses may be shared between resolvers,
// nil gives the resolver a counter of its own.
func NewResolver(rpc RPCClient, clusterIPs ClusterIPs, table GeoTable, misses *MissCounter, options ...Option) *Resolver {
	opts := option{
		missWarnThreshold: DefaultMissWarnThreshold,
		metrics:           metrics.Nop{},
	}
	for _, opt := range options {
		opt(&opts)
	}
	if misses == nil {
		misses = &MissCounter{}
	}
	return &Resolver{
		rpc:        rpc,
		clusterIPs: clusterIPs,
		table:      table,
		misses:     misses,
		opts:       opts,
	}
}

// Resolve finds the leader of the current slot and its approximate location.
// Upstream errors are returned as is, there is no retry here.
func (r *Resolver) Resolve(ctx context.Context) (models.ResolutionResult, error) {
	start := time.Now()

	requestID, err := uuid.GenerateUUID()
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate request id")
	}
	logger := log.With().Str("request_id", requestID).Logger()

	result, err := r.resolve(ctx, &logger)
	if err != nil {
		r.opts.metrics.Increment("resolve.error")
		logger.Warn().Err(err).Msg("failed to resolve leader geo")
		return models.ResolutionResult{}, err
	}
	r.opts.metrics.Increment("resolve.ok")
	r.opts.metrics.Duration("resolve.duration", time.Since(start))

	logger.Debug().Msgf("resolved leader %s of slot %d: geo=%q region=%s", result.Leader, result.Slot, result.LeaderGeo, result.ClosestRegion)
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, logger *zerolog.Logger) (models.ResolutionResult, error) {
	var (
		slot      uint64
		epochInfo models.EpochInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		slot, err = r.rpc.GetSlot(gctx)
		if err != nil {
			return fmt.Errorf("%w: failed to get slot: %w", ErrUpstream, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		epochInfo, err = r.rpc.GetEpochInfo(gctx)
		if err != nil {
			return fmt.Errorf("%w: failed to get epoch info: %w", ErrUpstream, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.ResolutionResult{}, err
	}

	schedule, ok, err := r.rpc.GetLeaderSchedule(ctx, slot)
	if err != nil {
		return models.ResolutionResult{}, fmt.Errorf("%w: failed to get leader schedule for slot %d: %w", ErrUpstream, slot, err)
	}
	if !ok {
		return models.ResolutionResult{}, fmt.Errorf("%w: no leader schedule for slot %d", ErrUpstream, slot)
	}

	leaderID, err := leader.Resolve(slot, epochInfo.SlotIndex, schedule)
	if err != nil {
		return models.ResolutionResult{}, err
	}

	ips, err := r.clusterIPs.IPByIdentity(ctx)
	if err != nil {
		return models.ResolutionResult{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result := models.ResolutionResult{
		Slot:   slot,
		Leader: leaderID,
	}
	ip, found := ips[leaderID]
	switch {
	case !found || !ip.IsValid() || ip.IsLoopback() || ip.IsUnspecified():
		r.opts.metrics.Increment("geo.unknown_ip")
		logger.Debug().Msgf("no usable ip for leader %s (found=%t ip=%s)", leaderID, found, ip)

		result.LeaderGeo = models.UnknownGeo
		result.ClosestRegion = unknownIPRegion
	default:
		ipStr := ip.String()
		entry, known := r.table.Lookup(ipStr)
		if known {
			result.LeaderGeo = entry.Geo
			result.ClosestRegion = entry.ClosestRegion
			break
		}
		misses := r.misses.Inc()
		r.opts.metrics.Increment("geo.miss")
		logger.Debug().Msgf("leader ip %s is not in geo table, misses so far: %d", ipStr, misses)

		result.LeaderGeo = models.UnknownGeo
		result.ClosestRegion = geo.RegionFor(ipStr)
	}

	if misses := r.misses.Load(); misses > r.opts.missWarnThreshold {
		logger.Warn().Msgf("geo table missed %d leader ips, consider regenerating it", misses)
	}
	return result, nil
}
