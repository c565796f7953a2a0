package inmemory

import (
	"context"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Sh00ty/leader-geo/internal/metrics"
	"github.com/Sh00ty/leader-geo/internal/models"
)

const refreshKey = "cluster-nodes"

type ClusterNodesSource interface {
	GetClusterNodes(ctx context.Context) ([]models.ClusterNode, error)
}

// ClusterIPCache keeps the node identity -> ip mapping for at most one ttl.
// The lock only guards the snapshot pointer, fetches run without it.
type ClusterIPCache struct {
	source ClusterNodesSource
	opts   option

	mu       *sync.Mutex
	snapshot *models.ClusterIPSnapshot

	refresh singleflight.Group
}

func NewClusterIPCache(source ClusterNodesSource, options ...Option) *ClusterIPCache {
	opts := option{
		ttl:     DefaultClusterNodesTTL,
		now:     time.Now,
		metrics: metrics.Nop{},
	}
	for _, opt := range options {
		opt(&opts)
	}
	return &ClusterIPCache{
		source: source,
		opts:   opts,
		mu:     &sync.Mutex{},
	}
}

// IPByIdentity returns a copy of the current mapping, refreshing it from the
// source when the stored snapshot is older than ttl. On refresh failure the
// stored snapshot stays as it was and the error is returned.
//
// Concurrent callers share one refresh. The shared fetch is detached from the
// caller that started it, every caller only waits as long as its own ctx allows.
func (c *ClusterIPCache) IPByIdentity(ctx context.Context) (map[string]netip.Addr, error) {
	if snap, ok := c.freshSnapshot(); ok {
		return snap.Clone(), nil
	}
	fetchCtx := context.WithoutCancel(ctx)
	resCh := c.refresh.DoChan(refreshKey, func() (any, error) {
		// refresh may have finished between our check and DoChan
		if snap, ok := c.freshSnapshot(); ok {
			return snap, nil
		}
		return c.fetch(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to wait for cluster nodes refresh: %w", ctx.Err())
	case res := <-resCh:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Msg("joined in-flight cluster nodes refresh")
		}
		return res.Val.(*models.ClusterIPSnapshot).Clone(), nil
	}
}

// Snapshot returns the stored snapshot without refreshing it.
func (c *ClusterIPCache) Snapshot() (models.ClusterIPSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snapshot == nil {
		return models.ClusterIPSnapshot{}, false
	}
	return models.ClusterIPSnapshot{
		FetchedAt:    c.snapshot.FetchedAt,
		IPByIdentity: c.snapshot.Clone(),
	}, true
}

func (c *ClusterIPCache) freshSnapshot() (*models.ClusterIPSnapshot, bool) {
	c.mu.Lock()
	snap := c.snapshot
	c.mu.Unlock()

	if snap == nil {
		return nil, false
	}
	return snap, c.opts.now().Sub(snap.FetchedAt) <= c.opts.ttl
}

func (c *ClusterIPCache) fetch(ctx context.Context) (*models.ClusterIPSnapshot, error) {
	nodes, err := c.source.GetClusterNodes(ctx)
	if err != nil {
		c.opts.metrics.Increment("cluster_nodes.refresh_error")
		return nil, fmt.Errorf("failed to fetch cluster nodes: %w", err)
	}
	snap := &models.ClusterIPSnapshot{
		IPByIdentity: ipsByIdentity(nodes),
	}

	c.mu.Lock()
	snap.FetchedAt = c.opts.now()
	c.snapshot = snap
	c.mu.Unlock()

	c.opts.metrics.Increment("cluster_nodes.refresh")
	c.opts.metrics.Gauge("cluster_nodes.count", len(snap.IPByIdentity))
	log.Info().Msgf("refreshed cluster nodes: %d of %d nodes have an address", len(snap.IPByIdentity), len(nodes))
	return snap, nil
}

func ipsByIdentity(nodes []models.ClusterNode) map[string]netip.Addr {
	result := make(map[string]netip.Addr, len(nodes))
	for _, node := range nodes {
		ip, ok := node.PreferredIP()
		if !ok {
			continue
		}
		result[node.Pubkey] = ip
	}
	return result
}
