package georesolver

import (
	"context"
	"net/netip"

	"github.com/Sh00ty/leader-geo/internal/models"
)

type RPCClient interface {
	GetSlot(ctx context.Context) (uint64, error)
	GetEpochInfo(ctx context.Context) (models.EpochInfo, error)
	GetLeaderSchedule(ctx context.Context, slot uint64) (models.LeaderSchedule, bool, error)
}

type ClusterIPs interface {
	IPByIdentity(ctx context.Context) (map[string]netip.Addr, error)
}

type GeoTable interface {
	Lookup(ip string) (models.GeoEntry, bool)
}
