package models

import (
	"fmt"
	"maps"
	"net/netip"
	"time"
)

type EpochInfo struct {
	AbsoluteSlot uint64 `json:"absoluteSlot"`
	BlockHeight  uint64 `json:"blockHeight"`
	Epoch        uint64 `json:"epoch"`
	SlotIndex    uint64 `json:"slotIndex"`
	SlotsInEpoch uint64 `json:"slotsInEpoch"`
}

// LeaderSchedule maps node identity to the slot indexes it leads within one epoch.
type LeaderSchedule map[string][]uint64

// ClusterNode is one entry of the cluster topology. Addresses are "host:port"
// strings, nil when the node does not advertise the endpoint.
type ClusterNode struct {
	Pubkey  string  `json:"pubkey"`
	Gossip  *string `json:"gossip"`
	TPU     *string `json:"tpu"`
	RPC     *string `json:"rpc"`
	TVU     *string `json:"tvu"`
	Version *string `json:"version"`
}

// PreferredIP returns the ip of the first advertised endpoint in order
// gossip, tpu, rpc, tvu. Endpoints that do not parse are skipped.
func (n ClusterNode) PreferredIP() (netip.Addr, bool) {
	for _, addr := range []*string{n.Gossip, n.TPU, n.RPC, n.TVU} {
		if addr == nil {
			continue
		}
		ip, err := ParseEndpointIP(*addr)
		if err != nil {
			continue
		}
		return ip, true
	}
	return netip.Addr{}, false
}

// ParseEndpointIP accepts "ip:port", "[ipv6]:port" and bare ips.
func ParseEndpointIP(endpoint string) (netip.Addr, error) {
	addrPort, err := netip.ParseAddrPort(endpoint)
	if err == nil {
		return addrPort.Addr().Unmap(), nil
	}
	ip, ipErr := netip.ParseAddr(endpoint)
	if ipErr != nil {
		return netip.Addr{}, fmt.Errorf("failed to parse endpoint %q: %w", endpoint, err)
	}
	return ip.Unmap(), nil
}

type ClusterIPSnapshot struct {
	FetchedAt    time.Time
	IPByIdentity map[string]netip.Addr
}

func (s *ClusterIPSnapshot) Clone() map[string]netip.Addr {
	return maps.Clone(s.IPByIdentity)
}
