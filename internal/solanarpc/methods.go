package solanarpc

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Sh00ty/leader-geo/internal/models"
)

func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	// pointer out so that a null result is not read as slot 0
	var out *uint64
	err := c.do(ctx, "getSlot", func(ctx context.Context) error {
		return c.rpc.RPCCallForInto(ctx, &out, "getSlot", c.commitmentParams())
	})
	if err != nil {
		return 0, err
	}
	if out == nil {
		return 0, fmt.Errorf("%w: getSlot", ErrNullResult)
	}
	return *out, nil
}

func (c *Client) GetEpochInfo(ctx context.Context) (models.EpochInfo, error) {
	var out *rpc.GetEpochInfoResult
	err := c.do(ctx, "getEpochInfo", func(ctx context.Context) error {
		var err error
		out, err = c.rpc.GetEpochInfo(ctx, c.commitment)
		return err
	})
	if err != nil {
		return models.EpochInfo{}, err
	}
	if out == nil {
		return models.EpochInfo{}, fmt.Errorf("%w: getEpochInfo", ErrNullResult)
	}
	return models.EpochInfo{
		AbsoluteSlot: out.AbsoluteSlot,
		BlockHeight:  out.BlockHeight,
		Epoch:        out.Epoch,
		SlotIndex:    out.SlotIndex,
		SlotsInEpoch: out.SlotsInEpoch,
	}, nil
}

// GetLeaderSchedule returns the schedule of the epoch containing slot.
// ok is false when the node has no schedule for that epoch.
func (c *Client) GetLeaderSchedule(ctx context.Context, slot uint64) (models.LeaderSchedule, bool, error) {
	var out rpc.GetLeaderScheduleResult
	err := c.do(ctx, "getLeaderSchedule", func(ctx context.Context) error {
		params := append([]any{slot}, c.commitmentParams()...)
		return c.rpc.RPCCallForInto(ctx, &out, "getLeaderSchedule", params)
	})
	if err != nil {
		return nil, false, err
	}
	if out == nil {
		return nil, false, nil
	}
	schedule := make(models.LeaderSchedule, len(out))
	for identity, slots := range out {
		schedule[identity.String()] = slots
	}
	return schedule, true, nil
}

// GetClusterNodes decodes into models.ClusterNode because the library result
// type has no tvu address.
func (c *Client) GetClusterNodes(ctx context.Context) ([]models.ClusterNode, error) {
	var out []models.ClusterNode
	err := c.do(ctx, "getClusterNodes", func(ctx context.Context) error {
		return c.rpc.RPCCallForInto(ctx, &out, "getClusterNodes", nil)
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: getClusterNodes", ErrNullResult)
	}
	return out, nil
}
