package leader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sh00ty/leader-geo/internal/models"
)

var ErrLeaderNotFound = errors.New("leader not found in schedule")

// Resolve returns the identity scheduled to lead slotIndex. Slot index sets are
// expected to be disjoint; if they overlap the lexicographically smallest
// identity wins so the answer does not depend on map iteration order.
func Resolve(slot, slotIndex uint64, schedule models.LeaderSchedule) (string, error) {
	identities := make([]string, 0, len(schedule))
	for identity := range schedule {
		identities = append(identities, identity)
	}
	slices.Sort(identities)

	for _, identity := range identities {
		if slices.Contains(schedule[identity], slotIndex) {
			return identity, nil
		}
	}
	return "", fmt.Errorf("%w: slot=%d slot_index=%d", ErrLeaderNotFound, slot, slotIndex)
}
