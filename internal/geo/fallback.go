package geo

import "github.com/Sh00ty/leader-geo/internal/models"

// RegionFor spreads ips that are missing from the table evenly over the
// known regions. Same ip always lands in the same region.
func RegionFor(ip string) models.Region {
	bucket := Hash([]byte(ip)) % uint64(len(models.AllRegions))
	return models.AllRegions[bucket]
}
