package geo

import (
	"math"

	"github.com/Sh00ty/leader-geo/internal/models"
)

const earthRadiusKm = 6371.0

type point struct {
	lat float64
	lon float64
}

// approximate city centers of the serving regions
var regionAnchors = map[models.Region]point{
	models.Frankfurt: {lat: 50.11, lon: 8.68},
	models.Dubai:     {lat: 25.20, lon: 55.27},
	models.NewYork:   {lat: 40.71, lon: -74.01},
	models.Tokyo:     {lat: 35.68, lon: 139.69},
}

// NearestRegion picks the region whose anchor has the smallest great-circle
// distance to the given coordinates. Ties go to the earlier region in AllRegions.
func NearestRegion(lat, lon float64) models.Region {
	var (
		best     = models.AllRegions[0]
		bestDist = math.Inf(1)
	)
	for _, region := range models.AllRegions {
		dist := distanceKm(point{lat: lat, lon: lon}, regionAnchors[region])
		if dist < bestDist {
			best, bestDist = region, dist
		}
	}
	return best
}

func distanceKm(a, b point) float64 {
	var (
		lat1 = a.lat * math.Pi / 180
		lat2 = b.lat * math.Pi / 180
		dLat = lat2 - lat1
		dLon = (b.lon - a.lon) * math.Pi / 180
	)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
