package models

// UnknownGeo is reported when the leader could not be mapped to a known location.
const UnknownGeo = "UNKNOWN"

type GeoEntry struct {
	Geo           string `json:"geo"`
	ClosestRegion Region `json:"closest_region"`
}

type ResolutionResult struct {
	Slot          uint64 `json:"slot"`
	Leader        string `json:"leader"`
	LeaderGeo     string `json:"leader_geo"`
	ClosestRegion Region `json:"closest_region"`
}
