package geogen

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"

	"github.com/Sh00ty/leader-geo/internal/geo"
	"github.com/Sh00ty/leader-geo/internal/models"
)

const labelLang = "en"

type CityLookup interface {
	City(ip net.IP) (*geoip2.City, error)
}

type Stats struct {
	Nodes      int
	NoAddress  int
	NotPublic  int
	Unresolved int
	Resolved   int
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"nodes=%d resolved=%d unresolved=%d no_address=%d not_public=%d",
		s.Nodes, s.Resolved, s.Unresolved, s.NoAddress, s.NotPublic,
	)
}

// Build geolocates every node ip it can. Ips are picked the same way the
// serving cache picks them, so the produced keys match serving lookups.
func Build(nodes []models.ClusterNode, db CityLookup) (map[string]models.GeoEntry, Stats) {
	var (
		stats   = Stats{Nodes: len(nodes)}
		entries = make(map[string]models.GeoEntry, len(nodes))
	)
	for _, node := range nodes {
		ip, ok := node.PreferredIP()
		if !ok {
			stats.NoAddress++
			continue
		}
		if !isPublic(ip) {
			stats.NotPublic++
			continue
		}
		entry, err := locate(db, ip)
		if err != nil {
			log.Debug().Err(err).Msgf("skip node %s", node.Pubkey)
			stats.Unresolved++
			continue
		}
		entries[ip.String()] = entry
		stats.Resolved++
	}
	return entries, stats
}

func locate(db CityLookup, ip netip.Addr) (models.GeoEntry, error) {
	record, err := db.City(net.IP(ip.AsSlice()))
	if err != nil {
		return models.GeoEntry{}, fmt.Errorf("failed to lookup %s: %w", ip, err)
	}
	label := cityLabel(record)
	if label == "" {
		return models.GeoEntry{}, fmt.Errorf("no city or country known for %s", ip)
	}
	region := geo.RegionFor(ip.String())
	if record.Location.Latitude != 0 || record.Location.Longitude != 0 {
		region = geo.NearestRegion(record.Location.Latitude, record.Location.Longitude)
	}
	return models.GeoEntry{
		Geo:           label,
		ClosestRegion: region,
	}, nil
}

func cityLabel(record *geoip2.City) string {
	var (
		city    = record.City.Names[labelLang]
		country = record.Country.Names[labelLang]
	)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case country != "":
		return country
	}
	return city
}

func isPublic(ip netip.Addr) bool {
	return ip.IsValid() &&
		!ip.IsLoopback() &&
		!ip.IsUnspecified() &&
		!ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsMulticast()
}

// Merge keeps old entries for ips that were not seen in this run.
// Fresh entries win.
func Merge(old, fresh map[string]models.GeoEntry) map[string]models.GeoEntry {
	result := make(map[string]models.GeoEntry, len(old)+len(fresh))
	for ip, entry := range old {
		result[ip] = entry
	}
	for ip, entry := range fresh {
		result[ip] = entry
	}
	return result
}
