package models

import "fmt"

type Region string

const (
	Frankfurt Region = "Frankfurt"
	Dubai     Region = "Dubai"
	NewYork   Region = "NewYork"
	Tokyo     Region = "Tokyo"
)

// AllRegions is ordered by fallback bucket: index i is the region for hash%4 == i.
var AllRegions = [...]Region{Frankfurt, Dubai, NewYork, Tokyo}

func (r Region) String() string {
	return string(r)
}

func (r Region) IsValid() bool {
	switch r {
	case Frankfurt, Dubai, NewYork, Tokyo:
		return true
	}
	return false
}

func ParseRegion(s string) (Region, error) {
	r := Region(s)
	if !r.IsValid() {
		return "", fmt.Errorf("unknown region %q", s)
	}
	return r, nil
}

func (r Region) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("unknown region %q", string(r))
	}
	return []byte(r), nil
}

func (r *Region) UnmarshalText(text []byte) error {
	parsed, err := ParseRegion(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
