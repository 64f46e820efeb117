package valueobject

import (
	"fmt"
	"strconv"
	"strings"
)

// PinPoint is a value object representing a geographic point as "lat,lon"
// It is used when requesting shipping rates from the logistics aggregator
type PinPoint struct {
	lat float64
	lon float64
	set bool
}

// NewPinPoint creates a PinPoint from latitude and longitude
func NewPinPoint(lat, lon float64) (PinPoint, error) {
	if lat < -90 || lat > 90 {
		return PinPoint{}, fmt.Errorf("latitude %f out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return PinPoint{}, fmt.Errorf("longitude %f out of range [-180, 180]", lon)
	}
	return PinPoint{lat: lat, lon: lon, set: true}, nil
}

// ParsePinPoint parses a "lat,lon" string into a PinPoint
// An empty string yields the zero PinPoint without error
func ParsePinPoint(s string) (PinPoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PinPoint{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return PinPoint{}, fmt.Errorf("invalid pin point %q, expected \"lat,lon\"", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return PinPoint{}, fmt.Errorf("invalid pin point latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return PinPoint{}, fmt.Errorf("invalid pin point longitude: %w", err)
	}
	return NewPinPoint(lat, lon)
}

// Lat returns the latitude
func (p PinPoint) Lat() float64 { return p.lat }

// Lon returns the longitude
func (p PinPoint) Lon() float64 { return p.lon }

// IsZero returns true if the pin point has not been set
func (p PinPoint) IsZero() bool { return !p.set }

// String returns the "lat,lon" wire representation, or "" when unset
func (p PinPoint) String() string {
	if !p.set {
		return ""
	}
	return strconv.FormatFloat(p.lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.lon, 'f', -1, 64)
}
