// Package beacon implements a time bounded scanner for iBeacon regions.
package beacon

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Proximity classifies how close an observed beacon is. The zero value is
// the nearest class, which makes the ordinal directly usable as a sort key.
type Proximity int

// The available proximity classes, ordered from nearest to farthest.
const (
	ProximityImmediate Proximity = iota
	ProximityNear
	ProximityFar
	ProximityUnknown
)

// String returns the name of the proximity class.
func (p Proximity) String() string {
	switch p {
	case ProximityImmediate:
		return "immediate"
	case ProximityNear:
		return "near"
	case ProximityFar:
		return "far"
	default:
		return "unknown"
	}
}

// MarshalYAML encodes the proximity class by name.
func (p Proximity) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// A Key identifies a single beacon. Two observations with the same key
// describe the same physical beacon.
type Key struct {
	UUID  uuid.UUID
	Major uint16
	Minor uint16
}

// An Observation is a single reading of a beacon as pushed by a Ranger.
type Observation struct {
	UUID      uuid.UUID
	Major     uint16
	Minor     uint16
	RSSI      int
	Proximity Proximity
	Accuracy  float64
	Timestamp time.Time
}

// Key returns the identity key of the observed beacon.
func (o Observation) Key() Key {
	return Key{
		UUID:  o.UUID,
		Major: o.Major,
		Minor: o.Minor,
	}
}

// A Report describes one beacon in the final result of a scan.
type Report struct {
	UUID      string    `yaml:"uuid"`
	Major     uint16    `yaml:"major"`
	Minor     uint16    `yaml:"minor"`
	RSSI      int       `yaml:"rssi"`
	Proximity Proximity `yaml:"proximity"`
	Accuracy  float64   `yaml:"accuracy"`
	LastSeen  int64     `yaml:"last_seen"`
}

func (o Observation) report() Report {
	return Report{
		UUID:      strings.ToUpper(o.UUID.String()),
		Major:     o.Major,
		Minor:     o.Minor,
		RSSI:      o.RSSI,
		Proximity: o.Proximity,
		Accuracy:  o.Accuracy,
		LastSeen:  o.Timestamp.UnixMilli(),
	}
}
