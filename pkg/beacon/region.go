package beacon

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// A Region describes the set of beacons a scan is interested in. The UUID is
// always matched, the major and minor values only if set.
type Region struct {
	UUID  uuid.UUID
	Major *uint16
	Minor *uint16
}

// ParseRegion parses the provided identifier and returns a region narrowed
// by the optional major and minor values. It returns ErrInvalidUUID if the
// identifier is not a well-formed UUID.
func ParseRegion(id string, major, minor *uint16) (Region, error) {
	// parse identifier
	u, err := uuid.Parse(id)
	if err != nil {
		return Region{}, ErrInvalidUUID
	}

	return Region{
		UUID:  u,
		Major: major,
		Minor: minor,
	}, nil
}

// Matches returns whether the observation falls into the region.
func (r Region) Matches(obs Observation) bool {
	// check identifier
	if r.UUID != obs.UUID {
		return false
	}

	// check major
	if r.Major != nil && *r.Major != obs.Major {
		return false
	}

	// check minor
	if r.Minor != nil && *r.Minor != obs.Minor {
		return false
	}

	return true
}

// String returns a compact description of the region.
func (r Region) String() string {
	// prepare builder
	var b strings.Builder
	b.WriteString(strings.ToUpper(r.UUID.String()))

	// append major
	if r.Major != nil {
		fmt.Fprintf(&b, "/%d", *r.Major)
	}

	// append minor
	if r.Minor != nil {
		fmt.Fprintf(&b, "/%d", *r.Minor)
	}

	return b.String()
}
