package ranging

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/SagarSDagdu/SDBeaconScanner/pkg/beacon"
)

// appleCompanyID is the Bluetooth SIG company identifier used by iBeacon
// advertisements.
const appleCompanyID = 0x004C

// iBeacon frames carry type 0x02 and a fixed payload length of 0x15.
const (
	frameType   = 0x02
	frameLength = 0x15
)

// A Frame is a decoded iBeacon advertisement frame. Power is the calibrated
// signal strength measured at one meter distance.
type Frame struct {
	UUID  uuid.UUID
	Major uint16
	Minor uint16
	Power int8
}

// ParseFrame decodes an iBeacon frame from the manufacturer specific data
// of an advertisement. The data is expected without the leading company
// identifier. It returns false if the data is not an iBeacon frame.
func ParseFrame(companyID uint16, data []byte) (Frame, bool) {
	// check company
	if companyID != appleCompanyID {
		return Frame{}, false
	}

	// check header
	if len(data) < 2+16+2+2+1 || data[0] != frameType || data[1] != frameLength {
		return Frame{}, false
	}

	// extract identifier
	var u uuid.UUID
	copy(u[:], data[2:18])

	return Frame{
		UUID:  u,
		Major: binary.BigEndian.Uint16(data[18:20]),
		Minor: binary.BigEndian.Uint16(data[20:22]),
		Power: int8(data[22]),
	}, true
}

// Accuracy estimates the distance to the beacon in meters from the received
// signal strength using the common log-distance ratio model. It returns -1
// if the signal strength is unusable.
func (f Frame) Accuracy(rssi int) float64 {
	// reject unusable readings
	if rssi == 0 || f.Power == 0 {
		return -1
	}

	// estimate distance
	ratio := float64(rssi) / float64(f.Power)
	if ratio < 1 {
		return math.Pow(ratio, 10)
	}

	return 0.89976*math.Pow(ratio, 7.7095) + 0.111
}

// Classify maps a distance estimate to a proximity class.
func Classify(accuracy float64) beacon.Proximity {
	switch {
	case accuracy < 0:
		return beacon.ProximityUnknown
	case accuracy <= 0.5:
		return beacon.ProximityImmediate
	case accuracy <= 4:
		return beacon.ProximityNear
	default:
		return beacon.ProximityFar
	}
}

// Observation converts the frame to an observation using the received
// signal strength and timestamp.
func (f Frame) Observation(rssi int, timestamp time.Time) beacon.Observation {
	// estimate distance
	accuracy := f.Accuracy(rssi)

	return beacon.Observation{
		UUID:      f.UUID,
		Major:     f.Major,
		Minor:     f.Minor,
		RSSI:      rssi,
		Proximity: Classify(accuracy),
		Accuracy:  accuracy,
		Timestamp: timestamp,
	}
}
