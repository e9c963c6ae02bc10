package ranging

import (
	"errors"
	"sync"
	"time"

	"github.com/SagarSDagdu/SDBeaconScanner/pkg/beacon"
)

// An Event describes one scripted emission of a simulated ranger. After is
// the delay relative to the previous event. An event either delivers its
// batch or reports its error, which also ends the script.
type Event struct {
	After time.Duration
	Batch []beacon.Observation
	Err   error
}

// A Simulated ranger replays a script of events. It is used to exercise
// the scanner on hosts without a Bluetooth adapter and in tests. Batches
// are filtered by the scanned region like a real ranger would.
type Simulated struct {
	script []Event

	mutex sync.Mutex
	stop  chan struct{}
}

// NewSimulated creates and returns a new Simulated ranger replaying the
// provided script.
func NewSimulated(script ...Event) *Simulated {
	return &Simulated{
		script: script,
	}
}

// Available returns always true.
func (s *Simulated) Available() bool {
	return true
}

// Start begins replaying the script for the given region.
func (s *Simulated) Start(region beacon.Region, sink beacon.Sink) error {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// check state
	if s.stop != nil {
		return errors.New("already emitting")
	}

	// prepare stop channel
	stop := make(chan struct{})
	s.stop = stop

	// replay script
	go func() {
		for _, event := range s.script {
			// await event
			select {
			case <-stop:
				return
			case <-time.After(event.After):
			}

			// report failure
			if event.Err != nil {
				sink.Fail(event.Err)
				return
			}

			// filter batch
			var batch []beacon.Observation
			for _, obs := range event.Batch {
				if region.Matches(obs) {
					batch = append(batch, obs)
				}
			}

			// deliver batch
			sink.Deliver(batch)
		}
	}()

	return nil
}

// Stop halts the replay. It is safe to call when not emitting.
func (s *Simulated) Stop(region beacon.Region) {
	// acquire mutex
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// check state
	if s.stop == nil {
		return
	}

	// halt replay
	close(s.stop)
	s.stop = nil
}

// DemoScript returns a script that emits a handful of beacons in the given
// region and settles after the scanners warm-up window, allowing a scan to
// end early.
func DemoScript(region beacon.Region) []Event {
	// derive narrowing values
	major := uint16(1)
	if region.Major != nil {
		major = *region.Major
	}
	minor := uint16(1)
	if region.Minor != nil {
		minor = *region.Minor
	}

	// prepare observation constructor
	obs := func(minor uint16, rssi int, power int8) beacon.Observation {
		frame := Frame{
			UUID:  region.UUID,
			Major: major,
			Minor: minor,
			Power: power,
		}
		return frame.Observation(rssi, time.Now())
	}

	return []Event{
		{After: 100 * time.Millisecond, Batch: []beacon.Observation{
			obs(minor, -48, -59),
			obs(minor+1, -72, -59),
		}},
		{After: 2 * time.Second, Batch: []beacon.Observation{
			obs(minor, -50, -59),
			obs(minor+2, -85, -59),
		}},
		{After: 4 * time.Second, Batch: []beacon.Observation{
			obs(minor, -49, -59),
			obs(minor+1, -70, -59),
		}},
	}
}
