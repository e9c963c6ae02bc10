// Package ranging provides observation sources for the beacon scanner.
package ranging

import (
	"errors"
	"runtime"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/SagarSDagdu/SDBeaconScanner/pkg/beacon"
)

var adapter = bluetooth.DefaultAdapter

// DefaultInterval is the default batch delivery interval.
const DefaultInterval = time.Second

// A Bluetooth ranger observes iBeacon advertisements using the hosts
// Bluetooth adapter. Received advertisements are decoded, filtered by
// region and delivered in batches on every interval. An empty batch is
// delivered if nothing was received during an interval.
type Bluetooth struct {
	Interval time.Duration

	mutex   sync.Mutex
	stop    chan struct{}
	pending []beacon.Observation
}

// NewBluetooth creates and returns a new Bluetooth ranger.
func NewBluetooth() *Bluetooth {
	return &Bluetooth{
		Interval: DefaultInterval,
	}
}

// Available returns whether Bluetooth scanning is supported on the current
// platform.
func (b *Bluetooth) Available() bool {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		return true
	default:
		return false
	}
}

// Start begins emitting observation batches for the given region.
func (b *Bluetooth) Start(region beacon.Region, sink beacon.Sink) error {
	// enable adapter
	err := adapter.Enable()
	if err != nil && !strings.Contains(err.Error(), "already calling Enable function") {
		return err
	}

	// acquire mutex
	b.mutex.Lock()
	defer b.mutex.Unlock()

	// check state
	if b.stop != nil {
		return errors.New("already emitting")
	}

	// prepare stop channel
	stop := make(chan struct{})
	b.stop = stop

	// observe advertisements
	go func() {
		err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			for _, md := range result.ManufacturerData() {
				// decode frame
				frame, ok := ParseFrame(md.CompanyID, md.Data)
				if !ok {
					continue
				}

				// build observation
				obs := frame.Observation(int(result.RSSI), time.Now())

				// check region
				if !region.Matches(obs) {
					continue
				}

				// queue observation
				b.mutex.Lock()
				b.pending = append(b.pending, obs)
				b.mutex.Unlock()
			}
		})
		if err != nil {
			select {
			case <-stop:
			default:
				sink.Fail(err)
			}
		}
	}()

	// deliver batches
	go func() {
		// prepare ticker
		ticker := time.NewTicker(b.Interval)
		defer ticker.Stop()

		for {
			// await tick
			select {
			case <-stop:
				return
			case <-ticker.C:
			}

			// swap pending batch
			b.mutex.Lock()
			batch := b.pending
			b.pending = nil
			b.mutex.Unlock()

			// deliver batch
			sink.Deliver(batch)
		}
	}()

	return nil
}

// Stop halts emission. It is safe to call when not emitting.
func (b *Bluetooth) Stop(region beacon.Region) {
	// acquire mutex
	b.mutex.Lock()

	// check state
	if b.stop == nil {
		b.mutex.Unlock()
		return
	}

	// halt goroutines
	close(b.stop)
	b.stop = nil
	b.pending = nil

	// release mutex before reaching into the adapter, whose backend may
	// synchronize with an in-flight scan callback
	b.mutex.Unlock()

	// halt scan
	_ = adapter.StopScan()
}
