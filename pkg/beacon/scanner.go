package beacon

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/SagarSDagdu/SDBeaconScanner/pkg/utils"
)

// DefaultTimeout is used by BeginScan if no timeout is specified.
const DefaultTimeout = 15 * time.Second

// warmUp is the minimum elapsed scan time before a stable collection may
// end a scan early.
const warmUp = 5 * time.Second

// A Callback receives the final result of a scan. It is invoked exactly
// once per call to BeginScan.
type Callback func(reports []Report, err error)

// A Ranger emits beacon observations for a region. Implementations deliver
// batches and failures asynchronously through the provided sink until Stop
// is called. Stop must be idempotent, and neither Start nor Stop may call
// into the sink synchronously.
type Ranger interface {
	Available() bool
	Start(region Region, sink Sink) error
	Stop(region Region)
}

// A Sink receives observation batches and failures from a Ranger.
type Sink interface {
	Deliver(batch []Observation)
	Fail(err error)
}

// A Scanner owns at most one active beacon scan at a time. It collects and
// deduplicates the observations emitted by a Ranger and reports a final
// snapshot once the scan ends. Scanners are created with NewScanner and
// are safe for concurrent use.
type Scanner struct {
	ranger Ranger
	out    io.Writer

	mutex    sync.Mutex
	gen      uint64
	region   *Region
	start    time.Time
	list     []Observation
	callback Callback
	timer    *time.Timer
	now      func() time.Time
}

// NewScanner creates and returns a new Scanner using the provided ranger.
// Internal conditions are logged to out if available.
func NewScanner(ranger Ranger, out io.Writer) *Scanner {
	return &Scanner{
		ranger: ranger,
		out:    out,
		now:    time.Now,
	}
}

// BeginScan starts a scan for beacons with the specified identifier,
// optionally narrowed by the major and minor values. The scan runs until
// the timeout elapses or the collection has stabilized, whichever comes
// first, and reports its result through the callback. A non-positive
// timeout selects DefaultTimeout.
//
// If a scan is already active it is terminated first and its callback
// receives an empty collection and no error. The callback is invoked
// synchronously with an error if the identifier is malformed or ranging is
// unavailable on the host.
func (s *Scanner) BeginScan(id string, major, minor *uint16, timeout time.Duration, callback Callback) {
	// acquire mutex
	s.mutex.Lock()

	// terminate active scan
	fin := s.terminate(nil, true)

	// release mutex
	s.mutex.Unlock()

	// report superseded scan
	if fin != nil {
		fin()
		fin = nil
	}

	// parse region
	region, err := ParseRegion(id, major, minor)
	if err != nil {
		callback([]Report{}, err)
		return
	}

	// check availability
	if !s.ranger.Available() {
		callback([]Report{}, ErrUnavailable)
		return
	}

	// set default timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// acquire mutex
	s.mutex.Lock()

	// terminate scan begun while unlocked
	fin = s.terminate(nil, true)

	// prepare state
	s.gen++
	s.region = &region
	s.start = s.now()
	s.list = nil
	s.callback = callback

	// capture generation
	gen := s.gen

	// arm deadline
	s.timer = time.AfterFunc(timeout, func() {
		s.expire(gen)
	})

	// start emission
	var finStart func()
	err = s.ranger.Start(region, &session{scanner: s, gen: gen})
	if err != nil {
		finStart = s.terminate(&RangingError{Err: err}, true)
	}

	// release mutex
	s.mutex.Unlock()

	// report superseded scan
	if fin != nil {
		fin()
	}

	// finish failed start
	if finStart != nil {
		finStart()
	}
}

// expire handles a fired deadline.
func (s *Scanner) expire(gen uint64) {
	// acquire mutex
	s.mutex.Lock()

	// ignore stale deadlines
	if gen != s.gen || s.callback == nil {
		s.mutex.Unlock()
		return
	}

	// terminate scan
	fin := s.terminate(nil, false)

	// release mutex
	s.mutex.Unlock()

	// finish termination
	if fin != nil {
		fin()
	}
}

// merge stores the observation and reports whether it was new. A known key
// replaces the stored entry and refreshes payload and timestamp.
func (s *Scanner) merge(obs Observation) bool {
	// replace existing entry
	for i, entry := range s.list {
		if entry.Key() == obs.Key() {
			s.list[i] = obs
			return false
		}
	}

	// insert new entry
	s.list = append(s.list, obs)

	return true
}

// terminate ends the active scan and clears all of its state. It must be
// called with the mutex held and returns a function that finishes the
// termination outside of the mutex, or nil if no scan is active. A discard
// set to true reports an empty collection.
func (s *Scanner) terminate(err error, discard bool) func() {
	// skip if idle
	if s.callback == nil {
		return nil
	}

	// cancel deadline
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	// invalidate pending sessions and deadlines
	s.gen++

	// map observations
	reports := []Report{}
	if !discard {
		reports = lo.Map(s.list, func(obs Observation, _ int) Report {
			return obs.report()
		})
	}

	// capture state
	region := s.region
	callback := s.callback

	// clear state
	s.region = nil
	s.start = time.Time{}
	s.list = nil
	s.callback = nil

	return func() {
		// stop emission
		if region != nil {
			s.ranger.Stop(*region)
		} else {
			utils.Log(s.out, "skipped stop of unarmed ranger")
		}

		// report result
		callback(reports, err)
	}
}

// A session routes the events of a single scan to its scanner. Events of a
// previous scan are dropped once a new scan has begun.
type session struct {
	scanner *Scanner
	gen     uint64
}

// Deliver merges a batch of observations into the collection. Past the
// warm-up window a batch that introduces no new beacon ends the scan with
// the current collection, provided the collection is non-empty. An empty
// batch counts the same as a batch of updates.
func (s *session) Deliver(batch []Observation) {
	sc := s.scanner

	// acquire mutex
	sc.mutex.Lock()

	// drop stale batches
	if s.gen != sc.gen || sc.callback == nil {
		sc.mutex.Unlock()
		return
	}

	// merge observations
	added := false
	for _, obs := range batch {
		if sc.merge(obs) {
			added = true
		}
	}

	// restore order
	sort.SliceStable(sc.list, func(i, j int) bool {
		return sc.list[i].Proximity < sc.list[j].Proximity
	})

	// check quiescence
	var fin func()
	if !added && len(sc.list) > 0 && sc.now().Sub(sc.start) >= warmUp {
		fin = sc.terminate(nil, false)
	}

	// release mutex
	sc.mutex.Unlock()

	// finish termination
	if fin != nil {
		fin()
	}
}

// Fail terminates the scan with a RangingError. Already collected
// observations are discarded.
func (s *session) Fail(err error) {
	sc := s.scanner

	// acquire mutex
	sc.mutex.Lock()

	// drop stale failures
	if s.gen != sc.gen || sc.callback == nil {
		sc.mutex.Unlock()
		return
	}

	// terminate scan
	fin := sc.terminate(&RangingError{Err: err}, true)

	// release mutex
	sc.mutex.Unlock()

	// finish termination
	if fin != nil {
		fin()
	}
}
