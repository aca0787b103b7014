package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/mrz1836/hdkit/internal/metrics"
)

// Computer produces a batch for a snapshot.
type Computer interface {
	Compute(snap Snapshot) (*Batch, error)
}

// Result is a published computation. Err is set when the snapshot could
// not be derived, in which case Batch is nil.
type Result struct {
	Generation uint64
	Snapshot   Snapshot
	Batch      *Batch
	Err        error
}

// SchedulerConfig holds the Scheduler's collaborators.
type SchedulerConfig struct {
	// Computer runs the pipeline. Required.
	Computer Computer

	// Debounce is the quiet period after the last Submit before computing.
	Debounce time.Duration

	// Clock drives the debounce timer. Defaults to the wall clock.
	Clock clock.Clock

	Metrics *metrics.Metrics
	Logger  Logger
}

// Scheduler holds the single current Snapshot and recomputes whenever it
// changes. Submissions that arrive within the debounce window coalesce, and
// a result whose snapshot was replaced while computing is discarded, so
// consumers only ever see the result for the latest input.
type Scheduler struct {
	cfg SchedulerConfig

	mu      sync.Mutex
	current Snapshot
	gen     uint64

	published atomic.Pointer[Result]

	kick    chan struct{}
	updates chan *Result
	quit    chan struct{}
	wg      sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewDefaultClock()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Global
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return &Scheduler{
		cfg:     cfg,
		kick:    make(chan struct{}, 1),
		updates: make(chan *Result, 1),
		quit:    make(chan struct{}),
	}
}

// Start launches the recompute loop.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Stop terminates the loop and waits for it to exit. A computation in
// progress finishes but is not published.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	s.wg.Wait()
}

// Submit replaces the current snapshot and returns its generation.
func (s *Scheduler) Submit(snap Snapshot) uint64 {
	s.mu.Lock()
	s.gen++
	s.current = snap
	gen := s.gen
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
	return gen
}

// Update applies edit to a copy of the current snapshot and submits it.
func (s *Scheduler) Update(edit func(*Snapshot)) uint64 {
	s.mu.Lock()
	snap := s.current
	s.mu.Unlock()

	edit(&snap)
	return s.Submit(snap)
}

// Latest returns the most recently published result, or nil.
func (s *Scheduler) Latest() *Result {
	return s.published.Load()
}

// Pending reports whether the latest submission has not been published yet.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	res := s.published.Load()
	if res == nil {
		return gen != 0
	}
	return res.Generation != gen
}

// Updates delivers published results. Only the newest undelivered result
// is buffered.
func (s *Scheduler) Updates() <-chan *Result {
	return s.updates
}

func (s *Scheduler) snapshot() (Snapshot, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.gen
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.kick:
		case <-s.quit:
			return
		}

		if !s.settle() {
			return
		}

		snap, gen := s.snapshot()
		s.cfg.Logger.Debug("recompute start generation=%d", gen)
		batch, err := s.cfg.Computer.Compute(snap)

		select {
		case <-s.quit:
			return
		default:
		}

		res := &Result{Generation: gen, Snapshot: snap, Batch: batch, Err: err}
		if latest, ok := s.storeIfCurrent(res); !ok {
			s.cfg.Metrics.RecordSuperseded()
			s.cfg.Logger.Debug("recompute superseded generation=%d latest=%d", gen, latest)
			continue
		}

		s.publish(res)
	}
}

// storeIfCurrent makes res the latest result unless a Submit has replaced
// its snapshot. The check and the store share s.mu with Submit.
func (s *Scheduler) storeIfCurrent(res *Result) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != res.Generation {
		return s.gen, false
	}
	s.published.Store(res)
	return s.gen, true
}

// settle waits until no Submit has arrived for the debounce period.
// It returns false if the scheduler is stopping.
func (s *Scheduler) settle() bool {
	for {
		select {
		case <-s.kick:
		case <-s.cfg.Clock.TickAfter(s.cfg.Debounce):
			return true
		case <-s.quit:
			return false
		}
	}
}

// publish delivers a stored result to Updates.
func (s *Scheduler) publish(res *Result) {
	s.cfg.Metrics.RecordPublished()
	s.cfg.Logger.Debug("recompute published generation=%d", res.Generation)

	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- res:
	default:
	}
}
