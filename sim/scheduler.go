package sim

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TickFunc runs on every timer firing and returns the delay until the next one.
// A zero or negative delay stops the timer.
type TickFunc func() time.Duration

// Timer is a self-rescheduling periodic timer.
// A firing re-arms the timer only after its callback returns, so callbacks
// never overlap.
type Timer struct {
	fn TickFunc

	// run is held for the duration of a callback
	run sync.Mutex

	mu      sync.Mutex
	t       *time.Timer
	stopped bool
	done    chan struct{}

	fired atomic.Uint64
	log   *zap.Logger
}

// SchedulePeriodic calls fn after interval and keeps calling it after
// whatever delay fn returns.
func SchedulePeriodic(interval time.Duration, fn TickFunc, log *zap.Logger) *Timer {
	if log == nil {
		log = zap.NewNop()
	}
	tm := &Timer{
		fn:   fn,
		done: make(chan struct{}),
		log:  log,
	}
	if interval <= 0 {
		tm.finish()
		return tm
	}
	tm.mu.Lock()
	tm.t = time.AfterFunc(interval, tm.fire)
	tm.mu.Unlock()
	return tm
}

func (tm *Timer) fire() {
	tm.run.Lock()
	tm.mu.Lock()
	stopped := tm.stopped
	tm.mu.Unlock()
	if stopped {
		tm.run.Unlock()
		return
	}

	next := tm.call()
	tm.fired.Add(1)
	tm.run.Unlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tm.stopped {
		return
	}
	if next <= 0 {
		tm.finishLocked()
		return
	}
	tm.t = time.AfterFunc(next, tm.fire)
}

// call runs the callback; a panicking tick stops the timer instead of the process
func (tm *Timer) call() (next time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			tm.log.Error("tick panicked, timer stopped", zap.String("panic", fmt.Sprint(r)))
			next = 0
		}
	}()
	return tm.fn()
}

func (tm *Timer) finish() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.finishLocked()
}

func (tm *Timer) finishLocked() {
	if tm.stopped {
		return
	}
	tm.stopped = true
	close(tm.done)
}

// Stop cancels future firings and waits for a running callback to return.
// It must not be called from inside the callback; return 0 there instead.
func (tm *Timer) Stop() {
	tm.mu.Lock()
	if tm.t != nil {
		tm.t.Stop()
	}
	tm.finishLocked()
	tm.mu.Unlock()

	// Wait out an in-flight callback.
	tm.run.Lock()
	tm.run.Unlock()
}

// Done is closed once the timer will not fire again
func (tm *Timer) Done() <-chan struct{} {
	return tm.done
}

// Fired returns the number of completed callbacks
func (tm *Timer) Fired() uint64 {
	return tm.fired.Load()
}

// Scheduler drives registry updates, and optionally spawning, at a fixed
// wall-clock period independent of the frame rate.
type Scheduler struct {
	registry *Registry
	spawner  *Spawner
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	timer   *Timer
	onTick  func(Snapshot)
	started bool
}

// NewScheduler creates a scheduler. spawner may be nil when the population
// is only seeded at startup.
func NewScheduler(registry *Registry, spawner *Spawner, interval time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		registry: registry,
		spawner:  spawner,
		interval: interval,
		log:      log,
	}
}

// OnTick registers a hook called after each update with the published
// snapshot. It must be set before Start.
func (s *Scheduler) OnTick(fn func(Snapshot)) {
	s.onTick = fn
}

// Start arms the timer. Calling it twice has no effect.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.timer = SchedulePeriodic(s.interval, s.tick, s.log)
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
}

// Tick runs one update pass and one spawn step.
// Drivers that call it directly must not also Start the timer.
func (s *Scheduler) Tick() Snapshot {
	snap := s.registry.UpdateAll()
	if s.spawner != nil {
		if _, err := s.spawner.Step(); err != nil {
			s.log.Warn("spawn step failed", zap.Error(err))
		}
	}
	if s.onTick != nil {
		s.onTick(snap)
	}
	return snap
}

func (s *Scheduler) tick() time.Duration {
	s.Tick()
	return s.interval
}

// Stop cancels the timer and waits for a running tick to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	timer := s.timer
	s.mu.Unlock()
	if timer == nil {
		return
	}
	timer.Stop()
	s.log.Info("scheduler stopped", zap.Uint64("ticks", timer.Fired()))
}

// Ticks returns the number of completed timer-driven ticks
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return 0
	}
	return s.timer.Fired()
}

// Done is closed once the scheduler will not tick again.
// It returns nil before Start.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return nil
	}
	return s.timer.Done()
}
