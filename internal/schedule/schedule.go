// Package schedule provides a virtual-time scheduler driven by the frame loop.
//
// Time only moves when Advance is called, so every callback runs on the
// goroutine that advances the clock. This keeps the session engine
// single-threaded while still giving it repeating and delayed timers.
package schedule

import "time"

// MinInterval is the smallest interval a repeating timer will run at.
// Shorter intervals are clamped so a timer cannot fire forever within one Advance.
const MinInterval = time.Millisecond

// Scheduler owns a virtual clock and a set of timers.
type Scheduler struct {
	now    time.Duration
	timers []*Timer
	seq    uint64
}

// Timer is a one-shot or repeating callback registered with a Scheduler.
type Timer struct {
	s        *Scheduler
	due      time.Duration
	interval time.Duration // 0 for one-shot timers
	fn       func()
	seq      uint64
	stopped  bool
}

// New creates a scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the elapsed virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Every registers fn to run each time interval elapses, starting one interval from now.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Timer {
	interval = clampInterval(interval)
	return s.add(s.now+interval, interval, fn)
}

// After registers fn to run once after delay.
func (s *Scheduler) After(delay time.Duration, fn func()) *Timer {
	if delay < 0 {
		delay = 0
	}
	return s.add(s.now+delay, 0, fn)
}

func (s *Scheduler) add(due, interval time.Duration, fn func()) *Timer {
	s.seq++
	t := &Timer{s: s, due: due, interval: interval, fn: fn, seq: s.seq}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward by dt and runs every timer that comes due,
// in due-time order. Callbacks may register, stop or reset timers; changes
// take effect for the remainder of this Advance.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt

	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
		} else {
			next.stopped = true
		}
		next.fn()
	}

	s.now = target
	s.compact()
}

// Pending returns the number of timers that have not been stopped.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// nextDue returns the earliest active timer due at or before target.
// Ties go to the timer registered first.
func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.stopped || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

// compact drops stopped timers, reusing the backing array.
func (s *Scheduler) compact() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	clear(s.timers[len(kept):])
	s.timers = kept
}

// Stop cancels the timer. Stopping an already stopped timer is a no-op.
func (t *Timer) Stop() {
	if t == nil {
		return
	}
	t.stopped = true
}

// Reset reschedules a repeating timer to fire every interval, starting one
// interval from now. For one-shot timers interval is the new delay.
// Reset revives a stopped timer.
func (t *Timer) Reset(interval time.Duration) {
	if t == nil {
		return
	}
	if t.interval > 0 {
		interval = clampInterval(interval)
		t.interval = interval
	} else if interval < 0 {
		interval = 0
	}
	t.due = t.s.now + interval
	if t.stopped {
		t.stopped = false
		if !t.s.contains(t) {
			t.s.timers = append(t.s.timers, t)
		}
	}
}

// Active reports whether the timer is still scheduled.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// Interval returns the repeat interval, or 0 for one-shot timers.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

func (s *Scheduler) contains(t *Timer) bool {
	for _, x := range s.timers {
		if x == t {
			return true
		}
	}
	return false
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	return d
}
