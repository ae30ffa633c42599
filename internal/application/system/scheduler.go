package system

// countdownEpsilon absorbs float error left by summing frame deltas, so a delay
// that is a whole number of ticks fires on that tick
const countdownEpsilon = 1e-9

// ScheduledAction is a callback waiting for its countdown to run out
type ScheduledAction struct {
	callback  func()
	remaining float64 // seconds
}

// Scheduler fires callbacks after a delay.
// It is ticked once per variable-rate frame and is not safe for concurrent use.
type Scheduler struct {
	pending []*ScheduledAction
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule registers callback to fire once delay seconds of ticks have elapsed.
// A non-positive delay fires on the next tick.
func (s *Scheduler) Schedule(callback func(), delay float64) {
	if callback == nil {
		return
	}
	s.pending = append(s.pending, &ScheduledAction{callback: callback, remaining: delay})
}

// Tick advances every pending action by delta seconds and fires the ones that ran out,
// in the order they were scheduled. Actions scheduled by a firing callback are not
// visited until the next tick.
func (s *Scheduler) Tick(delta float64) {
	if len(s.pending) == 0 {
		return
	}

	var due []*ScheduledAction
	kept := s.pending[:0]
	for _, a := range s.pending {
		a.remaining -= delta
		if a.remaining <= countdownEpsilon {
			due = append(due, a)
			continue
		}
		kept = append(kept, a)
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept

	// Fire after the list is settled so reentrant Schedule calls land past this pass
	for _, a := range due {
		a.callback()
	}
}

// Len returns the number of pending actions
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Clear drops every pending action without firing it
func (s *Scheduler) Clear() {
	for i := range s.pending {
		s.pending[i] = nil
	}
	s.pending = s.pending[:0]
}
