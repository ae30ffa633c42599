package system

import "github.com/younwookim/motionctl/internal/domain/entity"

// InterpolationSystem decouples the displayed position from the physics tick rate.
// It never feeds back into gameplay state.
type InterpolationSystem struct {
	prev      entity.Vec2
	curr      entity.Vec2
	displayed entity.Vec2
	detached  bool
}

// NewInterpolationSystem starts with both physics samples at start
func NewInterpolationSystem(start entity.Vec2) *InterpolationSystem {
	return &InterpolationSystem{prev: start, curr: start, displayed: start}
}

// Record stores the position resolved by the latest physics step
func (s *InterpolationSystem) Record(pos entity.Vec2) {
	s.prev = s.curr
	s.curr = pos
}

// Teleport drops motion history so the next frames do not smear across a jump cut
func (s *InterpolationSystem) Teleport(pos entity.Vec2) {
	s.prev = pos
	s.curr = pos
	s.displayed = pos
}

// Update computes the displayed position for this frame.
// fraction is the progress into the current physics step, clamped to [0, 1].
func (s *InterpolationSystem) Update(refreshRate, tickRate, fraction float64) entity.Vec2 {
	s.detached = refreshRate > tickRate
	if !s.detached {
		s.displayed = s.curr
		return s.displayed
	}

	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	s.displayed = s.prev.Lerp(s.curr, fraction)
	return s.displayed
}

// Detached reports whether the last frame interpolated instead of tracking physics
func (s *InterpolationSystem) Detached() bool {
	return s.detached
}

// Position returns the last displayed position
func (s *InterpolationSystem) Position() entity.Vec2 {
	return s.displayed
}
