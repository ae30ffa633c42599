package system

import (
	"errors"

	"github.com/younwookim/motionctl/internal/domain/entity"
)

// ErrSubscriptionsSealed is returned when subscribing after the first poll
var ErrSubscriptionsSealed = errors.New("collision subscriptions are sealed")

// CollisionEvent identifies a contact transition
type CollisionEvent int

const (
	EventGroundEnter CollisionEvent = iota
	EventGroundExit
	EventWallEnter
	EventWallExit
	EventCeilingEnter
	EventCeilingExit
)

// String returns the string representation of the event
func (e CollisionEvent) String() string {
	switch e {
	case EventGroundEnter:
		return "GroundEnter"
	case EventGroundExit:
		return "GroundExit"
	case EventWallEnter:
		return "WallEnter"
	case EventWallExit:
		return "WallExit"
	case EventCeilingEnter:
		return "CeilingEnter"
	case EventCeilingExit:
		return "CeilingExit"
	default:
		return "Unknown"
	}
}

// ContactSource is the part of the physics collaborator the tracker polls
type ContactSource interface {
	IsOnFloor() bool
	IsOnWall() bool
	IsOnCeiling() bool
	SlideContacts() []entity.Contact
}

// CollisionSystem polls contact state after each physics resolution,
// edge-detects transitions and dispatches them to subscribers in registration order.
type CollisionSystem struct {
	flags       entity.ContactFlags
	subscribers map[CollisionEvent][]func()
	sealed      bool
	fired       []CollisionEvent
}

// NewCollisionSystem creates a tracker with no contacts and no subscribers
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{
		subscribers: make(map[CollisionEvent][]func()),
	}
}

// Subscribe registers fn for an event. Subscriptions are fixed once Update has run.
func (s *CollisionSystem) Subscribe(event CollisionEvent, fn func()) error {
	if s.sealed {
		return ErrSubscriptionsSealed
	}
	if fn == nil {
		return nil
	}
	s.subscribers[event] = append(s.subscribers[event], fn)
	return nil
}

// Flags returns the current contact flags.
// The Was* fields hold the values from the step before the last Update.
func (s *CollisionSystem) Flags() entity.ContactFlags {
	return s.flags
}

// Update re-polls contacts, fires enter/exit subscribers and returns the fired events.
// The returned slice is reused by the next Update.
func (s *CollisionSystem) Update(src ContactSource) []CollisionEvent {
	s.sealed = true

	prev := s.flags
	next := entity.ContactFlags{
		Grounded:     src.IsOnFloor(),
		OnWall:       src.IsOnWall(),
		OnCeiling:    src.IsOnCeiling(),
		WasGrounded:  prev.Grounded,
		WasOnWall:    prev.OnWall,
		WasOnCeiling: prev.OnCeiling,
	}
	if next.OnWall {
		// Last wall contact examined wins
		for _, c := range src.SlideContacts() {
			if c.IsWall() {
				next.WallNormal = c.Normal
			}
		}
	}
	s.flags = next

	s.fired = s.fired[:0]
	s.edge(prev.Grounded, next.Grounded, EventGroundEnter, EventGroundExit)
	s.edge(prev.OnWall, next.OnWall, EventWallEnter, EventWallExit)
	s.edge(prev.OnCeiling, next.OnCeiling, EventCeilingEnter, EventCeilingExit)
	return s.fired
}

// Reset forgets contact history so the next Update compares against no contact
func (s *CollisionSystem) Reset() {
	s.flags = entity.ContactFlags{}
}

func (s *CollisionSystem) edge(was, is bool, enter, exit CollisionEvent) {
	switch {
	case !was && is:
		s.dispatch(enter)
	case was && !is:
		s.dispatch(exit)
	}
}

func (s *CollisionSystem) dispatch(event CollisionEvent) {
	s.fired = append(s.fired, event)
	for _, fn := range s.subscribers[event] {
		fn()
	}
}
