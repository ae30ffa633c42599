package entity

// Ability is the exclusive ability currently owning the agent's velocity.
// Dash, dive and wall-cling cannot be active at the same time.
type Ability int

const (
	AbilityNone Ability = iota
	AbilityDashing
	AbilityDiving
	AbilityWallClinging
)

// String returns the string representation of the ability
func (a Ability) String() string {
	switch a {
	case AbilityNone:
		return "None"
	case AbilityDashing:
		return "Dashing"
	case AbilityDiving:
		return "Diving"
	case AbilityWallClinging:
		return "WallClinging"
	default:
		return "Unknown"
	}
}

// MotionState is the mutable per-agent motion state.
// Only the ability resolver and scheduled completions write to it.
type MotionState struct {
	Velocity  Vec2
	JumpCount int
	Ability   Ability

	// ClingTimer is the time spent in the current wall-cling (seconds)
	ClingTimer float64

	// DashID identifies the active dash so a stale completion can be told apart
	DashID uint64

	// Request latches, set by the input gatherer and consumed by the next physics step
	JumpRequested bool
	DashRequested bool
	DiveRequested bool

	// Facing is the last non-zero horizontal input sign (-1 or 1)
	Facing float64
}

// Dashing reports whether a dash owns the velocity
func (m MotionState) Dashing() bool { return m.Ability == AbilityDashing }

// Diving reports whether a dive owns the velocity
func (m MotionState) Diving() bool { return m.Ability == AbilityDiving }

// WallClinging reports whether the agent is clinging to a wall
func (m MotionState) WallClinging() bool { return m.Ability == AbilityWallClinging }

// InputSnapshot is the normalized per-frame intent
type InputSnapshot struct {
	Move          Vec2    // normalized move vector, length <= 1
	Axis          float64 // discrete horizontal axis in [-1, 1]
	Run           bool
	JumpRequested bool
	DashRequested bool
	DiveRequested bool
}

// Contact is a single sliding contact reported by the physics collaborator.
// Normal points away from the surface, toward the body.
type Contact struct {
	Normal Vec2
}

// IsWall reports whether the contact surface is closer to vertical than horizontal
func (c Contact) IsWall() bool {
	ax, ay := c.Normal.X, c.Normal.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	return ax > ay
}

// ContactFlags holds environment contact for the current and previous step
type ContactFlags struct {
	Grounded  bool
	OnWall    bool
	OnCeiling bool

	WasGrounded  bool
	WasOnWall    bool
	WasOnCeiling bool

	// WallNormal is valid only while OnWall is true, zero otherwise
	WallNormal Vec2
}
