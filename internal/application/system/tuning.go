package system

import "github.com/younwookim/motionctl/internal/infrastructure/config"

// Tuning holds the physics constants derived from designer parameters.
// It is computed once at setup and read-only afterwards.
type Tuning struct {
	Gravity      float64 // px/s², positive is down
	JumpVelocity float64 // px/s, negative is up
	DashForce    float64 // px/s
}

// DeriveGravity returns the gravity that peaks a jump of jumpHeight after timeToApex
func DeriveGravity(jumpHeight, timeToApex float64) float64 {
	return 2 * jumpHeight / (timeToApex * timeToApex)
}

// DeriveJumpVelocity returns the launch velocity that reaches the apex in timeToApex
func DeriveJumpVelocity(gravity, timeToApex float64) float64 {
	return -gravity * timeToApex
}

// DeriveDashForce returns the speed that covers dashDistance in dashDuration
func DeriveDashForce(dashDistance, dashDuration float64) float64 {
	return dashDistance / dashDuration
}

// NewTuning derives all constants from the config
func NewTuning(cfg *config.ControllerConfig) Tuning {
	gravity := DeriveGravity(cfg.Jump.Height, cfg.Jump.TimeToApex)
	return Tuning{
		Gravity:      gravity,
		JumpVelocity: DeriveJumpVelocity(gravity, cfg.Jump.TimeToApex),
		DashForce:    DeriveDashForce(cfg.Dash.Distance, cfg.Dash.Duration),
	}
}
