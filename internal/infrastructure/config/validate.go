package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when a config value cannot drive the controller
var ErrInvalid = errors.New("invalid config")

// Validate checks that every designer parameter is usable for deriving tuning
func (c *ControllerConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalid, name, v))
		}
	}

	positive("body.width", float64(c.Body.Width))
	positive("body.height", float64(c.Body.Height))
	nonNegative("body.cornerCorrection", float64(c.Body.CornerCorrection))

	positive("movement.speed", c.Movement.Speed)
	positive("movement.runMultiplier", c.Movement.RunMultiplier)
	nonNegative("movement.groundAcceleration", c.Movement.GroundAcceleration)
	nonNegative("movement.groundDeceleration", c.Movement.GroundDeceleration)
	nonNegative("movement.airAcceleration", c.Movement.AirAcceleration)
	nonNegative("movement.airDeceleration", c.Movement.AirDeceleration)

	positive("jump.height", c.Jump.Height)
	positive("jump.timeToApex", c.Jump.TimeToApex)
	positive("jump.fallMultiplier", c.Jump.FallMultiplier)
	positive("jump.maxFallSpeed", c.Jump.MaxFallSpeed)
	nonNegative("jump.maxJumps", float64(c.Jump.MaxJumps))

	positive("dash.distance", c.Dash.Distance)
	positive("dash.duration", c.Dash.Duration)

	nonNegative("wallCling.duration", c.WallCling.Duration)
	nonNegative("wallCling.gravityModifier", c.WallCling.GravityModifier)

	if c.Display.TickRate < 0 {
		errs = append(errs, fmt.Errorf("%w: display.tickRate must not be negative, got %d", ErrInvalid, c.Display.TickRate))
	}

	return errors.Join(errs...)
}
