package config

// ControllerConfig is the root config for controller.json / controller.yaml
type ControllerConfig struct {
	Display   DisplayConfig   `json:"display" yaml:"display"`
	Body      BodyConfig      `json:"body" yaml:"body"`
	Movement  MovementConfig  `json:"movement" yaml:"movement"`
	Jump      JumpConfig      `json:"jump" yaml:"jump"`
	Dash      DashConfig      `json:"dash" yaml:"dash"`
	WallCling WallClingConfig `json:"wallCling" yaml:"wallCling"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth" yaml:"screenWidth"`
	ScreenHeight int `json:"screenHeight" yaml:"screenHeight"`
	Scale        int `json:"scale" yaml:"scale"`
	TickRate     int `json:"tickRate" yaml:"tickRate"` // physics ticks per second
}

// BodyConfig is the collision box of the agent in pixels
type BodyConfig struct {
	Width            int `json:"width" yaml:"width"`
	Height           int `json:"height" yaml:"height"`
	CornerCorrection int `json:"cornerCorrection" yaml:"cornerCorrection"` // pixels
}

// MovementConfig configures base horizontal locomotion.
// Acceleration and deceleration are maximum velocity deltas per physics step.
type MovementConfig struct {
	Speed              float64 `json:"speed" yaml:"speed"`
	RunMultiplier      float64 `json:"runMultiplier" yaml:"runMultiplier"`
	GroundAcceleration float64 `json:"groundAcceleration" yaml:"groundAcceleration"`
	GroundDeceleration float64 `json:"groundDeceleration" yaml:"groundDeceleration"`
	AirAcceleration    float64 `json:"airAcceleration" yaml:"airAcceleration"`
	AirDeceleration    float64 `json:"airDeceleration" yaml:"airDeceleration"`
}

type JumpConfig struct {
	Height         float64 `json:"height" yaml:"height"`
	TimeToApex     float64 `json:"timeToApex" yaml:"timeToApex"`
	FallMultiplier float64 `json:"fallMultiplier" yaml:"fallMultiplier"`
	MaxJumps       int     `json:"maxJumps" yaml:"maxJumps"`
	MaxFallSpeed   float64 `json:"maxFallSpeed" yaml:"maxFallSpeed"`
}

type DashConfig struct {
	Distance float64 `json:"distance" yaml:"distance"`
	Duration float64 `json:"duration" yaml:"duration"`
}

type WallClingConfig struct {
	Duration        float64 `json:"duration" yaml:"duration"`
	GravityModifier float64 `json:"gravityModifier" yaml:"gravityModifier"`
}

// DefaultControllerConfig returns the designer defaults
func DefaultControllerConfig() *ControllerConfig {
	return &ControllerConfig{
		Display: DisplayConfig{
			ScreenWidth:  320,
			ScreenHeight: 240,
			Scale:        3,
			TickRate:     60,
		},
		Body: BodyConfig{
			Width:            12,
			Height:           20,
			CornerCorrection: 4,
		},
		Movement: MovementConfig{
			Speed:              300,
			RunMultiplier:      1.5,
			GroundAcceleration: 40,
			GroundDeceleration: 60,
			AirAcceleration:    25,
			AirDeceleration:    35,
		},
		Jump: JumpConfig{
			Height:         64,
			TimeToApex:     0.5,
			FallMultiplier: 1.6,
			MaxJumps:       2,
			MaxFallSpeed:   600,
		},
		Dash: DashConfig{
			Distance: 200,
			Duration: 0.5,
		},
		WallCling: WallClingConfig{
			Duration:        0.6,
			GravityModifier: 0.5,
		},
	}
}
