package entity

import "math"

// Vec2 is a 2D vector. Positive Y points down.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Length returns the euclidean length
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// IsZero reports whether both components are zero
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalized returns the unit vector in the direction of v, or the zero vector
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// LimitLength clamps the length of v to max
func (v Vec2) LimitLength(max float64) Vec2 {
	l := v.Length()
	if l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

// Lerp linearly interpolates from v to o by t
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// MoveToward steps from toward target by at most delta, never overshooting
func MoveToward(from, target, delta float64) float64 {
	if math.Abs(target-from) <= delta {
		return target
	}
	if target > from {
		return from + delta
	}
	return from - delta
}

// Sign returns -1, 0 or 1
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
