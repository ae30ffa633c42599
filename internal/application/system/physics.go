package system

import (
	"math"

	"github.com/younwookim/motionctl/internal/domain/entity"
)

// Body is the physics collaborator: it slides the agent against the environment
// and reports the contacts that resulted.
type Body interface {
	ContactSource
	// MoveAndSlide moves by velocity*dt and returns the actual velocity and position
	MoveAndSlide(velocity entity.Vec2, dt float64) (entity.Vec2, entity.Vec2)
	Position() entity.Vec2
	// Place moves the body to pos without collision and stops it
	Place(pos entity.Vec2)
}

// TileBody is an axis-aligned box sliding against a tile stage in 1 pixel substeps.
// Position is the top-left corner in whole pixels; sub-pixel motion accumulates in
// remainders so slow velocities still move eventually.
type TileBody struct {
	stage *entity.Stage

	X, Y int // pixels
	W, H int // pixels

	// CornerCorrection is how many pixels a rising body may be nudged sideways
	// to slip past a ceiling corner. 0 disables it.
	CornerCorrection int

	remX, remY float64

	onFloor   bool
	onWall    bool
	onCeiling bool
	contacts  []entity.Contact
}

// NewTileBody creates a body of w x h pixels at pixel (x, y)
func NewTileBody(stage *entity.Stage, x, y, w, h int) *TileBody {
	return &TileBody{
		stage: stage,
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
	}
}

// IsOnFloor reports floor contact after the last MoveAndSlide
func (b *TileBody) IsOnFloor() bool { return b.onFloor }

// IsOnWall reports wall contact after the last MoveAndSlide
func (b *TileBody) IsOnWall() bool { return b.onWall }

// IsOnCeiling reports ceiling contact after the last MoveAndSlide
func (b *TileBody) IsOnCeiling() bool { return b.onCeiling }

// SlideContacts returns the contacts of the last MoveAndSlide in the order they occurred
func (b *TileBody) SlideContacts() []entity.Contact { return b.contacts }

// Position returns the top-left corner in pixels
func (b *TileBody) Position() entity.Vec2 {
	return entity.Vec2{X: float64(b.X), Y: float64(b.Y)}
}

// Teleport moves the body without collision and clears its motion remainders
func (b *TileBody) Teleport(x, y int) {
	b.X, b.Y = x, y
	b.remX, b.remY = 0, 0
}

// Place teleports to pos rounded to whole pixels
func (b *TileBody) Place(pos entity.Vec2) {
	b.Teleport(int(math.Round(pos.X)), int(math.Round(pos.Y)))
}

// MoveAndSlide applies velocity for dt seconds with substep collision
func (b *TileBody) MoveAndSlide(velocity entity.Vec2, dt float64) (entity.Vec2, entity.Vec2) {
	b.onFloor = false
	b.onWall = false
	b.onCeiling = false
	b.contacts = b.contacts[:0]

	// First, resolve any existing overlaps (push-out)
	b.resolveOverlap(&velocity)

	b.remX += velocity.X * dt
	dx := int(math.Round(b.remX))
	b.remX -= float64(dx)
	if b.moveX(dx) {
		velocity.X = 0
		b.remX = 0
	}

	b.remY += velocity.Y * dt
	dy := int(math.Round(b.remY))
	b.remY -= float64(dy)
	if b.moveY(dy) {
		velocity.Y = 0
		b.remY = 0
	}

	b.senseResting(&velocity)
	return velocity, b.Position()
}

// moveX moves horizontally, returning true if a wall stopped the body
func (b *TileBody) moveX(dx int) bool {
	step := sign(dx)
	for i := 0; i < abs(dx); i++ {
		if b.solidAt(b.X+step, b.Y) {
			b.touch(&b.onWall, entity.Vec2{X: float64(-step)})
			return true
		}
		b.X += step
	}
	return false
}

// moveY moves vertically, returning true if a floor or ceiling stopped the body
func (b *TileBody) moveY(dy int) bool {
	step := sign(dy)
	for i := 0; i < abs(dy); i++ {
		if b.solidAt(b.X, b.Y+step) {
			if step > 0 {
				b.touch(&b.onFloor, entity.Vec2{Y: -1})
				return true
			}
			if b.tryCornerCorrection() {
				b.Y += step
				continue
			}
			b.touch(&b.onCeiling, entity.Vec2{Y: 1})
			return true
		}
		b.Y += step
	}
	return false
}

// senseResting reports surfaces the body rests against or pushes into without moving,
// so a standing or wall-pressing body keeps its contact between steps.
func (b *TileBody) senseResting(velocity *entity.Vec2) {
	if !b.onFloor && velocity.Y >= 0 && b.solidAt(b.X, b.Y+1) {
		b.touch(&b.onFloor, entity.Vec2{Y: -1})
		velocity.Y = 0
		b.remY = 0
	}
	if !b.onCeiling && velocity.Y < 0 && b.solidAt(b.X, b.Y-1) {
		b.touch(&b.onCeiling, entity.Vec2{Y: 1})
		velocity.Y = 0
		b.remY = 0
	}
	if !b.onWall && velocity.X != 0 {
		dir := int(entity.Sign(velocity.X))
		if b.solidAt(b.X+dir, b.Y) {
			b.touch(&b.onWall, entity.Vec2{X: float64(-dir)})
			velocity.X = 0
			b.remX = 0
		}
	}
}

// tryCornerCorrection nudges a rising body around a ceiling corner
func (b *TileBody) tryCornerCorrection() bool {
	for i := 1; i <= b.CornerCorrection; i++ {
		if !b.solidAt(b.X-i, b.Y-1) && !b.solidAt(b.X-i, b.Y) {
			b.X -= i
			return true
		}
		if !b.solidAt(b.X+i, b.Y-1) && !b.solidAt(b.X+i, b.Y) {
			b.X += i
			return true
		}
	}
	return false
}

// resolveOverlap pushes the body out of any solid tiles it currently overlaps,
// choosing the smallest displacement. A body that cannot be freed returns to spawn.
func (b *TileBody) resolveOverlap(velocity *entity.Vec2) {
	const maxPushOut = 8 // Maximum pixels to push out per axis

	if !b.solidAt(b.X, b.Y) {
		return
	}

	type pushOption struct {
		dx, dy int
	}
	dirs := []pushOption{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

	for dist := 1; dist <= maxPushOut; dist++ {
		for _, d := range dirs {
			tx, ty := b.X+d.dx*dist, b.Y+d.dy*dist
			if b.solidAt(tx, ty) {
				continue
			}
			b.X, b.Y = tx, ty
			switch {
			case d.dx > 0:
				b.touch(&b.onWall, entity.Vec2{X: 1})
				velocity.X = 0
			case d.dx < 0:
				b.touch(&b.onWall, entity.Vec2{X: -1})
				velocity.X = 0
			case d.dy > 0:
				b.touch(&b.onCeiling, entity.Vec2{Y: 1})
				velocity.Y = 0
			case d.dy < 0:
				b.touch(&b.onFloor, entity.Vec2{Y: -1})
				velocity.Y = 0
			}
			return
		}
	}

	// Can't resolve - reset to spawn position
	b.Teleport(b.stage.SpawnX, b.stage.SpawnY)
	*velocity = entity.Vec2{}
}

func (b *TileBody) touch(flag *bool, normal entity.Vec2) {
	*flag = true
	b.contacts = append(b.contacts, entity.Contact{Normal: normal})
}

func (b *TileBody) solidAt(x, y int) bool {
	return b.stage.IsSolidRect(x, y, b.W, b.H)
}

// Helper functions
func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
