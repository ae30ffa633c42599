package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/younwookim/motionctl/internal/domain/entity"
)

// rect is a tile-space rectangle [X, X+W) x [Y, Y+H)
type rect struct {
	X, Y, W, H int
}

// mergeSolids covers the stage's solid tiles with as few rectangles as a
// greedy row-first expansion finds (width then height).
func mergeSolids(stage *entity.Stage) []rect {
	processed := make([]bool, stage.Width*stage.Height)
	solid := func(x, y int) bool {
		return !processed[y*stage.Width+x] && stage.Tiles[y][x].Solid
	}

	var rects []rect
	for y := 0; y < stage.Height; y++ {
		for x := 0; x < stage.Width; x++ {
			if !solid(x, y) {
				processed[y*stage.Width+x] = true
				continue
			}

			w := 1
			for x+w < stage.Width && solid(x+w, y) {
				w++
			}

			h := 1
		heightLoop:
			for y+h < stage.Height {
				for xi := x; xi < x+w; xi++ {
					if !solid(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*stage.Width+xx] = true
				}
			}
			rects = append(rects, rect{X: x, Y: y, W: w, H: h})
		}
	}
	return rects
}

// addStageShapes adds one static box per merged rectangle plus world bounds
func addStageShapes(space *cp.Space, stage *entity.Stage) {
	ts := float64(stage.TileSize)
	if ts <= 0 {
		ts = 16
	}
	for _, r := range mergeSolids(stage) {
		x0 := float64(r.X) * ts
		y0 := float64(r.Y) * ts
		bb := cp.BB{L: x0, B: y0, R: x0 + float64(r.W)*ts, T: y0 + float64(r.H)*ts}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		space.AddShape(shape)
	}

	// out of bounds is solid: wall off the stage with one tile thick boxes
	worldW := float64(stage.PixelWidth())
	worldH := float64(stage.PixelHeight())
	if worldW <= 0 || worldH <= 0 {
		return
	}
	bounds := []cp.BB{
		{L: -ts, B: -ts, R: worldW + ts, T: 0},              // top
		{L: -ts, B: worldH, R: worldW + ts, T: worldH + ts}, // bottom
		{L: -ts, B: 0, R: 0, T: worldH},                     // left
		{L: worldW, B: 0, R: worldW + ts, T: worldH},        // right
	}
	for _, bb := range bounds {
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(0)
		shape.SetCollisionType(collisionTypeSolid)
		space.AddShape(shape)
	}
}
