package entity

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileSpike
)

// Tile represents a single tile in the stage
type Tile struct {
	Type  TileType
	Solid bool
}

// Stage represents the collision tile data the body slides against
type Stage struct {
	Width    int // tiles
	Height   int // tiles
	TileSize int // pixels
	Tiles    [][]Tile
	SpawnX   int // pixels
	SpawnY   int // pixels
}

// GetTile returns the tile at the given tile coordinates.
// Anything outside the stage is a solid wall.
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileWall, Solid: true}
	}
	return s.Tiles[ty][tx]
}

// GetTileAtPixel returns the tile at the given pixel coordinates
func (s *Stage) GetTileAtPixel(px, py int) Tile {
	return s.GetTile(floorDiv(px, s.tileSize()), floorDiv(py, s.tileSize()))
}

// IsSolidAt checks if the tile at pixel coordinates is solid
func (s *Stage) IsSolidAt(px, py int) bool {
	return s.GetTileAtPixel(px, py).Solid
}

// IsSolidRect checks if any tile overlapped by the pixel rect is solid
func (s *Stage) IsSolidRect(x, y, w, h int) bool {
	ts := s.tileSize()
	startTX := floorDiv(x, ts)
	endTX := floorDiv(x+w-1, ts)
	startTY := floorDiv(y, ts)
	endTY := floorDiv(y+h-1, ts)

	for ty := startTY; ty <= endTY; ty++ {
		for tx := startTX; tx <= endTX; tx++ {
			if s.GetTile(tx, ty).Solid {
				return true
			}
		}
	}
	return false
}

// PixelWidth returns the stage width in pixels
func (s *Stage) PixelWidth() int {
	return s.Width * s.tileSize()
}

// PixelHeight returns the stage height in pixels
func (s *Stage) PixelHeight() int {
	return s.Height * s.tileSize()
}

func (s *Stage) tileSize() int {
	if s.TileSize <= 0 {
		return 16 // fallback
	}
	return s.TileSize
}

// floorDiv divides rounding toward negative infinity so that pixel -1 maps to tile -1
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
