package system

import (
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// LoadStage converts a StageConfig into a Stage entity.
// A zero configured width falls back to the longest collision row; short rows
// are padded with empty tiles.
func LoadStage(cfg *config.StageConfig) *entity.Stage {
	tileSize := cfg.Size.TileSize
	if tileSize <= 0 {
		tileSize = 16
	}

	tileWidth := cfg.Size.Width / tileSize
	if tileWidth == 0 {
		for _, row := range cfg.Layers.Collision {
			if n := len([]rune(row)); n > tileWidth {
				tileWidth = n
			}
		}
	}
	tileHeight := len(cfg.Layers.Collision)

	tiles := make([][]entity.Tile, tileHeight)
	for y, row := range cfg.Layers.Collision {
		tiles[y] = make([]entity.Tile, tileWidth)
		for x, char := range []rune(row) {
			if x >= tileWidth {
				break
			}
			mapping, ok := cfg.TileMapping[string(char)]
			if !ok {
				continue
			}
			tiles[y][x] = entity.Tile{
				Type:  tileTypeOf(mapping.Type),
				Solid: mapping.Solid,
			}
		}
	}

	return &entity.Stage{
		Width:    tileWidth,
		Height:   tileHeight,
		TileSize: tileSize,
		Tiles:    tiles,
		SpawnX:   cfg.PlayerSpawn.X,
		SpawnY:   cfg.PlayerSpawn.Y,
	}
}

func tileTypeOf(name string) entity.TileType {
	switch name {
	case "wall":
		return entity.TileWall
	case "spike":
		return entity.TileSpike
	default:
		return entity.TileEmpty
	}
}
