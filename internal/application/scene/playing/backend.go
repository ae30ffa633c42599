package playing

import (
	"errors"
	"fmt"

	"github.com/younwookim/motionctl/internal/application/system"
	"github.com/younwookim/motionctl/internal/domain/entity"
	"github.com/younwookim/motionctl/internal/infrastructure/chipmunk"
	"github.com/younwookim/motionctl/internal/infrastructure/config"
)

// Physics backends accepted by NewBody
const (
	BackendTile     = "tile"
	BackendChipmunk = "chipmunk"
)

// ErrUnknownBackend is returned for a backend name NewBody does not know
var ErrUnknownBackend = errors.New("unknown physics backend")

// NewBody places a body of cfg's size at the stage spawn point.
// An empty backend selects the tile body.
func NewBody(backend string, stage *entity.Stage, cfg config.BodyConfig) (system.Body, error) {
	switch backend {
	case "", BackendTile:
		body := system.NewTileBody(stage, stage.SpawnX, stage.SpawnY, cfg.Width, cfg.Height)
		body.CornerCorrection = cfg.CornerCorrection
		return body, nil
	case BackendChipmunk:
		return chipmunk.New(stage, float64(stage.SpawnX), float64(stage.SpawnY), cfg.Width, cfg.Height), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
