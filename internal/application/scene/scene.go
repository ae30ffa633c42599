// Package scene defines the Scene interface for screens driven by the game loop.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene is a screen the game loop delegates to.
//
// Update runs on the fixed tick clock and Draw on the display clock, so a
// scene must not advance simulation state from Draw.
// Scene transitions are handled by returning a new Scene from Update.
type Scene interface {
	// Update advances the scene by one tick of dt seconds.
	// Returns the next scene if a transition is needed, nil to stay on current scene.
	// Returning ebiten.Termination ends the game after OnExit.
	Update(dt float64) (next Scene, err error)

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called when entering this scene.
	OnEnter()

	// OnExit is called when leaving this scene, including on shutdown.
	OnExit()
}
