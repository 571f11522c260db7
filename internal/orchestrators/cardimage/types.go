package cardimage

import (
	"github.com/KirkDiggler/tentcards/internal/entities"
)

// Surface identifies where a card is drawn.
type Surface string

const (
	SurfaceSearchRow   Surface = "search_row"
	SurfaceSelectedRow Surface = "selected_row"
	SurfacePreview     Surface = "preview"
	SurfacePrint       Surface = "print"
)

// IsPrint reports whether the surface only observes generation
func (s Surface) IsPrint() bool {
	return s == SurfacePrint
}

// Valid reports whether s is a known surface
func (s Surface) Valid() bool {
	switch s {
	case SurfaceSearchRow, SurfaceSelectedRow, SurfacePreview, SurfacePrint:
		return true
	default:
		return false
	}
}

// View is a snapshot of what a card should render.
type View struct {
	Name    string
	Surface Surface

	// Image is what the card displays: the pending image while awaiting
	// confirmation, otherwise the confirmed one
	Image     *entities.ImageRef
	Confirmed *entities.ImageRef
	Pending   *entities.ImageRef

	Generating   bool
	Regenerating bool
	Accepting    bool

	// Failed marks a first-generation failure; the card shows a placeholder
	Failed bool

	// AwaitingConfirmation is true while a regenerated image needs accept or reject
	AwaitingConfirmation bool

	// CanGenerate is true when the placeholder offers a manual trigger
	CanGenerate bool

	// CanRegenerate is true when the regenerate action is enabled
	CanRegenerate bool

	// Err is the last regenerate or accept failure
	Err error
}
