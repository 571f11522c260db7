package generation

import (
	"github.com/KirkDiggler/tentcards/internal/entities"
)

// State is the lifecycle of a first-generation record for one normalized name.
type State int

const (
	// StateAbsent means no record exists
	StateAbsent State = iota
	// StateGenerating means a backend call is outstanding
	StateGenerating
	// StateCompleted is permanent for the session
	StateCompleted
	// StateFailed lasts until the last subscriber detaches
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "absent"
	}
}

// Result is delivered to every subscriber when a generation settles.
type Result struct {
	Name   string
	Image  *entities.ImageRef
	Failed bool
	// Err is the backend failure behind Failed, kept for logging
	Err error
}

// EnsureInput asks for the first image of a creature.
type EnsureInput struct {
	Name string
	// MayTrigger allows this call to start a generation; observers pass false
	MayTrigger bool
	// OnResult receives the settled outcome. Nil skips subscribing.
	OnResult func(Result)
}

// EnsureOutput describes what the coordinator did with an EnsureImage call.
type EnsureOutput struct {
	// Image is set when a confirmed image was already available
	Image *entities.ImageRef
	// Generating is true while a backend call for the name is outstanding
	Generating bool
	// Triggered is true when this call issued the backend request
	Triggered bool
	// Failed is true when the caller joined a record whose last attempt failed
	Failed bool
	// Subscription is nil when nothing was subscribed
	Subscription *Subscription
}

// RegenerateInput asks for a brand new image regardless of cache state.
type RegenerateInput struct {
	Name string
}

// RegenerateOutput carries the unconfirmed image from a regenerate call.
type RegenerateOutput struct {
	Image *entities.ImageRef
}
