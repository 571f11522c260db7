// Package imagemap persists the confirmed image URL for each creature name
package imagemap

//go:generate mockgen -destination=mock/mock_repository.go -package=imagemapmock github.com/KirkDiggler/tentcards/internal/repositories/imagemap Repository

import (
	"context"
)

// Repository defines the interface for the name -> image URL map
type Repository interface {
	// Get returns the URL stored for the exact normalized name
	// Returns errors.InvalidArgument for blank names
	// Returns errors.NotFound when no image is recorded
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put records or replaces the image for a name
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// List returns the whole map
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Delete removes the entry for a name; Deleted is false when none existed
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// Seed adds entries that are not present yet; existing entries win
	Seed(ctx context.Context, input SeedInput) (*SeedOutput, error)
}

// GetInput defines the input for fetching one image
type GetInput struct {
	Name string
}

// GetOutput defines the output for fetching one image
type GetOutput struct {
	Name string
	URL  string
}

// PutInput defines the input for recording an image
type PutInput struct {
	Name string
	URL  string
}

// PutOutput defines the output for recording an image
type PutOutput struct {
	Name string
}

// ListInput defines the input for listing the map
type ListInput struct{}

// ListOutput defines the output for listing the map
type ListOutput struct {
	Images map[string]string
}

// SeedInput carries a bundled name -> url mapping
type SeedInput struct {
	Images map[string]string
}

// SeedOutput reports how many entries were new
type SeedOutput struct {
	Added int
}

// DeleteInput defines the input for removing an image
type DeleteInput struct {
	Name string
}

// DeleteOutput reports whether an entry was removed
type DeleteOutput struct {
	Deleted bool
}
