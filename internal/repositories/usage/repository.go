// Package usage counts anonymous client events such as exports and searches
package usage

//go:generate mockgen -destination=mock/mock_repository.go -package=usagemock github.com/KirkDiggler/tentcards/internal/repositories/usage Repository

import (
	"context"
)

// Repository defines the interface for usage counters
type Repository interface {
	// Increment bumps the counter for an event and returns the new total
	// Returns errors.InvalidArgument for malformed event names
	Increment(ctx context.Context, input IncrementInput) (*IncrementOutput, error)

	// List returns every counter
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Close releases the underlying database
	Close() error
}

// IncrementInput defines the input for bumping a counter
type IncrementInput struct {
	Event string
}

// IncrementOutput defines the output for bumping a counter
type IncrementOutput struct {
	Event string
	Count int64
}

// ListInput defines the input for listing counters
type ListInput struct{}

// ListOutput defines the output for listing counters
type ListOutput struct {
	Counts map[string]int64
}
