// Package blobstore keeps generated monster artwork on the local filesystem
// and maps it to the public /images/monsters/ route.
package blobstore

//go:generate mockgen -destination=mock/mock_repository.go -package=blobstoremock github.com/KirkDiggler/tentcards/internal/repositories/blobstore Repository

import (
	"context"
)

// DefaultURLPrefix is the public route blobs are served under
const DefaultURLPrefix = "/images/monsters/"

// Repository defines the interface for image blob storage
type Repository interface {
	// Put writes data under name and returns its public path
	// Returns errors.InvalidArgument for unusable names or empty data
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Get reads a blob by its public path
	// Returns errors.NotFound for unknown paths
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Root is the directory the public route serves from
	Root() string

	// URLPrefix is the public route prefix, ending in a slash
	URLPrefix() string
}

// PutInput defines the input for storing a blob
type PutInput struct {
	// Name becomes the file name after slugging
	Name string
	// Ext is the file extension without the dot; defaults to png
	Ext  string
	Data []byte
}

// PutOutput defines the output for storing a blob
type PutOutput struct {
	Path string
}

// GetInput defines the input for reading a blob
type GetInput struct {
	Path string
}

// GetOutput defines the output for reading a blob
type GetOutput struct {
	Data        []byte
	ContentType string
}
