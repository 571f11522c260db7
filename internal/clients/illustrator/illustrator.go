// Package illustrator turns a monster name into card artwork.
package illustrator

//go:generate mockgen -destination=mock/mock_illustrator.go -package=illustratormock github.com/KirkDiggler/tentcards/internal/clients/illustrator Illustrator

import (
	"context"
	"fmt"
	"strings"
)

// Illustrator produces one image for a prompt
type Illustrator interface {
	Illustrate(ctx context.Context, prompt string) (*Illustration, error)
}

// Illustration is encoded image data plus its file extension
type Illustration struct {
	Data []byte
	Ext  string
}

const promptTemplate = "Fantasy tabletop role-playing game illustration of a %s. " +
	"Full body, centered, painted style, plain light background, no text, no border."

// Prompt builds the artwork prompt for a creature name
func Prompt(monsterName string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(monsterName))
}
