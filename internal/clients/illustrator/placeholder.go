package illustrator

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"

	"github.com/KirkDiggler/tentcards/internal/errors"
)

// PlaceholderSize is the edge length of placeholder artwork
const PlaceholderSize = 256

// Placeholder paints a deterministic gradient per prompt. It needs no
// network and is what development servers and tests run with.
type Placeholder struct{}

// NewPlaceholder creates the offline illustrator
func NewPlaceholder() Illustrator {
	return &Placeholder{}
}

// Illustrate implements Illustrator
func (p *Placeholder) Illustrate(ctx context.Context, prompt string) (*Illustration, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FromContext(err, "illustration canceled")
	}
	if prompt == "" {
		return nil, errors.InvalidArgument("prompt is required")
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	sum := h.Sum32()
	from := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 0xff}
	to := color.RGBA{R: 0xff - from.R, G: 0xff - from.G, B: 0xff - from.B, A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	for y := 0; y < PlaceholderSize; y++ {
		for x := 0; x < PlaceholderSize; x++ {
			t := (x + y) * 255 / (2 * (PlaceholderSize - 1))
			img.SetRGBA(x, y, color.RGBA{
				R: mix(from.R, to.R, t),
				G: mix(from.G, to.G, t),
				B: mix(from.B, to.B, t),
				A: 0xff,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "failed to encode placeholder")
	}
	return &Illustration{Data: buf.Bytes(), Ext: "png"}, nil
}

func mix(a, b uint8, t int) uint8 {
	return uint8((int(a)*(255-t) + int(b)*t) / 255)
}
