package entities

import (
	"encoding/base64"
	"strings"

	"github.com/KirkDiggler/tentcards/internal/errors"
)

const (
	inlinePrefix = "data:"
	base64Marker = ";base64"
)

// ImageRef locates a raster image: either a remote URL or an inline data URI.
// A nil *ImageRef means no image. Two refs are the same artwork only when they
// are the same pointer; locators may differ by cache-busting query strings.
type ImageRef struct {
	Locator string
}

// NewImageRef returns nil for a blank locator.
func NewImageRef(locator string) *ImageRef {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil
	}
	return &ImageRef{Locator: locator}
}

// NewInlineImageRef embeds data as a base64 data URI of mediaType.
func NewInlineImageRef(mediaType string, data []byte) *ImageRef {
	return &ImageRef{Locator: inlinePrefix + mediaType + base64Marker + "," + base64.StdEncoding.EncodeToString(data)}
}

// IsInline reports whether the reference already embeds its pixel data.
func (r *ImageRef) IsInline() bool {
	return r != nil && strings.HasPrefix(r.Locator, inlinePrefix)
}

// DecodeInline returns the bytes and declared media type of an inline
// reference. Only base64 data URIs are accepted.
func (r *ImageRef) DecodeInline() ([]byte, string, error) {
	if !r.IsInline() {
		return nil, "", errors.InvalidArgumentf("image %s is not embedded", r)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(r.Locator, inlinePrefix), ",")
	if !ok || !strings.HasSuffix(meta, base64Marker) {
		return nil, "", errors.InvalidArgument("data URI must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeInvalidArgument, "data URI is not valid base64")
	}
	return data, strings.TrimSuffix(meta, base64Marker), nil
}

func (r *ImageRef) String() string {
	if r == nil {
		return "<none>"
	}
	if r.IsInline() {
		// data URIs are large; keep log lines readable
		if i := strings.IndexByte(r.Locator, ','); i > 0 {
			return r.Locator[:i] + ",..."
		}
	}
	return r.Locator
}
