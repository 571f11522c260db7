package monsterimage

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
	"github.com/KirkDiggler/tentcards/internal/repositories/imagemap"
)

var extByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// Save implements Service. The image is copied to the canonical slug path
// for the name.
func (s *service) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name, _, err := monsterName(input.MonsterName)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, errors.InvalidArgument("imageUrl is required")
	}

	data, contentType, err := s.load(ctx, strings.TrimSpace(input.ImageURL), input.Host)
	if err != nil {
		return nil, err
	}
	ext, ok := extByContentType[contentType]
	if !ok {
		return nil, errors.InvalidArgumentf("unsupported image type %q", contentType)
	}

	put, err := s.blobs.Put(ctx, blobstore.PutInput{Name: name, Ext: ext, Data: data})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store accepted image for %s", name)
	}
	if _, err := s.images.Put(ctx, imagemap.PutInput{Name: name, URL: put.Path}); err != nil {
		return nil, errors.Wrapf(err, "failed to record accepted image for %s", name)
	}

	slog.Info("Monster image saved", "monster", name, "path", put.Path)
	return &SaveOutput{Path: put.Path}, nil
}

// load resolves the three accepted locator shapes to bytes and a media type
func (s *service) load(ctx context.Context, locator, host string) ([]byte, string, error) {
	if ref := entities.NewImageRef(locator); ref.IsInline() {
		data, contentType, err := ref.DecodeInline()
		if err != nil {
			return nil, "", err
		}
		return data, mediaType(contentType), nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return nil, "", errors.InvalidArgumentf("imageUrl %q is not a valid URL", locator)
	}

	local := !u.IsAbs() || (host != "" && strings.EqualFold(u.Host, host))
	if local && strings.HasPrefix(u.Path, s.blobs.URLPrefix()) {
		out, err := s.blobs.Get(ctx, blobstore.GetInput{Path: u.Path})
		if err == nil {
			return out.Data, mediaType(out.ContentType), nil
		}
		if !errors.IsNotFound(err) || !u.IsAbs() {
			return nil, "", errors.Wrapf(err, "failed to read %s", u.Path)
		}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", errors.InvalidArgumentf("imageUrl %q is neither a stored image nor an http URL", locator)
	}
	return s.download(ctx, u.String())
}

func (s *service) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to build download request")
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeUnavailable, "failed to download image")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", errors.Unavailablef("image download returned status %d", resp.StatusCode).
			WithMeta("url", rawURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadBytes+1))
	if err != nil {
		return nil, "", errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read downloaded image")
	}
	if len(data) > MaxDownloadBytes {
		return nil, "", errors.InvalidArgument("downloaded image is too large")
	}

	contentType := mediaType(resp.Header.Get("Content-Type"))
	if _, ok := extByContentType[contentType]; !ok {
		contentType = http.DetectContentType(data)
	}
	return data, mediaType(contentType), nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
