// Package monsterimage owns the backend side of monster artwork: first-time
// generation, regeneration, promotion of an accepted image and the snapshot
// the client seeds its cache from.
package monsterimage

//go:generate mockgen -destination=mock/mock_service.go -package=monsterimagemock github.com/KirkDiggler/tentcards/internal/services/monsterimage Service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/KirkDiggler/tentcards/internal/clients/illustrator"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/namematch"
	"github.com/KirkDiggler/tentcards/internal/pkg/httpclient"
	"github.com/KirkDiggler/tentcards/internal/pkg/idgen"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
	"github.com/KirkDiggler/tentcards/internal/repositories/imagemap"
)

const (
	DefaultGenerateTimeout = 90 * time.Second
	DefaultRateInterval    = 2 * time.Second
	DefaultRateBurst       = 2
	DefaultDownloadTimeout = 30 * time.Second
	// MaxDownloadBytes caps remote images fetched by Save
	MaxDownloadBytes = 20 << 20
)

// Service defines the monster image operations
type Service interface {
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)
	Regenerate(ctx context.Context, input *RegenerateInput) (*RegenerateOutput, error)
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)
	Snapshot(ctx context.Context, input *SnapshotInput) (*SnapshotOutput, error)
	Seed(ctx context.Context, input *SeedInput) (*SeedOutput, error)
	Prune(ctx context.Context, input *PruneInput) (*PruneOutput, error)
}

// Config holds the dependencies for the monster image service
type Config struct {
	Images      imagemap.Repository
	Blobs       blobstore.Repository
	Illustrator illustrator.Illustrator
	// IDGenerator names regenerated blobs; defaults to random hex tokens
	IDGenerator idgen.Generator
	// Limiter throttles provider calls; defaults to DefaultRateInterval/DefaultRateBurst
	Limiter *rate.Limiter
	// HTTPClient downloads remote images on Save; defaults to an httpkit client
	HTTPClient      httpclient.Doer
	GenerateTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Images == nil {
		vb.RequiredField("Images")
	}
	if c.Blobs == nil {
		vb.RequiredField("Blobs")
	}
	if c.Illustrator == nil {
		vb.RequiredField("Illustrator")
	}
	if c.GenerateTimeout < 0 {
		vb.InvalidField("GenerateTimeout", "must not be negative")
	}

	return vb.Build()
}

type service struct {
	images      imagemap.Repository
	blobs       blobstore.Repository
	illustrator illustrator.Illustrator
	ids         idgen.Generator
	limiter     *rate.Limiter
	httpClient  httpclient.Doer
	timeout     time.Duration

	flight singleflight.Group
}

// New creates a monster image service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &service{
		images:      cfg.Images,
		blobs:       cfg.Blobs,
		illustrator: cfg.Illustrator,
		ids:         cfg.IDGenerator,
		limiter:     cfg.Limiter,
		httpClient:  cfg.HTTPClient,
		timeout:     cfg.GenerateTimeout,
	}
	if s.ids == nil {
		s.ids = idgen.NewRandom("")
	}
	if s.limiter == nil {
		s.limiter = rate.NewLimiter(rate.Every(DefaultRateInterval), DefaultRateBurst)
	}
	if s.httpClient == nil {
		s.httpClient = httpclient.New(DefaultDownloadTimeout)
	}
	if s.timeout == 0 {
		s.timeout = DefaultGenerateTimeout
	}
	return s, nil
}

// Generate implements Service
func (s *service) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name, key, err := monsterName(input.MonsterName)
	if err != nil {
		return nil, err
	}

	if url, ok, err := s.lookup(ctx, name); err != nil {
		return nil, err
	} else if ok {
		slog.Info("Monster image cache hit", "monster", name)
		return &GenerateOutput{URL: url, Cached: true}, nil
	}

	// the flight outlives any single caller
	ch := s.flight.DoChan(key, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if url, ok, err := s.lookup(flightCtx, name); err != nil {
			return nil, err
		} else if ok {
			return &GenerateOutput{URL: url, Cached: true}, nil
		}

		path, err := s.illustrate(flightCtx, name, name)
		if err != nil {
			return nil, err
		}
		if _, err := s.images.Put(flightCtx, imagemap.PutInput{Name: name, URL: path}); err != nil {
			return nil, errors.Wrapf(err, "failed to record image for %s", name)
		}

		slog.Info("Monster image generated", "monster", name, "path", path)
		return &GenerateOutput{URL: path}, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			slog.Warn("Monster image generation failed", "monster", name, "shared", r.Shared, "error", r.Err)
			return nil, r.Err
		}
		out, ok := r.Val.(*GenerateOutput)
		if !ok {
			return nil, errors.Internal("unexpected generation result type")
		}
		return &GenerateOutput{URL: out.URL, Cached: out.Cached}, nil
	case <-ctx.Done():
		return nil, errors.FromContext(ctx.Err(), "stopped waiting for image generation").WithMeta("monster", name)
	}
}

// Regenerate implements Service
func (s *service) Regenerate(ctx context.Context, input *RegenerateInput) (*RegenerateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	name, _, err := monsterName(input.MonsterName)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	path, err := s.illustrate(genCtx, name, name+" "+s.ids.Generate())
	if err != nil {
		return nil, err
	}

	slog.Info("Monster image regenerated", "monster", name, "path", path)
	return &RegenerateOutput{URL: path}, nil
}

// Snapshot implements Service
func (s *service) Snapshot(ctx context.Context, _ *SnapshotInput) (*SnapshotOutput, error) {
	out, err := s.images.List(ctx, imagemap.ListInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list monster images")
	}
	return &SnapshotOutput{Images: out.Images}, nil
}

// Seed implements Service
func (s *service) Seed(ctx context.Context, input *SeedInput) (*SeedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	out, err := s.images.Seed(ctx, imagemap.SeedInput{Images: input.Images})
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed monster images")
	}
	slog.Info("Monster images seeded", "offered", len(input.Images), "added", out.Added)
	return &SeedOutput{Added: out.Added}, nil
}

// lookup tries every name variation against the image map
func (s *service) lookup(ctx context.Context, name string) (string, bool, error) {
	for _, v := range namematch.Variations(name) {
		out, err := s.images.Get(ctx, imagemap.GetInput{Name: v})
		if err != nil {
			if errors.IsNotFound(err) || errors.IsInvalidArgument(err) {
				continue
			}
			return "", false, errors.Wrapf(err, "failed to look up image for %s", name)
		}
		if out.URL != "" {
			return out.URL, true, nil
		}
	}
	return "", false, nil
}

// illustrate waits for the limiter, calls the provider and stores the blob
// under blobName
func (s *service) illustrate(ctx context.Context, name, blobName string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeResourceExhausted, "illustration rate limit wait aborted")
	}

	art, err := s.illustrator.Illustrate(ctx, illustrator.Prompt(name))
	if err != nil {
		return "", errors.Wrapf(err, "failed to illustrate %s", name)
	}
	if art == nil || len(art.Data) == 0 {
		return "", errors.Unavailablef("provider returned no artwork for %s", name)
	}

	out, err := s.blobs.Put(ctx, blobstore.PutInput{Name: blobName, Ext: art.Ext, Data: art.Data})
	if err != nil {
		return "", errors.Wrapf(err, "failed to store artwork for %s", name)
	}
	return out.Path, nil
}

func monsterName(raw string) (string, string, error) {
	name := strings.TrimSpace(raw)
	key := namematch.Normalize(name)
	if key == "" {
		return "", "", errors.InvalidArgument("monsterName is required")
	}
	return name, key, nil
}

