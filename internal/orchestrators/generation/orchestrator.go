// Package generation coordinates first-time image generation across every card
// that shows the same creature, so each name costs at most one backend call.
package generation

//go:generate mockgen -destination=mock/mock_backend.go -package=generationmock github.com/KirkDiggler/tentcards/internal/orchestrators/generation Backend

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/imagecache"
	"github.com/KirkDiggler/tentcards/internal/namematch"
)

// DefaultGenerationTimeout bounds one backend generate call
const DefaultGenerationTimeout = 2 * time.Minute

// Backend is the image-generation half of the tentcards API.
type Backend interface {
	// GenerateMonsterImage returns the existing or a newly generated image
	GenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error)

	// RegenerateMonsterImage always produces a new, unpersisted image
	RegenerateMonsterImage(ctx context.Context, monsterName string) (*entities.GeneratedImage, error)
}

// Service defines the coordinator operations used by card bindings
type Service interface {
	// EnsureImage returns a cached image, joins an in-flight generation, or
	// (when MayTrigger is set) starts one
	EnsureImage(ctx context.Context, input *EnsureInput) (*EnsureOutput, error)

	// Regenerate bypasses deduplication and the cache entirely
	Regenerate(ctx context.Context, input *RegenerateInput) (*RegenerateOutput, error)

	// Status reports the record state for name
	Status(name string) State
}

// Config holds the dependencies for the coordinator
type Config struct {
	Backend Backend
	Cache   *imagecache.Store
	// Timeout bounds each first-generation call; zero uses DefaultGenerationTimeout
	Timeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Backend == nil {
		vb.RequiredField("Backend")
	}
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Timeout < 0 {
		vb.InvalidField("Timeout", "must not be negative")
	}

	return vb.Build()
}

type record struct {
	state State
	subs  []subscriber
}

type coordinator struct {
	backend Backend
	cache   *imagecache.Store
	timeout time.Duration

	// mu guards records and nextID. It is taken before the cache lock, never after.
	mu      sync.Mutex
	records map[string]*record
	nextID  uint64
}

// NewCoordinator creates a coordinator. One coordinator serves a whole session.
func NewCoordinator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultGenerationTimeout
	}

	return &coordinator{
		backend: cfg.Backend,
		cache:   cfg.Cache,
		timeout: timeout,
		records: make(map[string]*record),
	}, nil
}

// EnsureImage implements Service
func (c *coordinator) EnsureImage(ctx context.Context, input *EnsureInput) (*EnsureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	key := namematch.Normalize(input.Name)
	if key == "" {
		return nil, errors.InvalidArgumentf("monster name %q has no usable characters", input.Name)
	}

	if img, ok := c.cache.Lookup(input.Name); ok {
		return &EnsureOutput{Image: img}, nil
	}

	c.mu.Lock()
	rec, exists := c.records[key]

	if !exists {
		if !input.MayTrigger {
			c.mu.Unlock()
			return &EnsureOutput{}, nil
		}
		rec = &record{state: StateGenerating}
		c.records[key] = rec
		sub := c.subscribeLocked(key, rec, input.OnResult)
		c.start(ctx, input.Name)
		c.mu.Unlock()

		slog.Info("Image generation started", "monster", input.Name, "key", key)
		return &EnsureOutput{Generating: true, Triggered: true, Subscription: sub}, nil
	}

	switch rec.state {
	case StateCompleted:
		// a completed record never settles again, so there is nothing to subscribe to
		img, _ := c.cache.Lookup(input.Name)
		c.mu.Unlock()

		deliver(input.OnResult, Result{Name: input.Name, Image: img})
		return &EnsureOutput{Image: img}, nil

	case StateFailed:
		sub := c.subscribeLocked(key, rec, input.OnResult)
		if input.MayTrigger {
			// a retry reuses the record so earlier subscribers see the new outcome
			rec.state = StateGenerating
			c.start(ctx, input.Name)
			c.mu.Unlock()

			slog.Info("Image generation retried", "monster", input.Name, "key", key)
			return &EnsureOutput{Generating: true, Triggered: true, Subscription: sub}, nil
		}
		c.mu.Unlock()

		deliver(input.OnResult, Result{Name: input.Name, Failed: true})
		return &EnsureOutput{Failed: true, Subscription: sub}, nil

	default:
		sub := c.subscribeLocked(key, rec, input.OnResult)
		c.mu.Unlock()
		return &EnsureOutput{Generating: true, Subscription: sub}, nil
	}
}

// Regenerate implements Service
func (c *coordinator) Regenerate(ctx context.Context, input *RegenerateInput) (*RegenerateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if namematch.Normalize(input.Name) == "" {
		return nil, errors.InvalidArgumentf("monster name %q has no usable characters", input.Name)
	}

	out, err := c.backend.RegenerateMonsterImage(ctx, input.Name)
	if err != nil {
		slog.Warn("Image regeneration failed", "monster", input.Name, "error", err)
		return nil, errors.Wrapf(err, "failed to regenerate image for %s", input.Name)
	}
	img := imageFrom(out)
	if img == nil {
		return nil, errors.Internalf("backend returned no image for %s", input.Name)
	}

	return &RegenerateOutput{Image: img}, nil
}

// Status implements Service
func (c *coordinator) Status(name string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec, ok := c.records[namematch.Normalize(name)]; ok {
		return rec.state
	}
	return StateAbsent
}

// subscribeLocked must be called with c.mu held
func (c *coordinator) subscribeLocked(key string, rec *record, fn func(Result)) *Subscription {
	if fn == nil {
		return nil
	}
	c.nextID++
	rec.subs = append(rec.subs, subscriber{id: c.nextID, fn: fn})
	return &Subscription{c: c, key: key, id: c.nextID}
}

func (c *coordinator) unsubscribe(key string, id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records[key]
	if !ok {
		return
	}
	for i, s := range rec.subs {
		if s.id == id {
			rec.subs = append(rec.subs[:i], rec.subs[i+1:]...)
			break
		}
	}
	if rec.state == StateFailed && len(rec.subs) == 0 {
		delete(c.records, key)
	}
}

// start must be called with c.mu held and the record in StateGenerating. The
// call outlives the caller's cancellation so remounted cards can still use it.
func (c *coordinator) start(ctx context.Context, name string) {
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	go func() {
		defer cancel()
		out, err := c.backend.GenerateMonsterImage(genCtx, name)
		c.settle(name, out, err)
	}()
}

// settle updates the cache and the record in one critical section, then
// notifies the subscribers captured at that moment in subscription order.
func (c *coordinator) settle(name string, out *entities.GeneratedImage, err error) {
	key := namematch.Normalize(name)
	img := imageFrom(out)
	if err == nil && img == nil {
		err = errors.Internalf("backend returned no image for %s", name)
	}

	c.mu.Lock()
	rec, ok := c.records[key]
	if !ok {
		c.mu.Unlock()
		return
	}

	result := Result{Name: name}
	if err != nil {
		rec.state = StateFailed
		result.Failed = true
		result.Err = err
	} else {
		c.cache.Put(name, img)
		rec.state = StateCompleted
		result.Image = img
	}

	subs := make([]subscriber, len(rec.subs))
	copy(subs, rec.subs)
	switch {
	case rec.state == StateCompleted:
		rec.subs = nil
	case len(subs) == 0:
		delete(c.records, key)
	}
	c.mu.Unlock()

	if result.Failed {
		slog.Warn("Image generation failed", "monster", name, "subscribers", len(subs), "error", err)
	} else {
		slog.Info("Image generation completed", "monster", name, "subscribers", len(subs), "cached", out.Cached)
	}

	for _, s := range subs {
		s.fn(result)
	}
}

func deliver(fn func(Result), r Result) {
	if fn != nil {
		fn(r)
	}
}

func imageFrom(out *entities.GeneratedImage) *entities.ImageRef {
	if out == nil {
		return nil
	}
	return entities.NewImageRef(out.URL)
}
