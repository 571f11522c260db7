// Package session owns the per-run client state: the image cache, the
// generation coordinator, the working set and the print exporter.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/tentcards/internal/clients/tentapi"
	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/imagecache"
	"github.com/KirkDiggler/tentcards/internal/namematch"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/generation"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet"
	"github.com/KirkDiggler/tentcards/internal/pkg/clock"
)

// EventExport is recorded with the backend after every successful export
const EventExport = "export"

// Config holds the dependencies for a session
type Config struct {
	API               tentapi.Client
	GenerationTimeout time.Duration
	Settle            printsheet.SettleOptions
	Clock             clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.API == nil {
		vb.RequiredField("API")
	}
	if c.GenerationTimeout < 0 {
		vb.InvalidField("GenerationTimeout", "must not be negative")
	}

	return vb.Build()
}

// Session is constructed once per run and passed to everything that shows
// or prints cards.
type Session struct {
	api         tentapi.Client
	cache       *imagecache.Store
	coordinator generation.Service
	exporter    printsheet.Service
	clock       clock.Clock

	mu      sync.Mutex
	entries []entities.WorkingSetEntry
}

// New creates a session seeded with the backend's image map. A snapshot that
// cannot be fetched leaves the cache empty; the session still starts.
func New(ctx context.Context, cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	snapshot, err := cfg.API.ImageSnapshot(ctx)
	if err != nil {
		slog.Warn("Image map unavailable, starting with an empty cache", "error", err)
		snapshot = nil
	}
	cache := imagecache.New(snapshot)

	coordinator, err := generation.NewCoordinator(&generation.Config{
		Backend: cfg.API,
		Cache:   cache,
		Timeout: cfg.GenerationTimeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create generation coordinator")
	}

	exporter, err := printsheet.NewExporter(&printsheet.Config{
		Images:  cache,
		Fetcher: cfg.API,
		Settle:  cfg.Settle,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exporter")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	slog.Info("Session started", "cached_images", cache.Len())
	return &Session{
		api:         cfg.API,
		cache:       cache,
		coordinator: coordinator,
		exporter:    exporter,
		clock:       clk,
	}, nil
}

// Cache returns the session image cache
func (s *Session) Cache() *imagecache.Store {
	return s.cache
}

// Coordinator returns the session generation coordinator
func (s *Session) Coordinator() generation.Service {
	return s.coordinator
}

// ReloadImages merges a fresh image-map snapshot into the cache
func (s *Session) ReloadImages(ctx context.Context) error {
	snapshot, err := s.api.ImageSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch image map")
	}
	s.cache.Reload(snapshot)
	return nil
}

// Search finds monsters by name
func (s *Session) Search(ctx context.Context, query string, limit int) (*tentapi.SearchResult, error) {
	result, err := s.api.SearchMonsters(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search monsters for %q", query)
	}
	return result, nil
}

// NewBinding creates a card binding on surface. Interactive surfaces may
// trigger generation; print surfaces only observe.
func (s *Session) NewBinding(name string, surface cardimage.Surface, onChange func(cardimage.View)) (*cardimage.Binding, error) {
	return cardimage.NewBinding(&cardimage.Config{
		Name:        name,
		Surface:     surface,
		MayTrigger:  !surface.IsPrint(),
		Coordinator: s.coordinator,
		Cache:       s.cache,
		Persister:   s.api,
		Clock:       s.clock,
		OnChange:    onChange,
	})
}

// PrintPreview mounts one print card per distinct working-set entry. The
// caller unmounts them when the preview closes.
func (s *Session) PrintPreview(ctx context.Context, onChange func(cardimage.View)) ([]*cardimage.Binding, error) {
	entries := s.WorkingSet()
	bindings := make([]*cardimage.Binding, 0, len(entries))
	for _, entry := range entries {
		b, err := s.NewBinding(entry.Monster.Name, cardimage.SurfacePrint, onChange)
		if err != nil {
			unmountAll(bindings)
			return nil, err
		}
		if err := b.Mount(ctx); err != nil {
			unmountAll(bindings)
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

func unmountAll(bindings []*cardimage.Binding) {
	for _, b := range bindings {
		b.Unmount()
	}
}

// Export prints the working set to path
func (s *Session) Export(ctx context.Context, path string) (*printsheet.ExportOutput, error) {
	out, err := s.exporter.Export(ctx, &printsheet.ExportInput{
		Entries: s.WorkingSet(),
		Path:    path,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.api.RecordEvent(ctx, EventExport); err != nil {
		slog.Debug("Failed to record export event", "error", err)
	}
	return out, nil
}

// Add puts one more copy of monster in the working set
func (s *Session) Add(monster entities.Monster) error {
	key := namematch.Normalize(monster.Name)
	if key == "" {
		return errors.InvalidArgument("monster name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(key); i >= 0 {
		s.entries[i].Quantity++
		return nil
	}
	s.entries = append(s.entries, entities.WorkingSetEntry{Monster: monster, Quantity: 1})
	return nil
}

// AddCustom adds a hand-authored creature that has no backend record
func (s *Session) AddCustom(name string) error {
	return s.Add(entities.Monster{Name: name, Custom: true})
}

// SetQuantity changes how many copies of name are printed. Zero or less removes it.
func (s *Session) SetQuantity(name string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(namematch.Normalize(name))
	if i < 0 {
		return errors.NotFoundf("%s is not in the working set", name)
	}
	if quantity <= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		return nil
	}
	s.entries[i].Quantity = quantity
	return nil
}

// Remove drops name from the working set
func (s *Session) Remove(name string) error {
	return s.SetQuantity(name, 0)
}

// WorkingSet returns a copy of the working set in insertion order
func (s *Session) WorkingSet() []entities.WorkingSetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.WorkingSetEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Session) indexLocked(key string) int {
	if key == "" {
		return -1
	}
	for i, entry := range s.entries {
		if namematch.Normalize(entry.Monster.Name) == key {
			return i
		}
	}
	return -1
}
