// Package external is the location for the dnd5e-api client
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/tentcards/internal/clients/external Client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	dnd5eEntities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
)

const (
	DefaultBaseURL     = "https://www.dnd5eapi.co/api/2014/"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultCacheTTL    = 24 * time.Hour
)

// Client defines the interface for external monster data
type Client interface {
	// ListMonsters returns every monster reference the source knows about
	ListMonsters(ctx context.Context) ([]*entities.Monster, error)

	// GetMonster fetches one monster by its source key
	GetMonster(ctx context.Context, key string) (*entities.Monster, error)
}

type client struct {
	dnd5eClient dnd5e.Interface
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.HTTPTimeout < 0 {
		vb.InvalidField("HTTPTimeout", "must not be negative")
	}
	if cfg.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return nil
}

// New creates a new external client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	// Wrap with caching; the monster list rarely changes
	return &client{
		dnd5eClient: dnd5e.NewCachedClient(baseClient, cfg.CacheTTL),
	}, nil
}

func (c *client) ListMonsters(_ context.Context) ([]*entities.Monster, error) {
	slog.Info("Calling D&D 5e API to list monsters")
	refs, err := c.dnd5eClient.ListMonsters()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list monsters from D&D 5e API")
	}
	slog.Info("Got monster references", "count", len(refs))

	monsters := make([]*entities.Monster, 0, len(refs))
	for _, ref := range refs {
		if ref == nil || ref.Name == "" {
			continue
		}
		monsters = append(monsters, &entities.Monster{Key: ref.Key, Name: ref.Name})
	}
	return monsters, nil
}

func (c *client) GetMonster(_ context.Context, key string) (*entities.Monster, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.InvalidArgument("monster key is required")
	}

	monster, err := c.dnd5eClient.GetMonster(key)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get monster from D&D 5e API").
			WithMeta("key", key)
	}
	if monster == nil {
		return nil, errors.NotFoundf("monster %s not found", key)
	}

	return convertMonster(monster), nil
}

func convertMonster(m *dnd5eEntities.Monster) *entities.Monster {
	key := m.Key
	if key == "" {
		key = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(m.Name), " ", "-"))
	}
	return &entities.Monster{Key: key, Name: m.Name}
}
