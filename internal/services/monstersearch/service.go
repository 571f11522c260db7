// Package monstersearch answers name queries against the monster source
package monstersearch

//go:generate mockgen -destination=mock/mock_service.go -package=monstersearchmock github.com/KirkDiggler/tentcards/internal/services/monstersearch Service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/KirkDiggler/tentcards/internal/clients/external"
	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/namematch"
)

const (
	DefaultLimit    = 20
	MaxLimit        = 100
	DefaultCacheTTL = 30 * time.Minute

	listingKey = "listing"
)

// Service defines the search operations
type Service interface {
	Search(ctx context.Context, input *SearchInput) (*SearchOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
}

// SearchInput is a free-text query. Limit zero means DefaultLimit.
type SearchInput struct {
	Query string
	Limit int
}

// SearchOutput holds at most Limit monsters; Total counts every match
type SearchOutput struct {
	Monsters []*entities.Monster
	Total    int
}

type GetInput struct {
	Key string
}

type GetOutput struct {
	Monster *entities.Monster
}

// Config holds the dependencies for the search service
type Config struct {
	External external.Client
	CacheTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.External == nil {
		vb.RequiredField("External")
	}
	if c.CacheTTL < 0 {
		vb.InvalidField("CacheTTL", "must not be negative")
	}
	return vb.Build()
}

type service struct {
	external external.Client
	cache    *cache.Cache
}

// New creates a search service
func New(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	return &service{
		external: cfg.External,
		cache:    cache.New(ttl, 2*ttl),
	}, nil
}

// Search implements Service
func (s *service) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	limit := input.Limit
	switch {
	case limit < 0:
		return nil, errors.InvalidArgumentf("limit %d must not be negative", limit)
	case limit == 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	listing, err := s.listing(ctx)
	if err != nil {
		return nil, err
	}

	matches := filter(listing, namematch.Normalize(input.Query))
	out := &SearchOutput{Total: len(matches)}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out.Monsters = matches

	slog.Debug("Monster search", "query", input.Query, "total", out.Total, "returned", len(out.Monsters))
	return out, nil
}

// Get implements Service
func (s *service) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || strings.TrimSpace(input.Key) == "" {
		return nil, errors.InvalidArgument("key is required")
	}

	cacheKey := "monster:" + input.Key
	if v, ok := s.cache.Get(cacheKey); ok {
		return &GetOutput{Monster: v.(*entities.Monster)}, nil
	}

	monster, err := s.external.GetMonster(ctx, input.Key)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get monster %s", input.Key)
	}
	s.cache.Set(cacheKey, monster, cache.DefaultExpiration)

	return &GetOutput{Monster: monster}, nil
}

func (s *service) listing(ctx context.Context) ([]*entities.Monster, error) {
	if v, ok := s.cache.Get(listingKey); ok {
		return v.([]*entities.Monster), nil
	}

	monsters, err := s.external.ListMonsters(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load monster listing")
	}
	s.cache.Set(listingKey, monsters, cache.DefaultExpiration)
	slog.Info("Monster listing cached", "count", len(monsters))

	return monsters, nil
}

// rank orders exact matches, then prefix matches, then any-word matches
const (
	rankExact = iota
	rankPrefix
	rankWord
	rankContains
)

func filter(listing []*entities.Monster, query string) []*entities.Monster {
	if query == "" {
		return append([]*entities.Monster(nil), listing...)
	}
	terms := strings.Fields(query)

	type match struct {
		monster *entities.Monster
		rank    int
	}
	var matches []match
	for _, m := range listing {
		name := namematch.Normalize(m.Name)
		if !containsAll(name, terms) {
			continue
		}
		rank := rankContains
		switch {
		case name == query:
			rank = rankExact
		case strings.HasPrefix(name, query):
			rank = rankPrefix
		case wordPrefix(name, terms[0]):
			rank = rankWord
		}
		matches = append(matches, match{monster: m, rank: rank})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})

	out := make([]*entities.Monster, len(matches))
	for i, m := range matches {
		out[i] = m.monster
	}
	return out
}

func containsAll(name string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

func wordPrefix(name, term string) bool {
	for _, w := range strings.Fields(name) {
		if strings.HasPrefix(w, term) {
			return true
		}
	}
	return false
}
