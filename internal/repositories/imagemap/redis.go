package imagemap

import (
	"context"
	"strings"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/namematch"
	redisclient "github.com/KirkDiggler/tentcards/internal/redis"
)

const (
	// DefaultKey is the redis hash holding normalized name -> url
	DefaultKey = "monster_images"

	errNameEmpty = "monster name cannot be empty"
)

// RedisConfig contains configuration for the redis image map
type RedisConfig struct {
	Client redisclient.Client
	// Key overrides DefaultKey
	Key string
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	key    string
}

// NewRedisRepository creates a redis-backed image map
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}

	return &redisRepository{client: cfg.Client, key: key}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	name := namematch.Normalize(input.Name)
	if name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	url, err := r.client.HGet(ctx, r.key, name).Result()
	if err != nil {
		if err == redisclient.Nil {
			return nil, errors.NotFoundf("no image recorded for %s", name)
		}
		return nil, errors.Wrapf(err, "failed to get image for %s", name)
	}

	return &GetOutput{Name: name, URL: url}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	name := namematch.Normalize(input.Name)
	if name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}
	if strings.TrimSpace(input.URL) == "" {
		return nil, errors.InvalidArgument("image url cannot be empty")
	}

	if err := r.client.HSet(ctx, r.key, name, input.URL).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to record image for %s", name)
	}

	return &PutOutput{Name: name}, nil
}

func (r *redisRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	images, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list images")
	}
	return &ListOutput{Images: images}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	name := namematch.Normalize(input.Name)
	if name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	n, err := r.client.HDel(ctx, r.key, name).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete image for %s", name)
	}
	return &DeleteOutput{Deleted: n > 0}, nil
}

func (r *redisRepository) Seed(ctx context.Context, input SeedInput) (*SeedOutput, error) {
	if len(input.Images) == 0 {
		return &SeedOutput{}, nil
	}

	pipe := r.client.TxPipeline()
	var cmds []interface{ Val() bool }
	for name, url := range input.Images {
		key := namematch.Normalize(name)
		if key == "" || strings.TrimSpace(url) == "" {
			continue
		}
		cmds = append(cmds, pipe.HSetNX(ctx, r.key, key, url))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to seed image map")
	}

	added := 0
	for _, cmd := range cmds {
		if cmd.Val() {
			added++
		}
	}
	return &SeedOutput{Added: added}, nil
}
