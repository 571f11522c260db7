package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the go-redis surface the repositories are written against. Tests
// back it with miniredis.
type Client interface {
	redis.UniversalClient
}

// Nil is returned by redis when a key or hash field does not exist
var Nil = redis.Nil
