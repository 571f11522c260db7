// Package idgen produces the revision tokens that keep regenerated artwork
// from overwriting the canonical blob of a monster.
package idgen

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// TokenLength is the number of hex characters a RandomGenerator emits
const TokenLength = 12

// Generator produces unique tokens
type Generator interface {
	Generate() string
}

// RandomGenerator emits short hex tokens cut from a v4 UUID
type RandomGenerator struct {
	prefix string
}

// NewRandom creates a random generator. A non-empty prefix is joined with "-".
func NewRandom(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: prefix}
}

// Generate implements Generator
func (g *RandomGenerator) Generate() string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:TokenLength]
	return join(g.prefix, token)
}

// SequentialGenerator counts up from 1, for deterministic tests
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate implements Generator
func (g *SequentialGenerator) Generate() string {
	return join(g.prefix, strconv.FormatUint(g.counter.Add(1), 10))
}

func join(prefix, token string) string {
	if prefix == "" {
		return token
	}
	return prefix + "-" + token
}
