package idgen_test

import (
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/tentcards/internal/pkg/idgen"
)

func TestRandomGenerator(t *testing.T) {
	g := idgen.NewRandom("rev")
	a, b := g.Generate(), g.Generate()

	assert.NotEqual(t, a, b)
	require.True(t, strings.HasPrefix(a, "rev-"))

	token := strings.TrimPrefix(a, "rev-")
	assert.Len(t, token, idgen.TokenLength)
	_, err := hex.DecodeString(token)
	assert.NoError(t, err)

	assert.Len(t, idgen.NewRandom("").Generate(), idgen.TokenLength)
}

func TestSequentialGenerator(t *testing.T) {
	g := idgen.NewSequential("rev")
	assert.Equal(t, "rev-1", g.Generate())
	assert.Equal(t, "rev-2", g.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}

func TestSequentialGeneratorIsConcurrencySafe(t *testing.T) {
	g := idgen.NewSequential("")
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, dup := seen.LoadOrStore(g.Generate(), true)
			assert.False(t, dup)
		}()
	}
	wg.Wait()
	assert.Equal(t, "51", g.Generate())
}
