package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/imagecache"
)

type staticBackend struct {
	url   string
	calls int
}

func (b *staticBackend) GenerateMonsterImage(_ context.Context, _ string) (*entities.GeneratedImage, error) {
	b.calls++
	return &entities.GeneratedImage{URL: b.url}, nil
}

func (b *staticBackend) RegenerateMonsterImage(_ context.Context, _ string) (*entities.GeneratedImage, error) {
	return &entities.GeneratedImage{URL: b.url}, nil
}

func newTestCoordinator(t *testing.T, backend Backend) *coordinator {
	t.Helper()
	svc, err := NewCoordinator(&Config{Backend: backend, Cache: imagecache.New(nil)})
	require.NoError(t, err)
	return svc.(*coordinator)
}

func TestJoiningCompletedRecordDoesNotSubscribe(t *testing.T) {
	backend := &staticBackend{url: "http://localhost:8080/images/monsters/owlbear.png"}
	c := newTestCoordinator(t, backend)

	// a completed record whose cache entry is gone
	rec := &record{state: StateCompleted}
	c.records["owlbear"] = rec

	for i := 0; i < 5; i++ {
		delivered := 0
		out, err := c.EnsureImage(context.Background(), &EnsureInput{
			Name:       "Owlbear",
			MayTrigger: true,
			OnResult:   func(Result) { delivered++ },
		})
		require.NoError(t, err)
		assert.Nil(t, out.Subscription)
		assert.False(t, out.Triggered)
		assert.Equal(t, 1, delivered, "completed join delivers before returning")
		out.Subscription.Unsubscribe()
	}

	assert.Empty(t, rec.subs)
	assert.Equal(t, StateCompleted, c.Status("owlbear"))
	assert.Zero(t, backend.calls)
}

func TestSettleReleasesSubscribersOnCompletion(t *testing.T) {
	backend := &staticBackend{url: "http://localhost:8080/images/monsters/mimic.png"}
	c := newTestCoordinator(t, backend)

	rec := &record{state: StateGenerating}
	c.records["mimic"] = rec
	c.mu.Lock()
	sub := c.subscribeLocked("mimic", rec, func(Result) {})
	c.mu.Unlock()
	require.Len(t, rec.subs, 1)

	out, err := backend.GenerateMonsterImage(context.Background(), "Mimic")
	require.NoError(t, err)
	c.settle("Mimic", out, nil)

	assert.Empty(t, rec.subs)
	assert.Equal(t, StateCompleted, c.Status("mimic"))
	sub.Unsubscribe()
	assert.Equal(t, StateCompleted, c.Status("mimic"))
}
