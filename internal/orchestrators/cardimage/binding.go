// Package cardimage binds one card instance to the shared image cache and
// generation coordinator, and runs the regenerate accept/reject workflow.
package cardimage

//go:generate mockgen -destination=mock/mock_persister.go -package=cardimagemock github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage Persister

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/imagecache"
	"github.com/KirkDiggler/tentcards/internal/namematch"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/generation"
	"github.com/KirkDiggler/tentcards/internal/pkg/clock"
)

// Persister saves an accepted image as the creature's confirmed artwork.
type Persister interface {
	SaveMonsterImage(ctx context.Context, monsterName, imageURL string) (*entities.SavedImage, error)
}

// Config holds the parameters and dependencies of one card binding
type Config struct {
	Name    string
	Surface Surface
	// MayTrigger lets the card start a first generation. Print surfaces
	// never trigger regardless of this value.
	MayTrigger bool

	Coordinator generation.Service
	Cache       *imagecache.Store
	// Persister is required on interactive surfaces
	Persister Persister
	// Clock stamps cache-busting query strings; nil uses the real clock
	Clock clock.Clock

	// OnChange receives a fresh View after every state change
	OnChange func(View)
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if namematch.Normalize(c.Name) == "" {
		vb.RequiredField("Name")
	}
	if !c.Surface.Valid() {
		vb.InvalidField("Surface", fmt.Sprintf("unknown surface %q", c.Surface))
	}
	if c.Coordinator == nil {
		vb.RequiredField("Coordinator")
	}
	if c.Cache == nil {
		vb.RequiredField("Cache")
	}
	if c.Persister == nil && !c.Surface.IsPrint() {
		vb.RequiredField("Persister")
	}

	return vb.Build()
}

// Binding is the image state of a single card instance. Methods are safe for
// concurrent use; generation results arrive on coordinator goroutines.
type Binding struct {
	name        string
	surface     Surface
	mayTrigger  bool
	coordinator generation.Service
	cache       *imagecache.Store
	persister   Persister
	clock       clock.Clock
	onChange    func(View)

	mu      sync.Mutex
	mounted bool
	// epoch increments on every mount and unmount so late results from an
	// earlier mount are dropped
	epoch uint64
	sub   *generation.Subscription

	confirmed *entities.ImageRef
	pending   *entities.ImageRef

	generating   bool
	regenerating bool
	accepting    bool
	failed       bool
	err          error
}

// NewBinding creates an unmounted card binding
func NewBinding(cfg *Config) (*Binding, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &Binding{
		name:        cfg.Name,
		surface:     cfg.Surface,
		mayTrigger:  cfg.MayTrigger && !cfg.Surface.IsPrint(),
		coordinator: cfg.Coordinator,
		cache:       cfg.Cache,
		persister:   cfg.Persister,
		clock:       clk,
		onChange:    cfg.OnChange,
	}, nil
}

// Mount shows a cached image immediately when one exists. Otherwise it asks
// the coordinator, triggering generation only when the card may.
func (b *Binding) Mount(ctx context.Context) error {
	b.mu.Lock()
	if b.mounted {
		b.mu.Unlock()
		return errors.FailedPreconditionf("card for %s is already mounted", b.name)
	}
	b.mounted = true
	b.epoch++
	epoch := b.epoch
	b.mu.Unlock()

	if img, ok := b.cache.Lookup(b.name); ok {
		b.mu.Lock()
		if b.epoch == epoch {
			b.confirmed = img
			b.failed = false
		}
		view := b.viewLocked()
		b.mu.Unlock()

		b.notify(view)
		return nil
	}

	return b.ensure(ctx, epoch, b.mayTrigger)
}

// Unmount detaches the card from any in-flight generation. The backend call
// itself keeps running.
func (b *Binding) Unmount() {
	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return
	}
	b.mounted = false
	b.epoch++
	sub := b.sub
	b.sub = nil
	b.generating = false
	b.mu.Unlock()

	sub.Unsubscribe()
}

// State returns the current view of the card
func (b *Binding) State() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

// Generate is the manual trigger behind the placeholder of an interactive card.
func (b *Binding) Generate(ctx context.Context) error {
	if b.surface.IsPrint() {
		return errors.FailedPrecondition("print cards never start generation")
	}

	b.mu.Lock()
	if !b.mounted {
		b.mu.Unlock()
		return errors.FailedPreconditionf("card for %s is not mounted", b.name)
	}
	if b.confirmed != nil || b.generating {
		b.mu.Unlock()
		return nil
	}
	epoch := b.epoch
	b.mu.Unlock()

	return b.ensure(ctx, epoch, true)
}

// Regenerate asks for a brand new image. On success the image waits as
// pending until Accept or Reject; the confirmed image stays as the fallback.
func (b *Binding) Regenerate(ctx context.Context) error {
	if b.surface.IsPrint() {
		return errors.FailedPrecondition("regenerate is disabled on print cards")
	}

	b.mu.Lock()
	switch {
	case b.generating || b.regenerating:
		b.mu.Unlock()
		return errors.FailedPreconditionf("image for %s is already generating", b.name)
	case b.pending != nil:
		b.mu.Unlock()
		return errors.FailedPreconditionf("image for %s is awaiting confirmation", b.name)
	}
	b.regenerating = true
	b.err = nil
	view := b.viewLocked()
	b.mu.Unlock()
	b.notify(view)

	out, err := b.coordinator.Regenerate(ctx, &generation.RegenerateInput{Name: b.name})

	b.mu.Lock()
	b.regenerating = false
	if err != nil {
		b.err = err
		view = b.viewLocked()
		b.mu.Unlock()
		b.notify(view)

		slog.Warn("Regenerate failed", "monster", b.name, "surface", b.surface, "error", err)
		return err
	}
	b.pending = b.bust(out.Image)
	view = b.viewLocked()
	b.mu.Unlock()
	b.notify(view)

	slog.Info("Regenerated image awaiting confirmation", "monster", b.name, "image", view.Pending)
	return nil
}

// Accept persists the pending image, then makes it the confirmed image in the
// shared cache. A persist failure leaves both images untouched.
func (b *Binding) Accept(ctx context.Context) error {
	b.mu.Lock()
	if b.pending == nil {
		b.mu.Unlock()
		return errors.FailedPreconditionf("no pending image to accept for %s", b.name)
	}
	if b.accepting {
		b.mu.Unlock()
		return errors.FailedPreconditionf("image for %s is already being saved", b.name)
	}
	pending := b.pending
	b.accepting = true
	b.err = nil
	view := b.viewLocked()
	b.mu.Unlock()
	b.notify(view)

	saved, err := b.persister.SaveMonsterImage(ctx, b.name, pending.Locator)
	if err == nil && (saved == nil || !saved.Success) {
		err = errors.Internalf("backend did not confirm saving image for %s", b.name)
	}

	b.mu.Lock()
	b.accepting = false
	if err != nil {
		b.err = errors.Wrapf(err, "failed to save image for %s", b.name)
		view = b.viewLocked()
		b.mu.Unlock()
		b.notify(view)

		slog.Warn("Accept failed", "monster", b.name, "error", err)
		return view.Err
	}
	b.cache.Put(b.name, pending)
	b.confirmed = pending
	b.pending = nil
	b.failed = false
	view = b.viewLocked()
	b.mu.Unlock()
	b.notify(view)

	slog.Info("Accepted regenerated image", "monster", b.name, "path", saved.Path)
	return nil
}

// Reject discards the pending image and redisplays the confirmed one.
func (b *Binding) Reject() error {
	b.mu.Lock()
	if b.pending == nil {
		b.mu.Unlock()
		return errors.FailedPreconditionf("no pending image to reject for %s", b.name)
	}
	if b.accepting {
		b.mu.Unlock()
		return errors.FailedPreconditionf("image for %s is being saved", b.name)
	}
	b.pending = nil
	b.err = nil
	view := b.viewLocked()
	b.mu.Unlock()
	b.notify(view)
	return nil
}

func (b *Binding) ensure(ctx context.Context, epoch uint64, trigger bool) error {
	// settled is set by a result that lands before the output below is applied
	settled := false

	out, err := b.coordinator.EnsureImage(ctx, &generation.EnsureInput{
		Name:       b.name,
		MayTrigger: trigger,
		OnResult: func(r generation.Result) {
			b.mu.Lock()
			if b.epoch != epoch {
				b.mu.Unlock()
				return
			}
			settled = true
			b.generating = false
			if r.Failed {
				b.failed = true
			} else {
				b.confirmed = r.Image
				b.failed = false
			}
			view := b.viewLocked()
			b.mu.Unlock()
			b.notify(view)
		},
	})
	if err != nil {
		return errors.Wrapf(err, "failed to resolve image for %s", b.name)
	}

	b.mu.Lock()
	if b.epoch != epoch {
		b.mu.Unlock()
		out.Subscription.Unsubscribe()
		return nil
	}
	previous := b.sub
	b.sub = out.Subscription
	// a result that already landed has notified on its own
	apply := !settled
	if apply {
		if out.Image != nil {
			b.confirmed = out.Image
		}
		b.generating = out.Generating
		b.failed = out.Failed
	}
	view := b.viewLocked()
	b.mu.Unlock()

	if previous != out.Subscription {
		previous.Unsubscribe()
	}
	if apply {
		b.notify(view)
	}

	if out.Triggered {
		slog.Debug("Card triggered generation", "monster", b.name, "surface", b.surface)
	}
	return nil
}

// bust appends a timestamp so a regenerated image stored under the same
// path is not served from an HTTP cache. Inline images are returned as is.
func (b *Binding) bust(img *entities.ImageRef) *entities.ImageRef {
	if img == nil || img.IsInline() {
		return img
	}
	sep := "?"
	if strings.Contains(img.Locator, "?") {
		sep = "&"
	}
	return entities.NewImageRef(fmt.Sprintf("%s%sv=%d", img.Locator, sep, b.clock.Now().UnixMilli()))
}

func (b *Binding) viewLocked() View {
	displayed := b.confirmed
	if b.pending != nil {
		displayed = b.pending
	}
	interactive := !b.surface.IsPrint()

	return View{
		Name:                 b.name,
		Surface:              b.surface,
		Image:                displayed,
		Confirmed:            b.confirmed,
		Pending:              b.pending,
		Generating:           b.generating,
		Regenerating:         b.regenerating,
		Accepting:            b.accepting,
		Failed:               b.failed,
		AwaitingConfirmation: b.pending != nil,
		CanGenerate:          interactive && b.mounted && b.confirmed == nil && !b.generating,
		CanRegenerate:        interactive && !b.generating && !b.regenerating && b.pending == nil,
		Err:                  b.err,
	}
}

func (b *Binding) notify(v View) {
	if b.onChange != nil {
		b.onChange(v)
	}
}
