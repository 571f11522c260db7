package printsheet

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
)

// Fetcher downloads the bytes behind a remote image locator.
type Fetcher interface {
	FetchImage(ctx context.Context, locator string) ([]byte, string, error)
}

const (
	DefaultImageTimeout = 10 * time.Second
	DefaultBatchTimeout = 30 * time.Second
	DefaultConcurrency  = 4
)

// SettleOptions bounds how long image embedding may take. Zero values use
// the defaults.
type SettleOptions struct {
	ImageTimeout time.Duration
	BatchTimeout time.Duration
	Concurrency  int
}

func (o SettleOptions) withDefaults() SettleOptions {
	if o.ImageTimeout <= 0 {
		o.ImageTimeout = DefaultImageTimeout
	}
	if o.BatchTimeout <= 0 {
		o.BatchTimeout = DefaultBatchTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// SettleReport summarizes one settle pass
type SettleReport struct {
	Embedded int
	Failed   int
}

// Settle replaces every remote image on every page with an inline copy so the
// rasterizer never touches the network. Each distinct image is fetched once.
// Failures are swallowed and leave the original reference in place; the
// returned pages are fully settled either way.
func Settle(ctx context.Context, pages []Page, fetcher Fetcher, opts SettleOptions) ([]Page, SettleReport) {
	var remote []*entities.ImageRef
	seen := make(map[*entities.ImageRef]bool)
	for _, page := range pages {
		for _, card := range page.Slots {
			if card == nil || card.Image == nil || card.Image.IsInline() || seen[card.Image] {
				continue
			}
			seen[card.Image] = true
			remote = append(remote, card.Image)
		}
	}
	if len(remote) == 0 || fetcher == nil {
		return pages, SettleReport{Failed: len(remote)}
	}
	opts = opts.withDefaults()

	batchCtx, cancel := context.WithTimeout(ctx, opts.BatchTimeout)
	defer cancel()

	var (
		mu       sync.Mutex
		embedded = make(map[*entities.ImageRef]*entities.ImageRef, len(remote))
	)

	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for _, ref := range remote {
		g.Go(func() error {
			inline, err := embed(batchCtx, fetcher, ref, opts.ImageTimeout)
			if err != nil {
				slog.Warn("Image embedding failed, keeping original reference", "image", ref, "error", err)
				return nil
			}
			mu.Lock()
			embedded[ref] = inline
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	mu.Lock()
	defer mu.Unlock()

	settled := make([]Page, len(pages))
	for i, page := range pages {
		settled[i].Number = page.Number
		for j, card := range page.Slots {
			if card == nil {
				continue
			}
			c := *card
			if inline, ok := embedded[c.Image]; ok {
				c.Image = inline
			}
			settled[i].Slots[j] = &c
		}
	}

	return settled, SettleReport{Embedded: len(embedded), Failed: len(remote) - len(embedded)}
}

type fetchResult struct {
	data        []byte
	contentType string
	err         error
}

// embed waits for one fetch without trusting the fetcher to honor ctx
func embed(ctx context.Context, fetcher Fetcher, ref *entities.ImageRef, timeout time.Duration) (*entities.ImageRef, error) {
	imgCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		data, contentType, err := fetcher.FetchImage(imgCtx, ref.Locator)
		done <- fetchResult{data: data, contentType: contentType, err: err}
	}()

	select {
	case <-imgCtx.Done():
		return nil, errors.FromContext(imgCtx.Err(), "image fetch abandoned")
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		return inlineImage(r.data, r.contentType)
	}
}

func inlineImage(data []byte, contentType string) (*entities.ImageRef, error) {
	if len(data) == 0 {
		return nil, errors.InvalidArgument("empty image body")
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.InvalidArgumentf("not an image: %s", contentType)
	}

	return entities.NewInlineImageRef(contentType, data), nil
}
