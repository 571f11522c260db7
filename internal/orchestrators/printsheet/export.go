// Package printsheet lays the working set out on Letter landscape sheets and
// writes them as one PDF, four tent cards per page.
package printsheet

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
)

// Service defines the export operations
type Service interface {
	// Export writes the working set to input.Path as a PDF
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	// Render rasterizes already settled pages into w
	Render(ctx context.Context, pages []Page, w io.Writer) error
}

// ExportInput is the working set to print and where to write it
type ExportInput struct {
	Entries []entities.WorkingSetEntry
	Path    string
}

// ExportOutput describes a finished export
type ExportOutput struct {
	Path     string
	Pages    int
	Cards    int
	Embedded int
	// Unembedded images were printed from their original reference
	Unembedded int
}

// Config holds the dependencies for the exporter
type Config struct {
	Images  ImageSource
	Fetcher Fetcher
	// Rasterizer defaults to a SheetRasterizer
	Rasterizer Rasterizer
	Settle     SettleOptions
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Images == nil {
		vb.RequiredField("Images")
	}
	if c.Fetcher == nil {
		vb.RequiredField("Fetcher")
	}
	if c.Settle.ImageTimeout < 0 {
		vb.InvalidField("Settle.ImageTimeout", "must not be negative")
	}
	if c.Settle.BatchTimeout < 0 {
		vb.InvalidField("Settle.BatchTimeout", "must not be negative")
	}
	if c.Settle.Concurrency < 0 {
		vb.InvalidField("Settle.Concurrency", "must not be negative")
	}

	return vb.Build()
}

type exporter struct {
	images     ImageSource
	fetcher    Fetcher
	rasterizer Rasterizer
	settle     SettleOptions

	busy atomic.Bool
}

// NewExporter creates a new print exporter
func NewExporter(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	rasterizer := cfg.Rasterizer
	if rasterizer == nil {
		rasterizer = NewSheetRasterizer()
	}

	return &exporter{
		images:     cfg.Images,
		fetcher:    cfg.Fetcher,
		rasterizer: rasterizer,
		settle:     cfg.Settle.withDefaults(),
	}, nil
}

// Export implements Service. Only one export runs at a time. The output
// file appears only when every page was written; a partial document is
// always removed.
func (e *exporter) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Path == "" {
		return nil, errors.InvalidArgument("output path is required")
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, errors.FailedPrecondition("an export is already in progress")
	}
	defer e.busy.Store(false)

	start := time.Now()
	cards := Expand(input.Entries, e.images)
	pages, report := Settle(ctx, Paginate(cards), e.fetcher, e.settle)

	tmp, err := os.CreateTemp(filepath.Dir(input.Path), ".tentcards-*.pdf")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create output in %s", filepath.Dir(input.Path))
	}
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := e.Render(ctx, pages, tmp); err != nil {
		slog.Error("Export failed", "path", input.Path, "pages", len(pages), "error", err)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finish output document")
	}
	if err := os.Rename(tmp.Name(), input.Path); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", input.Path)
	}
	committed = true

	slog.Info("Export completed",
		"path", input.Path,
		"pages", len(pages),
		"cards", len(cards),
		"embedded", report.Embedded,
		"unembedded", report.Failed,
		"duration", time.Since(start))

	return &ExportOutput{
		Path:       input.Path,
		Pages:      len(pages),
		Cards:      len(cards),
		Embedded:   report.Embedded,
		Unembedded: report.Failed,
	}, nil
}

// Render implements Service. The first page starts the document and each
// later page is appended in order.
func (e *exporter) Render(ctx context.Context, pages []Page, w io.Writer) error {
	pdf := fpdf.New("L", "in", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for _, page := range pages {
		bitmap, err := e.rasterizer.Rasterize(ctx, page)
		if err != nil {
			return errors.Wrapf(err, "failed to rasterize page %d", page.Number)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, bitmap); err != nil {
			return errors.Wrapf(err, "failed to encode page %d", page.Number)
		}

		name := fmt.Sprintf("page-%d", page.Number)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 0, 0, SheetWidthInches, SheetHeightInches, false, opts, 0, "")
		if pdf.Err() {
			return errors.Wrapf(pdf.Error(), "failed to add page %d", page.Number)
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "failed to assemble document")
	}
	return nil
}
