package printsheet

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg" // inline images may be JPEG
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // and WebP from some providers

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
)

// Sheets are US Letter in landscape, rasterized at a fixed resolution.
const (
	DPI               = 150
	SheetWidthInches  = 11.0
	SheetHeightInches = 8.5
)

// SheetBounds is the pixel size of one rasterized sheet
var SheetBounds = image.Rect(0, 0, int(SheetWidthInches*DPI), int(SheetHeightInches*DPI))

const (
	cellPadding = 24
	labelHeight = 48
	borderWidth = 3
)

var (
	borderColor      = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}
	emptyBorderColor = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	placeholderColor = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
)

//go:generate mockgen -destination=mock/mock_rasterizer.go -package=printsheetmock github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet Rasterizer,Fetcher

// Rasterizer draws one page as a bitmap of SheetBounds.
type Rasterizer interface {
	Rasterize(ctx context.Context, page Page) (image.Image, error)
}

// SheetRasterizer lays cards out two by two. Cards whose image cannot be
// decoded get a blank art box; that is never an error.
type SheetRasterizer struct {
	face font.Face
}

// NewSheetRasterizer creates a rasterizer using the built-in bitmap font
func NewSheetRasterizer() *SheetRasterizer {
	return &SheetRasterizer{face: basicfont.Face7x13}
}

// Rasterize implements Rasterizer
func (r *SheetRasterizer) Rasterize(ctx context.Context, page Page) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sheet := image.NewRGBA(SheetBounds)
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	cellW, cellH := SheetBounds.Dx()/2, SheetBounds.Dy()/2
	for i, card := range page.Slots {
		col, row := i%2, i/2
		cell := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH).Inset(cellPadding)
		r.drawCard(sheet, cell, card)
	}

	return sheet, nil
}

func (r *SheetRasterizer) drawCard(dst *image.RGBA, cell image.Rectangle, card *Card) {
	if card == nil {
		drawBorder(dst, cell, emptyBorderColor)
		return
	}
	drawBorder(dst, cell, borderColor)

	inner := cell.Inset(borderWidth * 2)
	art := image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, inner.Max.Y-labelHeight)
	label := image.Rect(inner.Min.X, art.Max.Y, inner.Max.X, inner.Max.Y)

	if src, err := decodeInline(card.Image); err == nil {
		draw.CatmullRom.Scale(dst, fit(src.Bounds(), art), src, src.Bounds(), draw.Over, nil)
	} else {
		draw.Draw(dst, art, image.NewUniform(placeholderColor), image.Point{}, draw.Src)
	}

	r.drawLabel(dst, label, card.Name)
}

func (r *SheetRasterizer) drawLabel(dst *image.RGBA, area image.Rectangle, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: r.face,
	}

	width := d.MeasureString(text)
	x := fixed.I(area.Min.X) + (fixed.I(area.Dx())-width)/2
	if x < fixed.I(area.Min.X) {
		x = fixed.I(area.Min.X)
	}
	metrics := r.face.Metrics()
	y := fixed.I(area.Min.Y) + (fixed.I(area.Dy())+metrics.Ascent-metrics.Descent)/2

	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
}

func drawBorder(dst *image.RGBA, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+borderWidth), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-borderWidth, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+borderWidth, r.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-borderWidth, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Src)
}

// fit returns the largest rectangle with src's aspect ratio centered in box
func fit(src, box image.Rectangle) image.Rectangle {
	if src.Dx() == 0 || src.Dy() == 0 {
		return box
	}
	w, h := box.Dx(), box.Dx()*src.Dy()/src.Dx()
	if h > box.Dy() {
		w, h = box.Dy()*src.Dx()/src.Dy(), box.Dy()
	}
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func decodeInline(ref *entities.ImageRef) (image.Image, error) {
	data, _, err := ref.DecodeInline()
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "embedded image cannot be decoded")
	}
	return img, nil
}
