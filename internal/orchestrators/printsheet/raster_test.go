package printsheet_test

import (
	"context"
	"encoding/base64"
	"image/color"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet"
)

type RasterTestSuite struct {
	suite.Suite
	rasterizer *printsheet.SheetRasterizer
}

func TestRasterSuite(t *testing.T) {
	suite.Run(t, new(RasterTestSuite))
}

func (s *RasterTestSuite) SetupTest() {
	s.rasterizer = printsheet.NewSheetRasterizer()
}

func (s *RasterTestSuite) TestSheetSize() {
	s.Assert().Equal(1650, printsheet.SheetBounds.Dx())
	s.Assert().Equal(1275, printsheet.SheetBounds.Dy())
}

func (s *RasterTestSuite) TestDrawsCardsInGrid() {
	red := "data:image/png;base64," + base64.StdEncoding.EncodeToString(solidPNG(color.RGBA{R: 0xff, A: 0xff}, 10, 10))

	page := printsheet.Paginate([]printsheet.Card{
		{Name: "Goblin", Image: entities.NewImageRef(red)},
		{Name: "Orc", Image: entities.NewImageRef("http://localhost:8080/images/monsters/orc.png")},
		{Name: "Barkeep"},
	})[0]

	img, err := s.rasterizer.Rasterize(context.Background(), page)
	s.Require().NoError(err)
	s.Assert().Equal(printsheet.SheetBounds, img.Bounds())

	// art box center of the first cell shows the embedded image
	r, g, b, _ := img.At(412, 294).RGBA()
	s.Assert().Greater(r>>8, uint32(0xc0))
	s.Assert().Less(g>>8, uint32(0x40))
	s.Assert().Less(b>>8, uint32(0x40))

	// an unembedded image prints as a blank art box
	r, g, b, _ = img.At(825+412, 294).RGBA()
	s.Assert().Equal([]uint32{0xee, 0xee, 0xee}, []uint32{r >> 8, g >> 8, b >> 8})

	// the empty fourth slot stays white
	r, g, b, _ = img.At(825+412, 637+320).RGBA()
	s.Assert().Equal([]uint32{0xff, 0xff, 0xff}, []uint32{r >> 8, g >> 8, b >> 8})
}

func (s *RasterTestSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.rasterizer.Rasterize(ctx, printsheet.Paginate(nil)[0])
	s.Assert().ErrorIs(err, context.Canceled)
}
