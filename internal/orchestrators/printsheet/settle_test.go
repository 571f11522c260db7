package printsheet_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet"
	printsheetmock "github.com/KirkDiggler/tentcards/internal/orchestrators/printsheet/mock"
)

func solidPNG(c color.Color, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

type SettleTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	fetcher *printsheetmock.MockFetcher
	ctx     context.Context
}

func TestSettleSuite(t *testing.T) {
	suite.Run(t, new(SettleTestSuite))
}

func (s *SettleTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.fetcher = printsheetmock.NewMockFetcher(s.ctrl)
	s.ctx = context.Background()
}

func (s *SettleTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SettleTestSuite) TestEmbedsEachDistinctImageOnce() {
	goblin := entities.NewImageRef("http://localhost:8080/images/monsters/goblin.png")
	orc := entities.NewImageRef("http://localhost:8080/images/monsters/orc.png")
	red := solidPNG(color.RGBA{R: 0xff, A: 0xff}, 4, 4)

	s.fetcher.EXPECT().FetchImage(gomock.Any(), goblin.Locator).Return(red, "image/png", nil).Times(1)
	s.fetcher.EXPECT().FetchImage(gomock.Any(), orc.Locator).Return(red, "", nil).Times(1)

	pages := printsheet.Paginate([]printsheet.Card{
		{Name: "Goblin", Image: goblin},
		{Name: "Goblin", Image: goblin},
		{Name: "Orc", Image: orc},
		{Name: "Goblin", Image: goblin},
		{Name: "Goblin", Image: goblin},
	})

	settled, report := printsheet.Settle(s.ctx, pages, s.fetcher, printsheet.SettleOptions{})
	s.Assert().Equal(2, report.Embedded)
	s.Assert().Equal(0, report.Failed)

	first := settled[0].Slots[0].Image
	s.Require().True(first.IsInline())
	s.Assert().Contains(first.Locator, "data:image/png;base64,")
	s.Assert().Same(first, settled[0].Slots[1].Image)
	s.Assert().Same(first, settled[1].Slots[0].Image)
	s.Assert().True(settled[0].Slots[2].Image.IsInline())
	s.Assert().Nil(settled[1].Slots[1])

	// input pages are left alone
	s.Assert().Same(goblin, pages[0].Slots[0].Image)
}

func (s *SettleTestSuite) TestFailuresKeepOriginalReference() {
	goblin := entities.NewImageRef("http://localhost:8080/images/monsters/goblin.png")
	notImage := entities.NewImageRef("http://localhost:8080/oops.html")

	s.fetcher.EXPECT().FetchImage(gomock.Any(), goblin.Locator).Return(nil, "", errors.Unavailable("refused"))
	s.fetcher.EXPECT().FetchImage(gomock.Any(), notImage.Locator).Return([]byte("<html></html>"), "text/html", nil)

	pages := printsheet.Paginate([]printsheet.Card{
		{Name: "Goblin", Image: goblin},
		{Name: "Broken", Image: notImage},
	})

	settled, report := printsheet.Settle(s.ctx, pages, s.fetcher, printsheet.SettleOptions{})
	s.Assert().Equal(0, report.Embedded)
	s.Assert().Equal(2, report.Failed)
	s.Assert().Same(goblin, settled[0].Slots[0].Image)
	s.Assert().Same(notImage, settled[0].Slots[1].Image)
}

func (s *SettleTestSuite) TestStuckImageCannotHangSettle() {
	stuck := entities.NewImageRef("http://slow.example/dragon.png")
	release := make(chan struct{})
	defer close(release)

	s.fetcher.EXPECT().
		FetchImage(gomock.Any(), stuck.Locator).
		DoAndReturn(func(_ context.Context, _ string) ([]byte, string, error) {
			<-release
			return nil, "", nil
		})

	pages := printsheet.Paginate([]printsheet.Card{{Name: "Dragon", Image: stuck}})

	start := time.Now()
	settled, report := printsheet.Settle(s.ctx, pages, s.fetcher, printsheet.SettleOptions{
		ImageTimeout: 50 * time.Millisecond,
		BatchTimeout: time.Second,
	})
	s.Assert().Less(time.Since(start), time.Second)
	s.Assert().Equal(1, report.Failed)
	s.Assert().Same(stuck, settled[0].Slots[0].Image)
}

func (s *SettleTestSuite) TestInlineAndMissingImagesNeedNoFetch() {
	inline := entities.NewImageRef("data:image/png;base64,AAAA")
	pages := printsheet.Paginate([]printsheet.Card{
		{Name: "Goblin", Image: inline},
		{Name: "Barkeep"},
	})

	settled, report := printsheet.Settle(s.ctx, pages, s.fetcher, printsheet.SettleOptions{})
	s.Assert().Equal(printsheet.SettleReport{}, report)
	s.Assert().Same(inline, settled[0].Slots[0].Image)
	s.Assert().Nil(settled[0].Slots[1].Image)
}
