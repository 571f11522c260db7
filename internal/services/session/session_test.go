package session_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/tentcards/internal/clients/tentapi"
	tentapimock "github.com/KirkDiggler/tentcards/internal/clients/tentapi/mock"
	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/orchestrators/cardimage"
	"github.com/KirkDiggler/tentcards/internal/services/session"
)

const dragonURL = "http://localhost:8080/images/monsters/young-red-dragon.png"

type SessionTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
	api  *tentapimock.MockClient
	ctx  context.Context
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.api = tentapimock.NewMockClient(s.ctrl)
	s.ctx = context.Background()
}

func (s *SessionTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SessionTestSuite) newSession(snapshot map[string]string) *session.Session {
	s.api.EXPECT().ImageSnapshot(gomock.Any()).Return(snapshot, nil)
	sess, err := session.New(s.ctx, &session.Config{API: s.api})
	s.Require().NoError(err)
	return sess
}

func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(3, 3, color.RGBA{R: 0xaa, A: 0xff})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func (s *SessionTestSuite) TestNewValidation() {
	_, err := session.New(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = session.New(s.ctx, &session.Config{})
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "API: is required")
}

func (s *SessionTestSuite) TestSnapshotFailureStartsEmpty() {
	s.api.EXPECT().ImageSnapshot(gomock.Any()).Return(nil, errors.Unavailable("backend down"))

	sess, err := session.New(s.ctx, &session.Config{API: s.api})
	s.Require().NoError(err)
	s.Assert().Equal(0, sess.Cache().Len())
}

func (s *SessionTestSuite) TestSnapshotSeedsCache() {
	sess := s.newSession(map[string]string{"Goblin": "http://localhost:8080/images/monsters/goblin.png"})

	ref, ok := sess.Cache().Lookup("The Goblins")
	s.Require().True(ok)
	s.Assert().Equal("http://localhost:8080/images/monsters/goblin.png", ref.Locator)
}

func (s *SessionTestSuite) TestWorkingSet() {
	sess := s.newSession(nil)

	s.Require().NoError(sess.Add(entities.Monster{Key: "goblin", Name: "Goblin"}))
	s.Require().NoError(sess.Add(entities.Monster{Key: "goblin", Name: "goblin"}))
	s.Require().NoError(sess.AddCustom("Barkeep Hilda"))
	s.Require().NoError(sess.Add(entities.Monster{Key: "orc", Name: "Orc"}))

	ws := sess.WorkingSet()
	s.Require().Len(ws, 3)
	s.Assert().Equal(2, ws[0].Quantity)
	s.Assert().True(ws[1].Monster.Custom)

	s.Require().NoError(sess.SetQuantity("barkeep hilda", 5))
	s.Require().NoError(sess.Remove("Goblin"))
	s.Assert().True(errors.IsNotFound(sess.Remove("Goblin")))
	s.Assert().True(errors.IsInvalidArgument(sess.Add(entities.Monster{Name: "!!"})))

	ws = sess.WorkingSet()
	s.Require().Len(ws, 2)
	s.Assert().Equal("Barkeep Hilda", ws[0].Monster.Name)
	s.Assert().Equal(5, ws[0].Quantity)
	s.Assert().Equal("Orc", ws[1].Monster.Name)
}

func (s *SessionTestSuite) TestSearchToPrintedSheet() {
	sess := s.newSession(map[string]string{})

	s.api.EXPECT().
		SearchMonsters(gomock.Any(), "young red", 10).
		Return(&tentapi.SearchResult{
			Monsters: []entities.Monster{{Key: "young-red-dragon", Name: "Young Red Dragon"}},
			Total:    1,
		}, nil)

	release := make(chan struct{})
	s.api.EXPECT().
		GenerateMonsterImage(gomock.Any(), "Young Red Dragon").
		DoAndReturn(func(_ context.Context, _ string) (*entities.GeneratedImage, error) {
			<-release
			return &entities.GeneratedImage{URL: dragonURL}, nil
		}).
		Times(1)
	s.api.EXPECT().FetchImage(gomock.Any(), dragonURL).Return(pngBytes(), "image/png", nil).Times(1)
	s.api.EXPECT().RecordEvent(gomock.Any(), session.EventExport).Return(int64(1), nil)

	result, err := sess.Search(s.ctx, "young red", 10)
	s.Require().NoError(err)
	s.Require().Len(result.Monsters, 1)
	monster := result.Monsters[0]

	_, ok := sess.Cache().Lookup(monster.Name)
	s.Require().False(ok)

	interactiveDone := make(chan cardimage.View, 4)
	interactive, err := sess.NewBinding(monster.Name, cardimage.SurfaceSearchRow, func(v cardimage.View) {
		if v.Confirmed != nil {
			interactiveDone <- v
		}
	})
	s.Require().NoError(err)
	s.Require().NoError(interactive.Mount(s.ctx))

	s.Require().NoError(sess.Add(monster))
	printDone := make(chan cardimage.View, 4)
	previews, err := sess.PrintPreview(s.ctx, func(v cardimage.View) {
		if v.Confirmed != nil {
			printDone <- v
		}
	})
	s.Require().NoError(err)
	s.Require().Len(previews, 1)
	s.Assert().True(previews[0].State().Generating)

	close(release)

	var a, p cardimage.View
	select {
	case a = <-interactiveDone:
	case <-time.After(2 * time.Second):
		s.FailNow("interactive card never settled")
	}
	select {
	case p = <-printDone:
	case <-time.After(2 * time.Second):
		s.FailNow("print card never settled")
	}
	s.Assert().Same(a.Image, p.Image)
	s.Assert().Equal(dragonURL, a.Image.Locator)

	cached, ok := sess.Cache().Lookup("young red dragon")
	s.Require().True(ok)
	s.Assert().Same(a.Image, cached)

	out, err := sess.Export(s.ctx, filepath.Join(s.T().TempDir(), "party.pdf"))
	s.Require().NoError(err)
	s.Assert().Equal(1, out.Pages)
	s.Assert().Equal(1, out.Embedded)

	previews[0].Unmount()
	interactive.Unmount()
}

func (s *SessionTestSuite) TestReloadImagesKeepsSessionEntries() {
	sess := s.newSession(map[string]string{"goblin": "http://localhost:8080/images/monsters/goblin.png"})
	accepted := entities.NewImageRef("http://localhost:8080/images/monsters/goblin-new.png")
	sess.Cache().Put("goblin", accepted)

	s.api.EXPECT().ImageSnapshot(gomock.Any()).Return(map[string]string{
		"goblin": "http://localhost:8080/images/monsters/goblin.png",
		"orc":    "http://localhost:8080/images/monsters/orc.png",
	}, nil)
	s.Require().NoError(sess.ReloadImages(s.ctx))

	ref, _ := sess.Cache().Lookup("goblin")
	s.Assert().Same(accepted, ref)
	_, ok := sess.Cache().Lookup("orc")
	s.Assert().True(ok)
}
