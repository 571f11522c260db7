package monstersearch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	externalmock "github.com/KirkDiggler/tentcards/internal/clients/external/mock"
	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/services/monstersearch"
)

type SearchTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	external *externalmock.MockClient
	service  monstersearch.Service
	ctx      context.Context
}

func TestSearchSuite(t *testing.T) {
	suite.Run(t, new(SearchTestSuite))
}

func (s *SearchTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.external = externalmock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	svc, err := monstersearch.New(&monstersearch.Config{External: s.external})
	s.Require().NoError(err)
	s.service = svc
}

func (s *SearchTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SearchTestSuite) listing() []*entities.Monster {
	return []*entities.Monster{
		{Key: "adult-red-dragon", Name: "Adult Red Dragon"},
		{Key: "goblin", Name: "Goblin"},
		{Key: "hobgoblin", Name: "Hobgoblin"},
		{Key: "goblin-boss", Name: "Goblin Boss"},
		{Key: "red-dragon-wyrmling", Name: "Red Dragon Wyrmling"},
	}
}

func (s *SearchTestSuite) names(ms []*entities.Monster) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

func (s *SearchTestSuite) TestRanksExactThenPrefixThenContains() {
	s.external.EXPECT().ListMonsters(gomock.Any()).Return(s.listing(), nil)

	out, err := s.service.Search(s.ctx, &monstersearch.SearchInput{Query: "Goblin"})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Goblin", "Goblin Boss", "Hobgoblin"}, s.names(out.Monsters))
	s.Assert().Equal(3, out.Total)
}

func (s *SearchTestSuite) TestMultiWordQuery() {
	s.external.EXPECT().ListMonsters(gomock.Any()).Return(s.listing(), nil)

	out, err := s.service.Search(s.ctx, &monstersearch.SearchInput{Query: "red dragon"})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Red Dragon Wyrmling", "Adult Red Dragon"}, s.names(out.Monsters))
}

func (s *SearchTestSuite) TestListingIsCached() {
	s.external.EXPECT().ListMonsters(gomock.Any()).Return(s.listing(), nil).Times(1)

	for _, q := range []string{"gob", "dragon", ""} {
		_, err := s.service.Search(s.ctx, &monstersearch.SearchInput{Query: q})
		s.Require().NoError(err)
	}
}

func (s *SearchTestSuite) TestLimit() {
	s.external.EXPECT().ListMonsters(gomock.Any()).Return(s.listing(), nil)

	out, err := s.service.Search(s.ctx, &monstersearch.SearchInput{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Len(out.Monsters, 2)
	s.Assert().Equal(5, out.Total)

	_, err = s.service.Search(s.ctx, &monstersearch.SearchInput{Limit: -1})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *SearchTestSuite) TestListingFailure() {
	s.external.EXPECT().ListMonsters(gomock.Any()).Return(nil, errors.Unavailable("down"))

	_, err := s.service.Search(s.ctx, &monstersearch.SearchInput{Query: "goblin"})
	s.Require().Error(err)
	s.Assert().True(errors.IsUnavailable(err))
}

func (s *SearchTestSuite) TestGet() {
	owlbear := &entities.Monster{Key: "owlbear", Name: "Owlbear"}
	s.external.EXPECT().GetMonster(gomock.Any(), "owlbear").Return(owlbear, nil).Times(1)

	for i := 0; i < 2; i++ {
		out, err := s.service.Get(s.ctx, &monstersearch.GetInput{Key: "owlbear"})
		s.Require().NoError(err)
		s.Assert().Same(owlbear, out.Monster)
	}

	_, err := s.service.Get(s.ctx, &monstersearch.GetInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *SearchTestSuite) TestGetNotFound() {
	s.external.EXPECT().GetMonster(gomock.Any(), "nope").Return(nil, errors.NotFound("monster nope not found"))

	_, err := s.service.Get(s.ctx, &monstersearch.GetInput{Key: "nope"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *SearchTestSuite) TestConfigValidation() {
	_, err := monstersearch.New(nil)
	s.Assert().Error(err)

	_, err = monstersearch.New(&monstersearch.Config{})
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "External")
}
