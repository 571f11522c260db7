package imagemap_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/repositories/imagemap"
	"github.com/KirkDiggler/tentcards/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo imagemap.Repository
	ctx  context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.ctx = context.Background()

	repo, err := imagemap.NewRedisRepository(&imagemap.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TestNewRedisRepositoryValidation() {
	_, err := imagemap.NewRedisRepository(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = imagemap.NewRedisRepository(&imagemap.RedisConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestPutNormalizesName() {
	out, err := s.repo.Put(s.ctx, imagemap.PutInput{Name: "Young  Red Dragon!", URL: "/images/monsters/young-red-dragon.png"})
	s.Require().NoError(err)
	s.Assert().Equal("young red dragon", out.Name)

	s.Assert().Equal("/images/monsters/young-red-dragon.png", s.mr.HGet(imagemap.DefaultKey, "young red dragon"))

	got, err := s.repo.Get(s.ctx, imagemap.GetInput{Name: "young red dragon"})
	s.Require().NoError(err)
	s.Assert().Equal("/images/monsters/young-red-dragon.png", got.URL)
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, imagemap.GetInput{Name: "Tarrasque"})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, imagemap.GetInput{Name: "  "})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestPutValidation() {
	_, err := s.repo.Put(s.ctx, imagemap.PutInput{Name: "Goblin"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestListAndSeed() {
	_, err := s.repo.Put(s.ctx, imagemap.PutInput{Name: "Goblin", URL: "/images/monsters/goblin-accepted.png"})
	s.Require().NoError(err)

	seeded, err := s.repo.Seed(s.ctx, imagemap.SeedInput{Images: map[string]string{
		"Goblin": "/images/monsters/goblin.png",
		"Orc":    "/images/monsters/orc.png",
		"":       "/images/monsters/blank.png",
	}})
	s.Require().NoError(err)
	s.Assert().Equal(1, seeded.Added)

	list, err := s.repo.List(s.ctx, imagemap.ListInput{})
	s.Require().NoError(err)
	s.Assert().Equal(map[string]string{
		"goblin": "/images/monsters/goblin-accepted.png",
		"orc":    "/images/monsters/orc.png",
	}, list.Images)
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	_, err := s.repo.Put(s.ctx, imagemap.PutInput{Name: "Goblin", URL: "/images/monsters/goblin.png"})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, imagemap.DeleteInput{Name: "GOBLIN"})
	s.Require().NoError(err)
	s.Assert().True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, imagemap.DeleteInput{Name: "goblin"})
	s.Require().NoError(err)
	s.Assert().False(out.Deleted)

	_, err = s.repo.Get(s.ctx, imagemap.GetInput{Name: "goblin"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestStorageFailure() {
	s.mr.SetError("LOADING")
	defer s.mr.SetError("")

	_, err := s.repo.List(s.ctx, imagemap.ListInput{})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(err))
}
