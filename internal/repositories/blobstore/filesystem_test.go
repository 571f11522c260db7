package blobstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/repositories/blobstore"
)

type FilesystemTestSuite struct {
	suite.Suite
	root string
	repo blobstore.Repository
	ctx  context.Context
}

func TestFilesystemSuite(t *testing.T) {
	suite.Run(t, new(FilesystemTestSuite))
}

func (s *FilesystemTestSuite) SetupTest() {
	s.root = filepath.Join(s.T().TempDir(), "monsters")
	s.ctx = context.Background()

	repo, err := blobstore.NewFilesystem(&blobstore.FilesystemConfig{Root: s.root})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *FilesystemTestSuite) TestPutThenGet() {
	out, err := s.repo.Put(s.ctx, blobstore.PutInput{Name: "Young Red Dragon", Data: []byte("png-bytes")})
	s.Require().NoError(err)
	s.Assert().Equal("/images/monsters/young-red-dragon.png", out.Path)

	_, err = os.Stat(filepath.Join(s.root, "young-red-dragon.png"))
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, blobstore.GetInput{Path: out.Path + "?v=1700000000000"})
	s.Require().NoError(err)
	s.Assert().Equal([]byte("png-bytes"), got.Data)
	s.Assert().Equal("image/png", got.ContentType)
}

func (s *FilesystemTestSuite) TestPutOverwrites() {
	_, err := s.repo.Put(s.ctx, blobstore.PutInput{Name: "Goblin", Ext: "webp", Data: []byte("one")})
	s.Require().NoError(err)
	out, err := s.repo.Put(s.ctx, blobstore.PutInput{Name: "goblin", Ext: ".webp", Data: []byte("two")})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, blobstore.GetInput{Path: out.Path})
	s.Require().NoError(err)
	s.Assert().Equal([]byte("two"), got.Data)

	entries, err := os.ReadDir(s.root)
	s.Require().NoError(err)
	s.Assert().Len(entries, 1)
}

func (s *FilesystemTestSuite) TestPutValidation() {
	testCases := []struct {
		name  string
		input blobstore.PutInput
	}{
		{name: "blank name", input: blobstore.PutInput{Name: "???", Data: []byte("x")}},
		{name: "no data", input: blobstore.PutInput{Name: "Goblin"}},
		{name: "bad extension", input: blobstore.PutInput{Name: "Goblin", Ext: "exe", Data: []byte("x")}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.Put(s.ctx, tc.input)
			s.Assert().True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *FilesystemTestSuite) TestGetRejectsUnknownPaths() {
	for _, p := range []string{
		"/images/monsters/missing.png",
		"/images/monsters/../secret.png",
		"/elsewhere/goblin.png",
		"/images/monsters/",
	} {
		_, err := s.repo.Get(s.ctx, blobstore.GetInput{Path: p})
		s.Assert().True(errors.IsNotFound(err), p)
	}
}

func (s *FilesystemTestSuite) TestValidation() {
	_, err := blobstore.NewFilesystem(&blobstore.FilesystemConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
