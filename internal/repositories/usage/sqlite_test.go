package usage_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/tentcards/internal/errors"
	mockclock "github.com/KirkDiggler/tentcards/internal/pkg/clock/mock"
	"github.com/KirkDiggler/tentcards/internal/repositories/usage"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	path string
	repo usage.Repository
	ctx  context.Context
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "usage.db")

	repo, err := usage.NewSQLiteRepository(s.ctx, &usage.SQLiteConfig{Path: s.path})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func (s *SQLiteRepositoryTestSuite) TestIncrement() {
	for i := 1; i <= 3; i++ {
		out, err := s.repo.Increment(s.ctx, usage.IncrementInput{Event: "Export"})
		s.Require().NoError(err)
		s.Assert().Equal("export", out.Event)
		s.Assert().Equal(int64(i), out.Count)
	}

	_, err := s.repo.Increment(s.ctx, usage.IncrementInput{Event: "search"})
	s.Require().NoError(err)

	list, err := s.repo.List(s.ctx, usage.ListInput{})
	s.Require().NoError(err)
	s.Assert().Equal(map[string]int64{"export": 3, "search": 1}, list.Counts)
}

func (s *SQLiteRepositoryTestSuite) TestIncrementRejectsBadEvents() {
	for _, event := range []string{"", "has space", "-leading", "drop table;"} {
		_, err := s.repo.Increment(s.ctx, usage.IncrementInput{Event: event})
		s.Assert().True(errors.IsInvalidArgument(err), event)
	}
}

func (s *SQLiteRepositoryTestSuite) TestConcurrentIncrements() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.repo.Increment(s.ctx, usage.IncrementInput{Event: "generate"})
			s.NoError(err)
		}()
	}
	wg.Wait()

	list, err := s.repo.List(s.ctx, usage.ListInput{})
	s.Require().NoError(err)
	s.Assert().Equal(int64(20), list.Counts["generate"])
}

func (s *SQLiteRepositoryTestSuite) TestReopenKeepsCountsAndMigrationsOnce() {
	_, err := s.repo.Increment(s.ctx, usage.IncrementInput{Event: "export"})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Close())

	reopened, err := usage.NewSQLiteRepository(s.ctx, &usage.SQLiteConfig{Path: s.path})
	s.Require().NoError(err)
	s.repo = reopened

	list, err := s.repo.List(s.ctx, usage.ListInput{})
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), list.Counts["export"])
}

func (s *SQLiteRepositoryTestSuite) TestIncrementStampsUpdatedAt() {
	ctrl := gomock.NewController(s.T())
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	clk := mockclock.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(stamp)

	path := filepath.Join(s.T().TempDir(), "stamped.db")
	repo, err := usage.NewSQLiteRepository(s.ctx, &usage.SQLiteConfig{Path: path, Clock: clk})
	s.Require().NoError(err)

	_, err = repo.Increment(s.ctx, usage.IncrementInput{Event: "export"})
	s.Require().NoError(err)
	s.Require().NoError(repo.Close())

	db, err := sql.Open("sqlite", path)
	s.Require().NoError(err)
	defer func() { _ = db.Close() }()

	var updatedAt int64
	s.Require().NoError(db.QueryRow("SELECT updated_at FROM usage_counters WHERE event = ?", "export").Scan(&updatedAt))
	s.Assert().Equal(stamp.UnixMilli(), updatedAt)
}

func (s *SQLiteRepositoryTestSuite) TestValidation() {
	_, err := usage.NewSQLiteRepository(s.ctx, &usage.SQLiteConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
