package imagecache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/imagecache"
)

type StoreTestSuite struct {
	suite.Suite
	store *imagecache.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.store = imagecache.New(map[string]string{
		"Goblin":     "/images/monsters/goblin.png",
		"red dragon": "https://cdn.example.com/red-dragon.png",
	})
}

func (s *StoreTestSuite) TestLookupVariationsResolveToSameEntry() {
	expected, ok := s.store.Lookup("goblin")
	s.Require().True(ok)

	for _, name := range []string{"Goblins", "goblin", "The Goblin", "GOBLIN!"} {
		s.Run(name, func() {
			got, ok := s.store.Lookup(name)
			s.Require().True(ok)
			s.Assert().Same(expected, got)
		})
	}
}

func (s *StoreTestSuite) TestLookupDragonPatterns() {
	got, ok := s.store.Lookup("Ancient Red Dragon")
	s.Require().True(ok)
	s.Assert().Equal("https://cdn.example.com/red-dragon.png", got.Locator)
}

func (s *StoreTestSuite) TestLookupMiss() {
	_, ok := s.store.Lookup("Beholder")
	s.Assert().False(ok)

	_, ok = s.store.Lookup("!!!")
	s.Assert().False(ok)
}

func (s *StoreTestSuite) TestPutOverwritesImmediately() {
	ref := entities.NewImageRef("/images/monsters/goblin-2.png")
	s.store.Put("The Goblin's", ref)

	// "the goblins" normalizes to its own key; "goblin" is untouched
	got, ok := s.store.Lookup("the goblins")
	s.Require().True(ok)
	s.Assert().Same(ref, got)

	s.store.Put("Goblin", ref)
	got, ok = s.store.Lookup("goblin")
	s.Require().True(ok)
	s.Assert().Same(ref, got)
}

func (s *StoreTestSuite) TestPutIgnoresNilAndBlank() {
	before := s.store.Len()
	s.store.Put("Goblin", nil)
	s.store.Put("???", entities.NewImageRef("/x.png"))
	s.Assert().Equal(before, s.store.Len())

	got, _ := s.store.Lookup("goblin")
	s.Assert().Equal("/images/monsters/goblin.png", got.Locator)
}

func (s *StoreTestSuite) TestReloadSessionEntriesWin() {
	accepted := entities.NewImageRef("/images/monsters/goblin-accepted.png")
	s.store.Put("goblin", accepted)

	s.store.Reload(map[string]string{
		"goblin":     "/images/monsters/goblin.png",
		"kobold":     "/images/monsters/kobold.png",
		"red dragon": "https://cdn.example.com/red-dragon-v2.png",
	})

	got, _ := s.store.Lookup("goblin")
	s.Assert().Same(accepted, got)

	kobold, ok := s.store.Lookup("kobold")
	s.Require().True(ok)
	s.Assert().Equal("/images/monsters/kobold.png", kobold.Locator)

	dragon, _ := s.store.Lookup("red dragon")
	s.Assert().Equal("https://cdn.example.com/red-dragon-v2.png", dragon.Locator)
}

func (s *StoreTestSuite) TestReloadKeepsReferenceForUnchangedLocator() {
	before, _ := s.store.Lookup("red dragon")
	s.store.Reload(map[string]string{"Red Dragon": "https://cdn.example.com/red-dragon.png"})
	after, _ := s.store.Lookup("red dragon")
	s.Assert().Same(before, after)
}

func (s *StoreTestSuite) TestSnapshot() {
	s.Assert().Equal(map[string]string{
		"goblin":     "/images/monsters/goblin.png",
		"red dragon": "https://cdn.example.com/red-dragon.png",
	}, s.store.Snapshot())
}

func (s *StoreTestSuite) TestConcurrentAccess() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.store.Put("owlbear", entities.NewImageRef("/images/monsters/owlbear.png"))
		}()
		go func() {
			defer wg.Done()
			s.store.Lookup("owlbears")
		}()
	}
	wg.Wait()

	_, ok := s.store.Lookup("Owlbears")
	s.Assert().True(ok)
}
