// Package imagecache holds the confirmed image for each creature seen during a
// session, seeded from the backend's image-map snapshot.
package imagecache

import (
	"log/slog"
	"sync"

	"github.com/KirkDiggler/tentcards/internal/entities"
	"github.com/KirkDiggler/tentcards/internal/namematch"
)

// Store maps normalized creature names to their confirmed image. It is safe for
// concurrent use; entries are never deleted during a session.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entities.ImageRef
	// keys written by Put; a backend snapshot never overrides these
	session map[string]bool
}

// New creates a store seeded from snapshot (name -> url). A nil snapshot is empty.
func New(snapshot map[string]string) *Store {
	s := &Store{
		entries: make(map[string]*entities.ImageRef),
		session: make(map[string]bool),
	}
	s.Reload(snapshot)
	return s
}

// Lookup tries every name variation in priority order and returns the first hit.
func (s *Store) Lookup(name string) (*entities.ImageRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, candidate := range namematch.Variations(name) {
		if ref, ok := s.entries[candidate]; ok {
			return ref, true
		}
	}
	return nil, false
}

// Put records ref as the confirmed image for name. Nil refs and names that
// normalize to nothing are ignored.
func (s *Store) Put(name string, ref *entities.ImageRef) {
	key := namematch.Normalize(name)
	if key == "" || ref == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ref
	s.session[key] = true
}

// Reload merges a freshly fetched snapshot. Entries written by Put during this
// session win on conflict; unchanged locators keep their existing reference.
func (s *Store) Reload(snapshot map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, skipped := 0, 0
	for name, locator := range snapshot {
		key := namematch.Normalize(name)
		ref := entities.NewImageRef(locator)
		if key == "" || ref == nil {
			continue
		}
		if s.session[key] {
			skipped++
			continue
		}
		if existing, ok := s.entries[key]; ok && existing.Locator == ref.Locator {
			continue
		}
		s.entries[key] = ref
		merged++
	}
	if len(snapshot) > 0 {
		slog.Debug("Image cache reloaded", "merged", merged, "session_kept", skipped, "total", len(s.entries))
	}
}

// Snapshot returns a copy of the store as name -> locator.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.entries))
	for key, ref := range s.entries {
		out[key] = ref.Locator
	}
	return out
}

// Len returns the number of confirmed entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
