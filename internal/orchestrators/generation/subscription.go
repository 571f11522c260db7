package generation

import "sync"

type subscriber struct {
	id uint64
	fn func(Result)
}

// Subscription ties a caller to a generation record. A result already being
// delivered when Unsubscribe is called may still arrive.
type Subscription struct {
	c    *coordinator
	key  string
	id   uint64
	once sync.Once
}

// Unsubscribe detaches the caller. It never aborts the backend call and never
// removes a record that is generating or completed. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.c.unsubscribe(s.key, s.id)
	})
}
