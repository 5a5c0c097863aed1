package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/byStayo/AI-Computer-Controller/internal/domain"
	"github.com/byStayo/AI-Computer-Controller/internal/usecase"
)

type entry struct {
	session   domain.Session
	createdAt time.Time
}

// Store is the bounded in-memory session registry. It records session
// lifecycle for the read-only API; nothing here outlives the process.
type Store struct {
	mu sync.RWMutex
	// insertion order of session ids, for stable listing and eviction
	order []string
	items map[string]*entry

	maxSessions int
	ttl         time.Duration
}

func NewStore(maxSessions int, ttl time.Duration) *Store {
	return &Store{
		order:       make([]string, 0, maxSessions),
		items:       make(map[string]*entry, maxSessions),
		maxSessions: maxSessions,
		ttl:         ttl,
	}
}

func (s *Store) CreateSession(ctx context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	if len(s.items) >= s.maxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.items, oldest)
	}
	s.items[sess.ID] = &entry{session: sess, createdAt: time.Now()}
	s.order = append(s.order, sess.ID)
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (domain.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.items[id]; ok {
		return e.session, true, nil
	}
	return domain.Session{}, false, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; ok {
		delete(s.items, id)
		for i, sid := range s.order {
			if sid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Store) ListSessions(ctx context.Context, f usecase.SessionFilter) ([]domain.Session, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.Session, 0, len(s.items))
	for _, id := range s.order {
		e := s.items[id]
		if e == nil {
			continue
		}
		if f.ActiveOnly && e.session.ClosedAt != nil {
			continue
		}
		if f.Client != "" && !strings.Contains(strings.ToLower(e.session.ClientID), strings.ToLower(f.Client)) {
			continue
		}
		results = append(results, e.session)
	}
	total := len(results)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return results[start:end], total, nil
}

func (s *Store) SetMode(ctx context.Context, id string, mode domain.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.Mode = mode
	}
	return nil
}

func (s *Store) SetStreaming(ctx context.Context, id string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.Streaming = on
	}
	return nil
}

func (s *Store) CountMessage(ctx context.Context, id string, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		switch kind {
		case domain.CountCommand:
			e.session.Messages.Commands++
		case domain.CountModeChange:
			e.session.Messages.ModeChanges++
		case domain.CountStreamOp:
			e.session.Messages.StreamOps++
		case domain.CountError:
			e.session.Messages.Errors++
		}
	}
	return nil
}

func (s *Store) SetClosed(ctx context.Context, id string, ts time.Time, errMsg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.items[id]; ok {
		e.session.ClosedAt = &ts
		e.session.Error = errMsg
		e.session.Streaming = false
	}
	return nil
}

// evictExpiredLocked drops closed records past the ttl. Live sessions are
// never evicted by age.
func (s *Store) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	now := time.Now()
	i := 0
	for i < len(s.order) {
		id := s.order[i]
		e := s.items[id]
		if e == nil || (e.session.ClosedAt != nil && now.Sub(e.createdAt) > s.ttl) {
			delete(s.items, id)
			s.order = append(s.order[:i], s.order[i+1:]...)
			continue
		}
		i++
	}
}
