package usecase

import (
	"context"
	"time"

	"github.com/byStayo/AI-Computer-Controller/internal/domain"
)

// SessionService fronts the session registry for handlers.
type SessionService struct {
	sessions SessionRepository
}

func NewSessionService(s SessionRepository) *SessionService {
	return &SessionService{sessions: s}
}

func (s *SessionService) Create(ctx context.Context, sess domain.Session) error {
	return s.sessions.CreateSession(ctx, sess)
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, bool, error) {
	return s.sessions.GetSession(ctx, id)
}

func (s *SessionService) List(ctx context.Context, f SessionFilter) ([]domain.Session, int, error) {
	return s.sessions.ListSessions(ctx, f)
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.sessions.DeleteSession(ctx, id)
}

func (s *SessionService) SetMode(ctx context.Context, id string, mode domain.Mode) error {
	return s.sessions.SetMode(ctx, id, mode)
}

func (s *SessionService) SetStreaming(ctx context.Context, id string, on bool) error {
	return s.sessions.SetStreaming(ctx, id, on)
}

func (s *SessionService) Count(ctx context.Context, id string, kind string) error {
	return s.sessions.CountMessage(ctx, id, kind)
}

func (s *SessionService) SetClosed(ctx context.Context, id string, closedAt time.Time, errMsg *string) error {
	return s.sessions.SetClosed(ctx, id, closedAt, errMsg)
}
