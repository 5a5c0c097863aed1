package usecase

import (
	"context"
	"time"

	"github.com/byStayo/AI-Computer-Controller/internal/domain"
)

type SessionRepository interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, bool, error)
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, f SessionFilter) ([]domain.Session, int, error)
	SetMode(ctx context.Context, id string, mode domain.Mode) error
	SetStreaming(ctx context.Context, id string, on bool) error
	CountMessage(ctx context.Context, id string, kind string) error
	SetClosed(ctx context.Context, id string, closedAt time.Time, errMsg *string) error
}

type SessionFilter struct {
	Client     string
	ActiveOnly bool
	Limit      int
	Offset     int
}
