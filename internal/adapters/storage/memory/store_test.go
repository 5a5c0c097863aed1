package memory

import (
	"context"
	"testing"
	"time"

	"github.com/byStayo/AI-Computer-Controller/internal/domain"
	"github.com/byStayo/AI-Computer-Controller/internal/usecase"
)

func newSession(id string) domain.Session {
	return domain.Session{
		ID:        id,
		ClientID:  "remote-user",
		Mode:      domain.ModeYolo,
		StartedAt: time.Now().UTC(),
	}
}

func TestCreateGetUpdate(t *testing.T) {
	s := NewStore(10, time.Hour)
	ctx := context.Background()
	if err := s.CreateSession(ctx, newSession("a")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.SetMode(ctx, "a", domain.ModeSafe); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if err := s.SetStreaming(ctx, "a", true); err != nil {
		t.Fatalf("set streaming: %v", err)
	}
	_ = s.CountMessage(ctx, "a", domain.CountCommand)
	_ = s.CountMessage(ctx, "a", domain.CountCommand)
	_ = s.CountMessage(ctx, "a", domain.CountError)

	got, ok, err := s.GetSession(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Mode != domain.ModeSafe || !got.Streaming {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Messages.Commands != 2 || got.Messages.Errors != 1 {
		t.Fatalf("unexpected counters: %+v", got.Messages)
	}
}

func TestSetClosedClearsStreaming(t *testing.T) {
	s := NewStore(10, time.Hour)
	ctx := context.Background()
	_ = s.CreateSession(ctx, newSession("a"))
	_ = s.SetStreaming(ctx, "a", true)
	msg := "boom"
	if err := s.SetClosed(ctx, "a", time.Now().UTC(), &msg); err != nil {
		t.Fatalf("set closed: %v", err)
	}
	got, _, _ := s.GetSession(ctx, "a")
	if got.ClosedAt == nil || got.Error == nil || *got.Error != "boom" || got.Streaming {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestListFilters(t *testing.T) {
	s := NewStore(10, time.Hour)
	ctx := context.Background()
	_ = s.CreateSession(ctx, newSession("a"))
	_ = s.CreateSession(ctx, newSession("b"))
	_ = s.SetClosed(ctx, "a", time.Now().UTC(), nil)

	all, total, err := s.ListSessions(ctx, usecase.SessionFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Fatalf("total = %d len = %d", total, len(all))
	}

	active, total, err := s.ListSessions(ctx, usecase.SessionFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if total != 1 || active[0].ID != "b" {
		t.Fatalf("active = %+v total = %d", active, total)
	}

	page, total, err := s.ListSessions(ctx, usecase.SessionFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].ID != "b" {
		t.Fatalf("page = %+v total = %d", page, total)
	}
}

func TestCapacityEviction(t *testing.T) {
	s := NewStore(2, time.Hour)
	ctx := context.Background()
	_ = s.CreateSession(ctx, newSession("a"))
	_ = s.CreateSession(ctx, newSession("b"))
	_ = s.CreateSession(ctx, newSession("c"))
	if _, ok, _ := s.GetSession(ctx, "a"); ok {
		t.Fatalf("oldest record should be evicted at capacity")
	}
	if _, ok, _ := s.GetSession(ctx, "c"); !ok {
		t.Fatalf("newest record missing")
	}
}

func TestTTLEvictsOnlyClosed(t *testing.T) {
	s := NewStore(10, 10*time.Millisecond)
	ctx := context.Background()
	_ = s.CreateSession(ctx, newSession("closed"))
	_ = s.CreateSession(ctx, newSession("live"))
	_ = s.SetClosed(ctx, "closed", time.Now().UTC(), nil)
	time.Sleep(20 * time.Millisecond)
	// eviction runs on create
	_ = s.CreateSession(ctx, newSession("new"))
	if _, ok, _ := s.GetSession(ctx, "closed"); ok {
		t.Fatalf("closed record past ttl should be evicted")
	}
	if _, ok, _ := s.GetSession(ctx, "live"); !ok {
		t.Fatalf("live session must never be ttl-evicted")
	}
}
