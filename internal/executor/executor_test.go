package executor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRunReturnsAssistantReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"role":"assistant","content":"a.txt, b.txt"}]}`))
	}))
	defer srv.Close()

	e := &HTTPExecutor{BaseURL: srv.URL, Timeout: 5 * time.Second}
	out, err := e.Run(context.Background(), "list files")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "a.txt, b.txt" {
		t.Fatalf("out = %q", out)
	}
}

func TestRunMapsDeadlineToTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	e := &HTTPExecutor{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}
	if _, err := e.Run(context.Background(), "slow"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestRunSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := &HTTPExecutor{BaseURL: srv.URL, Timeout: time.Second}
	_, err := e.Run(context.Background(), "boom")
	if err == nil || !strings.Contains(err.Error(), "agent exploded") {
		t.Fatalf("err = %v, want body surfaced", err)
	}
}

func TestRunRequiresAssistantMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[{"role":"user","content":"echo"}]}`))
	}))
	defer srv.Close()

	e := &HTTPExecutor{BaseURL: srv.URL, Timeout: time.Second}
	if _, err := e.Run(context.Background(), "x"); err == nil {
		t.Fatalf("expected error when no assistant reply present")
	}
}
