package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/byStayo/AI-Computer-Controller/internal/auth"
	"github.com/byStayo/AI-Computer-Controller/internal/domain"
	"github.com/byStayo/AI-Computer-Controller/internal/executor"
)

// CloseAuthExpired tells the client its pairing credential is gone and a
// fresh pairing round is required. Every other close is treated as transient
// and retried client-side.
const CloseAuthExpired = 4401

const (
	writeWait = 10 * time.Second
	readLimit = 1 << 20
)

// handleSessionWS upgrades an authenticated request into a session and runs
// its dispatch loop. Auth failures upgrade first so the client receives a
// proper close frame instead of a bare handshake error.
func (d *Deps) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, authErr := d.Issuer.Verify(token)
	if token == "" {
		authErr = auth.ErrMalformedToken
	}

	upgrader := websocket.Upgrader{CheckOrigin: originChecker(d.Cfg.CORSAllowOrigin)}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.Logger.Error().Err(err).Msg("remote-gateway: websocket upgrade failed")
		return
	}

	if authErr != nil {
		code, reason, label := closeForAuthErr(authErr)
		d.Metrics.AuthFailures.WithLabelValues(label).Inc()
		d.Logger.Warn().Str("reason", label).Str("client", clientHost(r.RemoteAddr)).Msg("remote-gateway: session rejected")
		closeWith(conn, code, reason)
		return
	}

	sess := domain.Session{
		ID:         uuid.NewString(),
		ClientID:   claims.Subject,
		ClientAddr: clientHost(r.RemoteAddr),
		Mode:       domain.ModeYolo,
		StartedAt:  time.Now().UTC(),
	}
	if err := d.Svc.Create(r.Context(), sess); err != nil {
		d.Logger.Error().Err(err).Msg("remote-gateway: session registry create failed")
		closeWith(conn, websocket.CloseInternalServerErr, "session setup failed")
		return
	}
	d.Metrics.ActiveSessions.Inc()
	d.Monitor.Broadcast(MonitorEvent{Type: "session_started", ID: sess.ID})
	d.Logger.Info().Str("session", sess.ID).Str("client", sess.ClientID).Str("addr", sess.ClientAddr).Msg("remote-gateway: session opened")

	go d.runSession(conn, sess, claims)
}

// sessionConn serializes writes; gorilla/websocket allows one writer at a
// time and replies must leave in processing order.
type sessionConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *sessionConn) send(typ string, payload any) error {
	env := domain.NewEnvelope(typ, payload)
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// runSession is the sequential dispatch loop: messages from one client are
// processed strictly in arrival order, different sessions run concurrently.
func (d *Deps) runSession(conn *websocket.Conn, sess domain.Session, claims auth.Claims) {
	sc := &sessionConn{conn: conn}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closeErr error
	defer func() {
		// Stream release first: no frame producer may outlive its session.
		d.Streams.Stop(sess.ClientID)
		_ = conn.Close()
		now := time.Now().UTC()
		var errPtr *string
		if closeErr != nil {
			s := closeErr.Error()
			errPtr = &s
		}
		_ = d.Svc.SetClosed(noCancel(), sess.ID, now, errPtr)
		d.Metrics.ActiveSessions.Dec()
		d.Monitor.Broadcast(MonitorEvent{Type: "session_ended", ID: sess.ID})
		d.Logger.Info().Str("session", sess.ID).Msg("remote-gateway: session closed")
	}()

	// A mid-session expiry closes with the distinguished code so the client
	// re-pairs instead of retrying a dead token.
	var authExpired atomic.Bool
	expiry := time.AfterFunc(time.Until(claims.ExpiresAt), func() {
		authExpired.Store(true)
		d.Metrics.AuthFailures.WithLabelValues("expired").Inc()
		closeWith(conn, CloseAuthExpired, "authentication expired - re-pair")
	})
	defer expiry.Stop()

	conn.SetReadLimit(readLimit)
	mode := domain.ModeYolo
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if authExpired.Load() {
				closeErr = auth.ErrExpiredCredential
			} else if !isNormalClose(err) {
				closeErr = err
			}
			return
		}
		if mt != websocket.TextMessage {
			d.sessionError(sc, sess.ID, "binary frames not supported")
			continue
		}
		var env domain.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			d.sessionError(sc, sess.ID, "malformed message envelope")
			continue
		}
		switch env.Type {
		case domain.TypeSetMode:
			mode = d.handleSetMode(sc, sess, mode, env.Payload)
		case domain.TypeCommand:
			d.handleCommand(ctx, sc, sess, mode, env.Payload)
		case domain.TypeControlStream:
			d.handleControlStream(sc, sess, env.Payload)
		default:
			d.sessionError(sc, sess.ID, "unknown message type")
		}
	}
}

func (d *Deps) handleSetMode(sc *sessionConn, sess domain.Session, cur domain.Mode, raw json.RawMessage) domain.Mode {
	var p domain.SetModePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.sessionError(sc, sess.ID, "malformed set_mode payload")
		return cur
	}
	mode, ok := domain.ParseMode(p.Mode)
	if !ok {
		d.sessionError(sc, sess.ID, "invalid mode: "+p.Mode)
		return cur
	}
	d.Metrics.MessagesTotal.WithLabelValues(domain.TypeSetMode).Inc()
	_ = d.Svc.SetMode(noCancel(), sess.ID, mode)
	_ = d.Svc.Count(noCancel(), sess.ID, domain.CountModeChange)
	d.Monitor.Broadcast(MonitorEvent{Type: "mode_changed", ID: sess.ID, Ref: string(mode)})
	_ = sc.send(domain.TypeModeStatus, domain.ModeStatusPayload{Mode: mode})
	return mode
}

func (d *Deps) handleCommand(ctx context.Context, sc *sessionConn, sess domain.Session, mode domain.Mode, raw json.RawMessage) {
	var p domain.CommandPayload
	if err := json.Unmarshal(raw, &p); err != nil || strings.TrimSpace(p.Text) == "" {
		d.sessionError(sc, sess.ID, "malformed command payload")
		return
	}
	d.Metrics.MessagesTotal.WithLabelValues(domain.TypeCommand).Inc()
	_ = d.Svc.Count(noCancel(), sess.ID, domain.CountCommand)

	if !d.Gate.Permits(mode, p.Text) {
		d.Metrics.CommandErrors.WithLabelValues("denied").Inc()
		d.sessionError(sc, sess.ID, "command denied by SAFE mode policy")
		return
	}

	result, err := d.Executor.Run(ctx, p.Text)
	if err != nil {
		kind, msg := "failure", "executor failure: "+err.Error()
		if errors.Is(err, executor.ErrTimeout) {
			kind, msg = "timeout", "executor timeout"
		}
		d.Metrics.CommandErrors.WithLabelValues(kind).Inc()
		d.Monitor.Broadcast(MonitorEvent{Type: "command_failed", ID: sess.ID})
		d.sessionError(sc, sess.ID, msg)
		return
	}
	d.Monitor.Broadcast(MonitorEvent{Type: "command_executed", ID: sess.ID})
	_ = sc.send(domain.TypeResponse, domain.ResponsePayload{Text: result})
}

func (d *Deps) handleControlStream(sc *sessionConn, sess domain.Session, raw json.RawMessage) {
	var p domain.ControlStreamPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		d.sessionError(sc, sess.ID, "malformed control_stream payload")
		return
	}
	d.Metrics.MessagesTotal.WithLabelValues(domain.TypeControlStream).Inc()
	_ = d.Svc.Count(noCancel(), sess.ID, domain.CountStreamOp)

	switch p.Action {
	case domain.ActionWatch:
		if err := d.Streams.Start(sess.ClientID, d.streamConfig()); err != nil {
			d.Logger.Warn().Err(err).Str("session", sess.ID).Msg("remote-gateway: stream start failed")
			d.Monitor.Broadcast(MonitorEvent{Type: "stream_failed", ID: sess.ID})
			_ = sc.send(domain.TypeStreamStatus, domain.StreamStatusPayload{Status: domain.StreamFailed})
			return
		}
		_ = d.Svc.SetStreaming(noCancel(), sess.ID, true)
		d.Monitor.Broadcast(MonitorEvent{Type: "stream_started", ID: sess.ID})
		_ = sc.send(domain.TypeStreamStatus, domain.StreamStatusPayload{Status: domain.StreamStarted})
	case domain.ActionStop:
		d.Streams.Stop(sess.ClientID)
		_ = d.Svc.SetStreaming(noCancel(), sess.ID, false)
		d.Monitor.Broadcast(MonitorEvent{Type: "stream_stopped", ID: sess.ID})
		_ = sc.send(domain.TypeStreamStatus, domain.StreamStatusPayload{Status: domain.StreamStopped})
	default:
		d.sessionError(sc, sess.ID, "unknown stream action: "+p.Action)
	}
}

// sessionError emits exactly one error reply and keeps the session ACTIVE.
func (d *Deps) sessionError(sc *sessionConn, sessionID, msg string) {
	d.Metrics.MessagesTotal.WithLabelValues(domain.TypeError).Inc()
	_ = d.Svc.Count(noCancel(), sessionID, domain.CountError)
	_ = sc.send(domain.TypeError, domain.ErrorPayload{Message: msg})
}

func closeForAuthErr(err error) (code int, reason, label string) {
	switch {
	case errors.Is(err, auth.ErrExpiredCredential):
		return CloseAuthExpired, "authentication expired - re-pair", "expired"
	case errors.Is(err, auth.ErrInvalidSignature):
		return websocket.ClosePolicyViolation, "invalid pairing token", "invalid"
	default:
		return websocket.ClosePolicyViolation, "malformed pairing token", "malformed"
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = conn.Close()
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

func originChecker(allow string) func(*http.Request) bool {
	if allow == "" || allow == "*" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		return o == "" || o == allow
	}
}

func clientHost(remote string) string {
	if i := strings.LastIndexByte(remote, ':'); i > 0 {
		return remote[:i]
	}
	return remote
}

// avoid request-lifecycle cancellation for registry bookkeeping
func noCancel() context.Context { return context.Background() }
