package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/byStayo/AI-Computer-Controller/internal/auth"
	"github.com/byStayo/AI-Computer-Controller/internal/stream"
)

// handleStream serves the live feed as multipart/x-mixed-replace: each part
// replaces the previous frame, pull semantics. The route authenticates with
// the pairing token but is otherwise decoupled from the session transport,
// so a viewer reconnecting never disturbs the command session.
func (d *Deps) handleStream(w http.ResponseWriter, r *http.Request) {
	claims, err := d.Issuer.Verify(r.URL.Query().Get("token"))
	if err != nil {
		code := "INVALID_TOKEN"
		label := "invalid"
		if errors.Is(err, auth.ErrExpiredCredential) {
			code, label = "EXPIRED_TOKEN", "expired"
		} else if errors.Is(err, auth.ErrMalformedToken) {
			code, label = "MALFORMED_TOKEN", "malformed"
		}
		d.Metrics.AuthFailures.WithLabelValues(label).Inc()
		writeError(w, http.StatusForbidden, code, err.Error(), nil)
		return
	}

	consumer, err := d.Streams.Attach(claims.Subject)
	if err != nil {
		switch {
		case errors.Is(err, stream.ErrBusy):
			writeError(w, http.StatusConflict, "STREAM_BUSY", "stream already has a viewer", nil)
		default:
			writeError(w, http.StatusNotFound, "STREAM_INACTIVE", "no active stream; send WATCH over the session first", nil)
		}
		return
	}
	defer consumer.Close()
	// Viewer disconnect stops production for this client; Stop is idempotent
	// with the session-close cleanup.
	defer d.Streams.Stop(claims.Subject)

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAM_UNSUPPORTED", "response writer cannot stream", nil)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	d.Logger.Info().Str("client", claims.Subject).Msg("remote-gateway: stream viewer attached")

	for {
		frame, err := consumer.Next(r.Context())
		if err != nil {
			d.Logger.Info().Str("client", claims.Subject).Msg("remote-gateway: stream viewer detached")
			return
		}
		if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(frame)); err != nil {
			return
		}
		if _, err := w.Write(frame); err != nil {
			return
		}
		if _, err := io.WriteString(w, "\r\n"); err != nil {
			return
		}
		flusher.Flush()
		d.Metrics.FramesTotal.WithLabelValues("served").Inc()
	}
}
