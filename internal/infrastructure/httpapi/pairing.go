package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/byStayo/AI-Computer-Controller/pkg/shared/redact"
)

// PairSubject is the token subject for the single-device pairing flow.
const PairSubject = "remote-user"

// handlePairURL mints a fresh pairing token on every call and returns the
// transport URL as plain text, ready for QR encoding by the caller.
// Descriptors are never cached; polling produces independently-expiring
// credentials.
func (d *Deps) handlePairURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET", nil)
		return
	}
	if !d.pairLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "pairing rate limit exceeded", nil)
		return
	}
	token, err := d.Issuer.Issue(PairSubject)
	if err != nil {
		d.Logger.Error().Err(err).Msg("remote-gateway: token issue failed")
		writeError(w, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", "could not issue pairing token", nil)
		return
	}
	host := d.Cfg.AdvertiseHost
	if host == "" {
		host = localIP()
	}
	u := "ws://" + net.JoinHostPort(host, portFromAddr(d.Cfg.Addr)) + "/ws?token=" + token
	d.Logger.Info().Str("url", redact.URL(u)).Msg("remote-gateway: pairing descriptor issued")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(u))
}

// localIP discovers the outbound LAN address without sending any packets.
func localIP() string {
	conn, err := net.DialTimeout("udp", "8.8.8.8:80", 100*time.Millisecond)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

func portFromAddr(addr string) string {
	if i := strings.LastIndexByte(addr, ':'); i >= 0 {
		return addr[i+1:]
	}
	return addr
}
