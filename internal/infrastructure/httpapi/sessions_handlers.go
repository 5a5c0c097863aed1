package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/byStayo/AI-Computer-Controller/internal/usecase"
)

type sessionListResponse struct {
	Sessions any `json:"sessions"`
	Total    int `json:"total"`
}

// handleListSessions serves GET /api/sessions?client=&active=&offset=&limit=.
func (d *Deps) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET", nil)
		return
	}
	q := r.URL.Query()
	f := usecase.SessionFilter{
		Client: q.Get("client"),
		Limit:  50,
	}
	if v := q.Get("active"); v == "1" || v == "true" {
		f.ActiveOnly = true
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n >= 0 {
		f.Offset = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		f.Limit = n
	}
	sessions, total, err := d.Svc.List(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "LIST_FAILED", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Sessions: sessions, Total: total})
}

// handleSessionByID serves GET and DELETE on /api/sessions/{id}. DELETE only
// drops the registry record; the live connection, if any, keeps running until
// the transport closes.
func (d *Deps) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
		return
	}
	switch r.Method {
	case http.MethodGet:
		sess, ok, err := d.Svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "GET_FAILED", err.Error(), nil)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "no such session", nil)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	case http.MethodDelete:
		if err := d.Svc.Delete(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "DELETE_FAILED", err.Error(), nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET or DELETE", nil)
	}
}
