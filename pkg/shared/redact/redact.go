package redact

import (
	"encoding/json"
	"net/url"
	"strings"
)

var sensitiveKeys = []string{"authorization", "cookie", "token", "access_token", "id_token", "session", "apikey"}

// JSON masks sensitive fields in a JSON string best-effort.
func JSON(s string) string {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	redactNode(&v)
	b, err := json.Marshal(v)
	if err != nil {
		return s
	}
	return string(b)
}

// URL masks credential-bearing query parameters, keeping a short prefix for
// log correlation.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for k := range q {
		if !isSensitiveKey(k) {
			continue
		}
		v := q.Get(k)
		if len(v) > 8 {
			v = v[:8]
		}
		q.Set(k, v+"***")
		changed = true
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func redactNode(n *any) {
	switch t := (*n).(type) {
	case map[string]any:
		for k, v := range t {
			if isSensitiveKey(k) {
				t[k] = "***"
				continue
			}
			vv := any(v)
			redactNode(&vv)
			t[k] = vv
		}
	case []any:
		for i := range t {
			vv := any(t[i])
			redactNode(&vv)
			t[i] = vv
		}
	}
}

func isSensitiveKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range sensitiveKeys {
		if k == s {
			return true
		}
	}
	return false
}
