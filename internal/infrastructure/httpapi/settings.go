package httpapi

import (
	"encoding/json"
	"net/http"
)

type streamSettingsDTO struct {
	FPS     int `json:"fps"`
	Quality int `json:"quality"`
	Width   int `json:"width"`
	Height  int `json:"height"`
}

type settingsDTO struct {
	Stream streamSettingsDTO `json:"stream"`
}

// handleSettings reads/writes the stream tuning at runtime. Changes apply to
// producers started after the change; a running producer keeps its snapshot.
func (d *Deps) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, settingsDTO{Stream: d.currentStreamSettings()})
	case http.MethodPost:
		var in settingsDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_JSON", "invalid json", nil)
			return
		}
		s := in.Stream
		if s.FPS < 1 || s.FPS > 60 {
			writeError(w, http.StatusBadRequest, "BAD_VALUE", "fps must be in 1..60", nil)
			return
		}
		if s.Quality < 1 || s.Quality > 100 {
			writeError(w, http.StatusBadRequest, "BAD_VALUE", "quality must be in 1..100", nil)
			return
		}
		if s.Width < 0 || s.Height < 0 {
			writeError(w, http.StatusBadRequest, "BAD_VALUE", "width/height must be >= 0", nil)
			return
		}
		d.settingsMu.Lock()
		d.Cfg.StreamFPS = s.FPS
		d.Cfg.StreamQuality = s.Quality
		d.Cfg.StreamWidth = s.Width
		d.Cfg.StreamHeight = s.Height
		d.settingsMu.Unlock()
		writeJSON(w, http.StatusOK, settingsDTO{Stream: d.currentStreamSettings()})
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "use GET or POST", nil)
	}
}

func (d *Deps) currentStreamSettings() streamSettingsDTO {
	d.settingsMu.RLock()
	defer d.settingsMu.RUnlock()
	return streamSettingsDTO{
		FPS:     d.Cfg.StreamFPS,
		Quality: d.Cfg.StreamQuality,
		Width:   d.Cfg.StreamWidth,
		Height:  d.Cfg.StreamHeight,
	}
}
