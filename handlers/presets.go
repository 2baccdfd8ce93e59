package handlers

import (
	"net/http"
	"time"

	"github.com/savid/stream-tuner/internal/data"
	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/sirupsen/logrus"
)

type presetsResponse struct {
	Source    string                `json:"source"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Table     transcode.PresetTable `json:"table"`
}

// PresetsHandler serves the active preset table.
type PresetsHandler struct {
	store  *data.Store
	logger *logrus.Logger
}

// NewPresetsHandler creates a new presets handler instance.
func NewPresetsHandler(store *data.Store, logger *logrus.Logger) *PresetsHandler {
	return &PresetsHandler{
		store:  store,
		logger: logger,
	}
}

func (h *PresetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	table, ok := h.store.Table()
	if !ok {
		h.logger.Error("Preset table not available")
		http.Error(w, "Preset table not available", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, presetsResponse{
		Source:    h.store.Source(),
		UpdatedAt: h.store.LastSync(),
		Table:     table,
	})
}
