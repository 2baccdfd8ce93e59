package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/savid/stream-tuner/internal/timecode"
	"github.com/sirupsen/logrus"
)

type timeResponse struct {
	Value   string `json:"value"`
	Seconds int    `json:"seconds"`
}

// TimeHandler converts between time strings and seconds.
type TimeHandler struct {
	logger *logrus.Logger
}

// NewTimeHandler creates a new time conversion handler instance.
func NewTimeHandler(logger *logrus.Logger) *TimeHandler {
	return &TimeHandler{logger: logger}
}

// Parse handles GET /time/parse?value=1:30:45.
func (h *TimeHandler) Parse(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	value := r.URL.Query().Get("value")
	seconds, err := timecode.Parse(value)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, timeResponse{Value: value, Seconds: seconds})
}

// Format handles GET /time/format?seconds=5445.
func (h *TimeHandler) Format(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	raw := r.URL.Query().Get("seconds")
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: seconds %q is not an integer", timecode.ErrInvalidDuration, raw))
		return
	}

	value, err := timecode.Format(seconds)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, timeResponse{Value: value, Seconds: seconds})
}
