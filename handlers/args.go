package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/savid/stream-tuner/internal/data"
	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/savid/stream-tuner/internal/types"
	"github.com/sirupsen/logrus"
)

// ArgsHandler builds ffmpeg argument lists from query parameters.
type ArgsHandler struct {
	store    *data.Store
	defaults types.StreamDefaults
	logger   *logrus.Logger
}

// NewArgsHandler creates a new argument list handler instance.
func NewArgsHandler(store *data.Store, defaults types.StreamDefaults, logger *logrus.Logger) *ArgsHandler {
	return &ArgsHandler{
		store:    store,
		defaults: defaults,
		logger:   logger,
	}
}

func (h *ArgsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	table, ok := h.store.Table()
	if !ok {
		h.logger.Error("Preset table not available")
		http.Error(w, "Preset table not available", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	req := transcode.Request{
		Source:  query.Get("source"),
		Seek:    query.Get("seek"),
		Profile: transcode.OutputProfile(query.Get("profile")),
	}

	if q := query.Get("quality"); q != "" {
		quality, err := transcode.ParseQuality(q)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		req.Quality = quality
	}

	if f := query.Get("filters"); f != "" {
		filters, err := strconv.ParseBool(f)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, errors.New("filters must be a boolean"))
			return
		}
		req.Filters = filters
	}

	result, err := transcode.NewBuilder(table, h.defaults, h.logger).Build(req)
	if err != nil {
		h.logger.WithError(err).WithField("source", req.Source).Warn("Rejected argument request")
		writeError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
