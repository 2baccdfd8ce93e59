package handlers

import (
	"net/http"

	"github.com/savid/stream-tuner/internal/data"
	"github.com/savid/stream-tuner/internal/types"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every API route behind the logging middleware.
func NewRouter(store *data.Store, defaults types.StreamDefaults, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()
	timeHandler := NewTimeHandler(logger)

	mux.Handle("/presets", NewPresetsHandler(store, logger))
	mux.Handle("/args", NewArgsHandler(store, defaults, logger))
	mux.HandleFunc("/time/parse", timeHandler.Parse)
	mux.HandleFunc("/time/format", timeHandler.Format)

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return LoggingMiddleware(logger)(mux)
}
