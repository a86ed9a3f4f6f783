package predictor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OverlayFeed serves the read-only pull interface the overlay layer consumes:
// formatted prediction strings and checkpoint counters, plus metrics. It
// renders nothing itself.
type OverlayFeed struct {
	server *http.Server
	engine *Engine
	logger Logger
	port   uint16
}

func NewOverlayFeed(port uint16, engine *Engine, logger Logger) *OverlayFeed {
	return &OverlayFeed{
		port:   port,
		engine: engine,
		logger: logger,
	}
}

func (h *OverlayFeed) Listen() error {
	h.logger.Infof("Overlay feed listening on port: %d", h.port)

	h.server = &http.Server{
		Handler: h.Router(),
		Addr:    fmt.Sprintf(":%d", h.port),
	}

	go func() {
		err := h.server.ListenAndServe()

		if err == http.ErrServerClosed {
			return
		} else if err != nil {
			h.logger.WithError(err).Errorf("Could not start overlay feed server")
		}
	}()

	return nil
}

func (h *OverlayFeed) Router() http.Handler {
	router := chi.NewRouter()
	router.Mount("/overlay", http.HandlerFunc(h.Overlay))
	router.Mount("/metrics", promhttp.Handler())
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debugf("Could not find HTTP response for URL: %s", r.URL.String())

		http.NotFound(w, r)
	})

	return router
}

type overlayResponse struct {
	PredictedTime     string `json:"predicted_time"`
	DeltaTime         string `json:"delta_time"`
	CurrentCheckpoint uint   `json:"current_checkpoint"`
	TotalCheckpoints  uint   `json:"total_checkpoints"`
	State             string `json:"state"`
	LastError         string `json:"last_error,omitempty"`
}

func (h *OverlayFeed) Overlay(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(overlayResponse{
		PredictedTime:     h.engine.PredictedTimeString(),
		DeltaTime:         h.engine.DeltaTimeString(),
		CurrentCheckpoint: h.engine.CurrentCheckpoint(),
		TotalCheckpoints:  h.engine.TotalCheckpoints(),
		State:             h.engine.State().String(),
		LastError:         h.engine.LastError(),
	})

	if err != nil {
		h.logger.WithError(err).Errorf("Could not encode overlay response")
	}
}

func (h *OverlayFeed) Close() error {
	if h.server == nil {
		return nil
	}

	return h.server.Close()
}
