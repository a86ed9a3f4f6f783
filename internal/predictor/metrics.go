package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictor_ticks_total",
		Help: "Telemetry ticks processed by the engine.",
	})

	checkpointsPassed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictor_checkpoints_total",
		Help: "Checkpoints crossed across all runs.",
	})

	runsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictor_runs_finished_total",
		Help: "Runs completed to the finish line.",
	})

	localBestOverwrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "predictor_local_best_overwrites_total",
		Help: "Times a finished run replaced the local best record.",
	})

	remoteFetchResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictor_remote_fetch_total",
		Help: "Remote best-split fetches by result.",
	}, []string{"result"})

	remoteSaveResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictor_remote_save_total",
		Help: "Remote run submissions by result.",
	}, []string{"result"})
)
