package predictor

import (
	"sync"
	"time"
)

// Engine is the per-frame core: it classifies landmarks on map entry, tracks
// run progress, recomputes the prediction on every tick, and hands finished
// runs to the split store. Everything runs on the caller's tick; the engine
// spawns no work of its own beyond fire-and-forget plugin callbacks.
type Engine struct {
	cfg        Config
	method     PredictionMethod
	classifier *LandmarkClassifier
	store      *SplitStore
	plugin     Plugin
	logger     Logger

	session *RaceSession

	predictedTimeString string
	deltaTimeString     string

	// snapshot published at the end of every tick for the overlay feed,
	// which reads from its own goroutines
	mutex    sync.RWMutex
	snapshot overlayState
}

type overlayState struct {
	predictedTime     string
	deltaTime         string
	currentCheckpoint uint
	totalCheckpoints  uint
	state             SessionState
	lastError         string
}

func NewEngine(cfg Config, store *SplitStore, logger Logger, plugin Plugin) (*Engine, error) {
	method, err := ParsePredictionMethod(cfg.PredictionMethod)

	if err != nil {
		return nil, err
	}

	if plugin == nil {
		plugin = nilPlugin{}
	}

	engine := &Engine{
		cfg:                 cfg,
		method:              method,
		classifier:          NewLandmarkClassifier(logger),
		store:               store,
		plugin:              plugin,
		logger:              logger,
		predictedTimeString: ZeroTimePlaceholder,
		deltaTimeString:     ZeroTimePlaceholder,
	}

	engine.publish()

	return engine, nil
}

// Tick consumes one telemetry frame. Within a tick the order is fixed:
// classify (map entry only), track progress, predict, persist, then poll the
// split store for completed remote work. No failure path aborts the tick.
func (e *Engine) Tick(frame TelemetryFrame) {
	ticksProcessed.Inc()

	defer e.publish()

	if !e.inPlayableContext(frame) {
		e.leaveGame()
		e.store.Poll()
		return
	}

	if e.session == nil || e.session.MapID() != frame.MapID {
		e.enterMap(frame)
	}

	session := e.session

	if frame.RaceStartTime != session.StartTime() {
		session.Begin(frame.RaceStartTime)
		e.resetOutput()
		e.logger.Debugf("Race started on map %s (start time %d)", session.MapID(), frame.RaceStartTime)

		go func() {
			if err := e.plugin.OnRaceStart(frame.RaceStartTime); err != nil {
				e.logger.WithError(err).Errorf("On race start plugin returned an error")
			}
		}()
	}

	if session.State() == StateRacing {
		e.advanceRun(frame)
	}

	e.store.Poll()
}

func (e *Engine) inPlayableContext(frame TelemetryFrame) bool {
	if frame.InArena && frame.MapID != "" && frame.UIPlaying && !frame.InEditor {
		return frame.InterfaceVisible || !e.cfg.HideWithInterface
	}

	return false
}

func (e *Engine) enterMap(frame TelemetryFrame) {
	classification := e.classifier.Classify(frame.MapID, frame.Landmarks, frame.IsLapRace, frame.LapCount)

	e.session = NewRaceSession(frame.MapID, classification, frame.RaceStartTime)
	e.store.OnMapChange(frame.MapID)
	e.resetOutput()

	go func() {
		if err := e.plugin.OnMapChange(frame.MapID, classification); err != nil {
			e.logger.WithError(err).Errorf("On map change plugin returned an error")
		}
	}()
}

func (e *Engine) advanceRun(frame TelemetryFrame) {
	session := e.session
	total := session.Classification().TotalCheckpoints
	previous := session.tracker.CurrentCheckpoint()

	session.tracker.Advance(frame.LandmarkIndex, frame.Landmarks)

	checkpoint := session.tracker.CurrentCheckpoint()

	if checkpoint != previous && checkpoint > 0 && checkpoint <= total {
		session.currentRun.Set(checkpoint, frame.RaceTime)
		checkpointsPassed.Inc()

		go func() {
			if err := e.plugin.OnCheckpoint(checkpoint, total, frame.RaceTime); err != nil {
				e.logger.WithError(err).Errorf("On checkpoint plugin returned an error")
			}
		}()
	}

	if checkpoint >= total && session.tracker.IsFinish() && frame.HasFinished {
		e.finishRun(frame)
		return
	}

	e.recompute(frame.RaceTime, checkpoint, total)
}

func (e *Engine) finishRun(frame TelemetryFrame) {
	session := e.session
	total := session.Classification().TotalCheckpoints

	// the delta is judged against the best that stood before this run
	previousBest := e.store.Best()

	session.Finish(frame.RaceTime)
	runsFinished.Inc()

	e.predictedTimeString = FormatRaceTime(frame.RaceTime)

	if delta, ok := PredictionDelta(float64(frame.RaceTime), previousBest, total); ok {
		e.deltaTimeString = FormatDeltaTime(int64(delta))
	} else {
		e.deltaTimeString = ZeroTimePlaceholder
	}

	e.logger.Infof("Run finished on map %s in %s", session.MapID(), e.predictedTimeString)

	newBest := e.store.SaveFinishedRun(session.MapID(), session.CurrentRun(), time.Now())

	record := session.CurrentRun().Clone()
	mapID := session.MapID()

	go func() {
		if err := e.plugin.OnFinish(frame.RaceTime); err != nil {
			e.logger.WithError(err).Errorf("On finish plugin returned an error")
		}

		if newBest {
			if err := e.plugin.OnNewLocalBest(mapID, record); err != nil {
				e.logger.WithError(err).Errorf("On new local best plugin returned an error")
			}
		}
	}()
}

func (e *Engine) recompute(raceTimeMs int64, checkpoint, total uint) {
	if checkpoint > total {
		checkpoint = total
	}

	input := PredictionInput{
		CurrentCheckpoint: checkpoint,
		TotalCheckpoints:  total,
		CurrentTimeMs:     raceTimeMs,
		BestSplits:        e.store.Best(),
	}

	predicted := Predict(e.method, input)
	e.predictedTimeString = FormatRaceTime(int64(predicted))

	if delta, ok := PredictionDelta(predicted, input.BestSplits, total); ok {
		e.deltaTimeString = FormatDeltaTime(int64(delta))
	} else {
		e.deltaTimeString = ZeroTimePlaceholder
	}
}

func (e *Engine) leaveGame() {
	if e.session != nil {
		e.logger.Debugf("Left map %s, suppressing prediction", e.session.MapID())
		e.session = nil
		// classification is not assumed stable across editor edits
		e.classifier.Invalidate()
	}

	e.resetOutput()
}

func (e *Engine) resetOutput() {
	e.predictedTimeString = ZeroTimePlaceholder
	e.deltaTimeString = ZeroTimePlaceholder
}

// publish copies the tick outcome into the snapshot the overlay feed reads
// from its own goroutines. Tick internals stay lock free.
func (e *Engine) publish() {
	state := overlayState{
		predictedTime: e.predictedTimeString,
		deltaTime:     e.deltaTimeString,
		state:         StateNotInGame,
		lastError:     e.store.LastError(),
	}

	if e.session != nil {
		state.currentCheckpoint = e.session.CurrentCheckpoint()
		state.totalCheckpoints = e.session.Classification().TotalCheckpoints
		state.state = e.session.State()
	}

	e.mutex.Lock()
	e.snapshot = state
	e.mutex.Unlock()
}

// The overlay layer reads these as plain formatted strings and integers; it
// has no other view into the engine.

func (e *Engine) PredictedTimeString() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.predictedTime
}

func (e *Engine) DeltaTimeString() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.deltaTime
}

func (e *Engine) CurrentCheckpoint() uint {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.currentCheckpoint
}

func (e *Engine) TotalCheckpoints() uint {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.totalCheckpoints
}

func (e *Engine) State() SessionState {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.state
}

// LastError surfaces the split store's most recent failure for diagnostic
// display.
func (e *Engine) LastError() string {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	return e.snapshot.lastError
}

// SetToken forwards a bearer token from the authentication collaborator.
func (e *Engine) SetToken(token string) {
	e.store.SetToken(token)
}
