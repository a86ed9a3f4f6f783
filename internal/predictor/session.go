package predictor

// SessionState is the lifecycle of a run on the current map.
type SessionState uint8

const (
	StateNotInGame SessionState = iota
	StateWaiting
	StateRacing
	StateFinished
)

func (s SessionState) String() string {
	switch s {
	case StateNotInGame:
		return "NotInGame"
	case StateWaiting:
		return "Waiting"
	case StateRacing:
		return "Racing"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown State"
	}
}

// RaceSession owns all per-run state for one map: the progress tracker, the
// cached classification, and the current run's split buffer. It is created on
// map entry, restarted on every race start-time change, and destroyed on map
// exit. Nothing accumulates outside these fields, so predicted output can be
// rebuilt from a session and the current frame alone.
type RaceSession struct {
	state          SessionState
	mapID          string
	startTime      int64
	classification ClassificationResult
	tracker        *ProgressTracker
	currentRun     SplitRecord
}

// NewRaceSession starts a session in the Waiting state. startTime records the
// race clock origin the host currently reports; the session transitions to
// Racing only once that value changes, which covers the first start and every
// restart uniformly.
func NewRaceSession(mapID string, classification ClassificationResult, startTime int64) *RaceSession {
	return &RaceSession{
		state:          StateWaiting,
		mapID:          mapID,
		startTime:      startTime,
		classification: classification,
		tracker:        NewProgressTracker(classification.IsLapRace),
	}
}

// Begin starts (or restarts) a run keyed on a new race start time, resetting
// progress and resizing the split buffer to totalCheckpoints+1.
func (rs *RaceSession) Begin(startTime int64) {
	rs.startTime = startTime
	rs.state = StateRacing
	rs.tracker.Reset()
	rs.currentRun = NewSplitRecord(rs.classification.TotalCheckpoints)
}

// Finish marks the run complete with the given final time.
func (rs *RaceSession) Finish(raceTimeMs int64) {
	rs.currentRun.Set(rs.classification.TotalCheckpoints, raceTimeMs)
	rs.state = StateFinished
}

func (rs *RaceSession) State() SessionState {
	return rs.state
}

func (rs *RaceSession) MapID() string {
	return rs.mapID
}

func (rs *RaceSession) StartTime() int64 {
	return rs.startTime
}

func (rs *RaceSession) Classification() ClassificationResult {
	return rs.classification
}

func (rs *RaceSession) CurrentCheckpoint() uint {
	return rs.tracker.CurrentCheckpoint()
}

func (rs *RaceSession) CurrentRun() SplitRecord {
	return rs.currentRun
}
