package predictor

// NoLandmark is the landmark index reported before the player has launched
// from any landmark on the current map.
const NoLandmark = -1

// ProgressTracker consumes per-tick landmark index transitions and maintains
// the player's checkpoint count within the current run. It is idempotent
// across repeated identical ticks.
type ProgressTracker struct {
	lastLandmarkIndex int
	currentCheckpoint uint
	isFinish          bool
	isLapRace         bool
}

func NewProgressTracker(isLapRace bool) *ProgressTracker {
	return &ProgressTracker{
		lastLandmarkIndex: NoLandmark,
		isLapRace:         isLapRace,
	}
}

// Reset clears run progress. Called on every race start and restart so an
// index cached from a previous run or map cannot leak into the new one.
func (pt *ProgressTracker) Reset() {
	pt.lastLandmarkIndex = NoLandmark
	pt.currentCheckpoint = 0
	pt.isFinish = false
}

// Advance processes the landmark index the player most recently launched
// from. An unchanged index is a no-op. An index outside the landmark list is
// stale data from a previous map or the editor and is recorded but otherwise
// discarded.
func (pt *ProgressTracker) Advance(index int, landmarks []Landmark) {
	if index == pt.lastLandmarkIndex {
		return
	}

	pt.lastLandmarkIndex = index

	if index < 0 || index >= len(landmarks) {
		return
	}

	landmark := landmarks[index]

	if !landmark.HasWaypoint || landmark.IsFinish || landmark.IsMultiLap {
		switch {
		case pt.isLapRace && (landmark.IsFinish || landmark.IsMultiLap):
			// every lap boundary counts as a checkpoint in a lap race
			pt.currentCheckpoint++
			pt.isFinish = landmark.IsFinish
		case landmark.IsFinish:
			pt.isFinish = true
			pt.currentCheckpoint++
		default:
			// start block re-entry without a finish: the run restarted at the origin
			pt.currentCheckpoint = 0
		}

		return
	}

	pt.currentCheckpoint++
}

func (pt *ProgressTracker) CurrentCheckpoint() uint {
	return pt.currentCheckpoint
}

func (pt *ProgressTracker) IsFinish() bool {
	return pt.isFinish
}

func (pt *ProgressTracker) LastLandmarkIndex() int {
	return pt.lastLandmarkIndex
}
