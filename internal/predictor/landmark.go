package predictor

import "fmt"

// LandmarkTag describes how a track landmark behaves when the player crosses
// it. Maps built with the standard editor tag every checkpoint explicitly;
// community maps sometimes do not, which is what TagAnomalousCheckpoint and
// the strict-mode flag exist for.
type LandmarkTag uint8

const (
	TagNone LandmarkTag = iota
	TagCheckpoint
	TagLinkedCheckpoint
	TagAnomalousCheckpoint
	TagFinish
	TagMultiLap
)

func (t LandmarkTag) String() string {
	switch t {
	case TagNone:
		return "None"
	case TagCheckpoint:
		return "Checkpoint"
	case TagLinkedCheckpoint:
		return "LinkedCheckpoint"
	case TagAnomalousCheckpoint:
		return "AnomalousCheckpoint"
	case TagFinish:
		return "Finish"
	case TagMultiLap:
		return "MultiLap"
	default:
		return "Unknown Tag"
	}
}

// Landmark is one ordered waypoint of the currently loaded map. The landmark
// list is scanned once per map load and treated as immutable until the map
// changes or the editor is re-entered.
type Landmark struct {
	Order       int         `json:"order" yaml:"order"`
	Tag         LandmarkTag `json:"tag" yaml:"tag"`
	HasWaypoint bool        `json:"has_waypoint" yaml:"has_waypoint"`
	IsFinish    bool        `json:"is_finish" yaml:"is_finish"`
	IsMultiLap  bool        `json:"is_multi_lap" yaml:"is_multi_lap"`
}

// ClassificationResult is the per-map checkpoint count derived from the
// landmark list. StrictMode is false when the count includes landmarks that
// behave like checkpoints without carrying a checkpoint tag, in which case
// the total is a best-effort estimate.
type ClassificationResult struct {
	TotalCheckpoints uint
	IsLapRace        bool
	LapCount         uint
	StrictMode       bool
}

func (c ClassificationResult) String() string {
	return fmt.Sprintf("Checkpoints: %d, Lap Race: %t, Laps: %d, Strict: %t", c.TotalCheckpoints, c.IsLapRace, c.LapCount, c.StrictMode)
}

// ClassifyLandmarks counts the logical checkpoints in an ordered landmark
// list. Finish and multi-lap waypoints terminate a checkpoint sequence and
// are never counted. Linked checkpoints sharing an order value are visual
// duplicates of one logical checkpoint and count once. Any other landmark
// that is not a finish or lap boundary still counts, but clears strict mode.
func ClassifyLandmarks(landmarks []Landmark, isLapRace bool, lapCount uint) ClassificationResult {
	count := uint(0)
	strict := true
	seenOrders := make(map[int]bool)

	for _, landmark := range landmarks {
		if landmark.IsFinish || landmark.IsMultiLap || landmark.Tag == TagFinish || landmark.Tag == TagMultiLap {
			continue
		}

		switch landmark.Tag {
		case TagCheckpoint:
			count++
		case TagLinkedCheckpoint:
			if !seenOrders[landmark.Order] {
				seenOrders[landmark.Order] = true
				count++
			}
		default:
			count++
			strict = false
		}
	}

	if isLapRace && lapCount > 1 {
		count *= lapCount
	}

	if count == 0 {
		count = 1
	}

	return ClassificationResult{
		TotalCheckpoints: count,
		IsLapRace:        isLapRace,
		LapCount:         lapCount,
		StrictMode:       strict,
	}
}

// LandmarkClassifier caches one classification per map id. Re-entering the
// editor invalidates the cache, since landmark lists are not stable across
// edits.
type LandmarkClassifier struct {
	logger Logger

	mapID     string
	cached    ClassificationResult
	hasCached bool
}

func NewLandmarkClassifier(logger Logger) *LandmarkClassifier {
	return &LandmarkClassifier{
		logger: logger,
	}
}

func (lc *LandmarkClassifier) Classify(mapID string, landmarks []Landmark, isLapRace bool, lapCount uint) ClassificationResult {
	if lc.hasCached && lc.mapID == mapID {
		return lc.cached
	}

	result := ClassifyLandmarks(landmarks, isLapRace, lapCount)

	if !result.StrictMode {
		lc.logger.Warnf("Map %s has non-standard checkpoint tagging, checkpoint count is an estimate", mapID)
	}

	lc.logger.Infof("Classified map %s: %s", mapID, result)

	lc.mapID = mapID
	lc.cached = result
	lc.hasCached = true

	return result
}

// Invalidate drops the cached classification so the next Classify call
// rescans, regardless of map id.
func (lc *LandmarkClassifier) Invalidate() {
	lc.hasCached = false
	lc.mapID = ""
}
