package predictor

import "fmt"

// PredictionMethod selects the algorithm used to estimate the finish time.
type PredictionMethod uint8

const (
	PredictLinear PredictionMethod = iota
	PredictBestSplits
	PredictHybrid
)

// Hybrid weighting. Best-splits carries most of the signal once a best
// record exists; the linear term damps it against pace swings.
const (
	hybridBestWeight   = 0.7
	hybridLinearWeight = 0.3
)

func (m PredictionMethod) String() string {
	switch m {
	case PredictLinear:
		return "linear"
	case PredictBestSplits:
		return "bestsplits"
	case PredictHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParsePredictionMethod maps a config string onto a method. The empty string
// selects hybrid.
func ParsePredictionMethod(name string) (PredictionMethod, error) {
	switch name {
	case "linear":
		return PredictLinear, nil
	case "bestsplits":
		return PredictBestSplits, nil
	case "hybrid", "":
		return PredictHybrid, nil
	default:
		return PredictHybrid, fmt.Errorf("unknown prediction method: %s", name)
	}
}

// PredictionInput is the per-tick snapshot the algorithms work from. The
// best-split record is read-only here; the split store owns the mutable copy.
type PredictionInput struct {
	CurrentCheckpoint uint
	TotalCheckpoints  uint
	CurrentTimeMs     int64
	BestSplits        SplitRecord
}

// PredictLinearTime extrapolates the average time per checkpoint so far over
// the remaining checkpoints. With no progress yet it returns the current
// time unchanged.
func PredictLinearTime(in PredictionInput) float64 {
	current := float64(in.CurrentTimeMs)

	if in.CurrentCheckpoint == 0 {
		return current
	}

	remaining := int64(in.TotalCheckpoints) - int64(in.CurrentCheckpoint)

	if remaining < 0 {
		remaining = 0
	}

	avgPerCheckpoint := current / float64(in.CurrentCheckpoint)

	return current + avgPerCheckpoint*float64(remaining)
}

// PredictBestSplitsTime scales the best final time by the pace ratio against
// the best split at the current checkpoint. It falls back to linear
// extrapolation when no usable best record exists, when no progress has been
// made yet, or when the best split at the current checkpoint is zero.
func PredictBestSplitsTime(in PredictionInput) float64 {
	if in.CurrentCheckpoint == 0 || !in.BestSplits.Covers(in.TotalCheckpoints) {
		return PredictLinearTime(in)
	}

	bestAtCheckpoint := in.BestSplits[in.CurrentCheckpoint]

	if bestAtCheckpoint == 0 {
		return PredictLinearTime(in)
	}

	paceRatio := float64(in.CurrentTimeMs) / float64(bestAtCheckpoint)

	return float64(in.BestSplits[in.TotalCheckpoints]) * paceRatio
}

// PredictHybridTime blends the two predictions, each computed under its own
// fallback rules.
func PredictHybridTime(in PredictionInput) float64 {
	return hybridBestWeight*PredictBestSplitsTime(in) + hybridLinearWeight*PredictLinearTime(in)
}

// Predict dispatches to the configured algorithm.
func Predict(method PredictionMethod, in PredictionInput) float64 {
	switch method {
	case PredictLinear:
		return PredictLinearTime(in)
	case PredictBestSplits:
		return PredictBestSplitsTime(in)
	default:
		return PredictHybridTime(in)
	}
}

// PredictionDelta is the predicted time minus the best final time, sign
// preserved so negative means ahead of the best. The second return is false
// when no best record covers the map.
func PredictionDelta(predicted float64, best SplitRecord, totalCheckpoints uint) (float64, bool) {
	if !best.Covers(totalCheckpoints) || best.FinalTime() == 0 {
		return 0, false
	}

	return predicted - float64(best[totalCheckpoints]), true
}
