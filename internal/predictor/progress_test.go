package predictor

import "testing"

func testTrackLandmarks() []Landmark {
	return []Landmark{
		{Order: 0, HasWaypoint: false},                                            // start block
		{Order: 1, Tag: TagCheckpoint, HasWaypoint: true},                         // checkpoint 1
		{Order: 2, Tag: TagCheckpoint, HasWaypoint: true},                         // checkpoint 2
		{Order: 3, Tag: TagMultiLap, HasWaypoint: true, IsMultiLap: true},         // lap boundary
		{Order: 4, Tag: TagFinish, HasWaypoint: true, IsFinish: true},             // finish
	}
}

func TestProgressTrackerIdempotence(t *testing.T) {
	tracker := NewProgressTracker(false)
	landmarks := testTrackLandmarks()

	tracker.Advance(1, landmarks)

	if tracker.CurrentCheckpoint() != 1 {
		t.Errorf("Expected 1 checkpoint after first landmark, got: %d", tracker.CurrentCheckpoint())
	}

	for i := 0; i < 10; i++ {
		tracker.Advance(1, landmarks)
	}

	if tracker.CurrentCheckpoint() != 1 {
		t.Errorf("Repeated identical ticks must not increment, got: %d", tracker.CurrentCheckpoint())
	}
}

func TestProgressTrackerCheckpointSequence(t *testing.T) {
	tracker := NewProgressTracker(false)
	landmarks := testTrackLandmarks()

	tracker.Advance(1, landmarks)
	tracker.Advance(2, landmarks)

	if tracker.CurrentCheckpoint() != 2 {
		t.Errorf("Expected 2 checkpoints, got: %d", tracker.CurrentCheckpoint())
	}

	if tracker.IsFinish() {
		t.Error("Finish flag set before crossing the finish")
	}

	tracker.Advance(4, landmarks)

	if !tracker.IsFinish() {
		t.Error("Expected finish flag after crossing the finish landmark")
	}

	if tracker.CurrentCheckpoint() != 3 {
		t.Errorf("Expected finish to count as a checkpoint, got: %d", tracker.CurrentCheckpoint())
	}
}

func TestProgressTrackerStartBlockResetsRun(t *testing.T) {
	tracker := NewProgressTracker(false)
	landmarks := testTrackLandmarks()

	tracker.Advance(1, landmarks)
	tracker.Advance(2, landmarks)

	// re-entering the start block without a finish means the run restarted
	tracker.Advance(0, landmarks)

	if tracker.CurrentCheckpoint() != 0 {
		t.Errorf("Expected checkpoint reset on start block re-entry, got: %d", tracker.CurrentCheckpoint())
	}
}

func TestProgressTrackerLapBoundaries(t *testing.T) {
	tracker := NewProgressTracker(true)
	landmarks := testTrackLandmarks()

	tracker.Advance(1, landmarks)
	tracker.Advance(2, landmarks)
	tracker.Advance(3, landmarks)

	if tracker.CurrentCheckpoint() != 3 {
		t.Errorf("Expected lap boundary to count as a checkpoint in a lap race, got: %d", tracker.CurrentCheckpoint())
	}

	if tracker.IsFinish() {
		t.Error("Multi-lap boundary must not set the finish flag")
	}

	tracker.Advance(1, landmarks)
	tracker.Advance(2, landmarks)
	tracker.Advance(4, landmarks)

	if !tracker.IsFinish() {
		t.Error("Expected finish flag on the final lap")
	}

	if tracker.CurrentCheckpoint() != 6 {
		t.Errorf("Expected 6 checkpoints over two laps, got: %d", tracker.CurrentCheckpoint())
	}
}

func TestProgressTrackerDiscardsStaleIndex(t *testing.T) {
	tracker := NewProgressTracker(false)
	landmarks := testTrackLandmarks()

	// an index cached from a previous map is out of range here
	tracker.Advance(42, landmarks)

	if tracker.CurrentCheckpoint() != 0 {
		t.Errorf("Stale landmark index must not advance progress, got: %d", tracker.CurrentCheckpoint())
	}

	if tracker.LastLandmarkIndex() != 42 {
		t.Errorf("Stale index should still be recorded for idempotence, got: %d", tracker.LastLandmarkIndex())
	}
}
