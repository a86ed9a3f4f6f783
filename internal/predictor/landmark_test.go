package predictor

import "testing"

type classifyTest struct {
	name           string
	landmarks      []Landmark
	isLapRace      bool
	lapCount       uint
	expectedCount  uint
	expectedStrict bool
}

func checkpointLandmark(tag LandmarkTag, order int) Landmark {
	return Landmark{Order: order, Tag: tag, HasWaypoint: true}
}

func finishLandmark(order int) Landmark {
	return Landmark{Order: order, Tag: TagFinish, HasWaypoint: true, IsFinish: true}
}

func multiLapLandmark(order int) Landmark {
	return Landmark{Order: order, Tag: TagMultiLap, HasWaypoint: true, IsMultiLap: true}
}

func TestClassifyLandmarks(t *testing.T) {
	classifyTests := []classifyTest{
		{
			name: "Only standard checkpoints",
			landmarks: []Landmark{
				checkpointLandmark(TagCheckpoint, 0),
				checkpointLandmark(TagCheckpoint, 1),
				checkpointLandmark(TagCheckpoint, 2),
				finishLandmark(3),
			},
			expectedCount:  3,
			expectedStrict: true,
		},
		{
			name: "Linked checkpoints sharing an order count once",
			landmarks: []Landmark{
				checkpointLandmark(TagCheckpoint, 0),
				checkpointLandmark(TagLinkedCheckpoint, 5),
				checkpointLandmark(TagLinkedCheckpoint, 5),
				checkpointLandmark(TagLinkedCheckpoint, 6),
				finishLandmark(7),
			},
			expectedCount:  3,
			expectedStrict: true,
		},
		{
			name: "Anomalous landmark still counts but clears strict mode",
			landmarks: []Landmark{
				checkpointLandmark(TagCheckpoint, 0),
				checkpointLandmark(TagNone, 1),
				finishLandmark(2),
			},
			expectedCount:  2,
			expectedStrict: false,
		},
		{
			name: "Lap race multiplies checkpoints per lap",
			landmarks: []Landmark{
				checkpointLandmark(TagCheckpoint, 0),
				checkpointLandmark(TagCheckpoint, 1),
				multiLapLandmark(2),
			},
			isLapRace:      true,
			lapCount:       3,
			expectedCount:  6,
			expectedStrict: true,
		},
		{
			name:           "Empty landmark list defaults to one checkpoint",
			landmarks:      []Landmark{},
			expectedCount:  1,
			expectedStrict: true,
		},
		{
			name: "Only finish landmarks still yields one checkpoint",
			landmarks: []Landmark{
				finishLandmark(0),
			},
			expectedCount:  1,
			expectedStrict: true,
		},
	}

	for _, test := range classifyTests {
		t.Run(test.name, func(t *testing.T) {
			result := ClassifyLandmarks(test.landmarks, test.isLapRace, test.lapCount)

			if result.TotalCheckpoints != test.expectedCount {
				t.Errorf("Expected %d checkpoints, got: %d", test.expectedCount, result.TotalCheckpoints)
			}

			if result.StrictMode != test.expectedStrict {
				t.Errorf("Expected strict mode: %t, got: %t", test.expectedStrict, result.StrictMode)
			}
		})
	}
}

func TestLandmarkClassifierCache(t *testing.T) {
	classifier := NewLandmarkClassifier(testLogger())

	landmarks := []Landmark{
		checkpointLandmark(TagCheckpoint, 0),
		finishLandmark(1),
	}

	first := classifier.Classify("mapA", landmarks, false, 0)

	// a changed landmark list for the same map id must not trigger a rescan
	second := classifier.Classify("mapA", landmarks[:1], false, 0)

	if first != second {
		t.Errorf("Expected cached classification for same map id, got: %v and %v", first, second)
	}

	classifier.Invalidate()

	third := classifier.Classify("mapA", append(landmarks, checkpointLandmark(TagCheckpoint, 2)), false, 0)

	if third.TotalCheckpoints != 2 {
		t.Errorf("Expected rescan after invalidation to count 2 checkpoints, got: %d", third.TotalCheckpoints)
	}
}
