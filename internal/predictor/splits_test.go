package predictor

import "testing"

func TestSplitRecordEncodeDecode(t *testing.T) {
	record := SplitRecord{0, 1000, 2200, 3000}

	decoded, err := DecodeSplitRecord(record.Encode())

	if err != nil {
		t.Fatalf("Could not decode encoded record: %s", err)
	}

	if len(decoded) != len(record) {
		t.Fatalf("Expected %d entries, got: %d", len(record), len(decoded))
	}

	for i := range record {
		if decoded[i] != record[i] {
			t.Errorf("Entry %d: expected %d, got: %d", i, record[i], decoded[i])
		}
	}
}

func TestDecodeSplitRecordRejectsDecreasingTimes(t *testing.T) {
	if _, err := DecodeSplitRecord([]byte("0;2000;1000")); err == nil {
		t.Error("Expected decreasing times to be rejected")
	}
}

func TestDecodeSplitRecordRejectsGarbage(t *testing.T) {
	if _, err := DecodeSplitRecord([]byte("0;banana;3000")); err == nil {
		t.Error("Expected non-numeric values to be rejected")
	}
}

func TestDecodeSplitRecordEmpty(t *testing.T) {
	record, err := DecodeSplitRecord([]byte(""))

	if err != nil {
		t.Fatalf("Empty input should decode to an empty record, got error: %s", err)
	}

	if len(record) != 0 {
		t.Errorf("Expected empty record, got %d entries", len(record))
	}
}

func TestSplitRecordCovers(t *testing.T) {
	record := SplitRecord{0, 1000, 2200, 3000}

	if !record.Covers(3) {
		t.Error("Record of length 4 must cover a 3 checkpoint map")
	}

	if record.Covers(4) {
		t.Error("Record of length 4 must not cover a 4 checkpoint map")
	}
}

func TestSplitRecordFinalTime(t *testing.T) {
	if (SplitRecord{}).FinalTime() != 0 {
		t.Error("Empty record must report a zero final time")
	}

	if (SplitRecord{0, 1000, 3000}).FinalTime() != 3000 {
		t.Error("Expected the last entry as final time")
	}
}
