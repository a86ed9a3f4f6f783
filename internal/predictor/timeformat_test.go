package predictor

import "testing"

func TestFormatRaceTime(t *testing.T) {
	formatTests := []struct {
		ms       int64
		expected string
	}{
		{ms: 0, expected: "00:00.000"},
		{ms: 999, expected: "00:00.999"},
		{ms: 125678, expected: "02:05.678"},
		{ms: 3599999, expected: "59:59.999"},
		{ms: 3725000, expected: "01:02:05.000"},
		{ms: -50, expected: "00:00.000"},
	}

	for _, test := range formatTests {
		if got := FormatRaceTime(test.ms); got != test.expected {
			t.Errorf("FormatRaceTime(%d) = %q, expected: %q", test.ms, got, test.expected)
		}
	}
}

func TestFormatDeltaTime(t *testing.T) {
	if got := FormatDeltaTime(-1234); got != "-00:01.234" {
		t.Errorf("Expected -00:01.234, got: %q", got)
	}

	if got := FormatDeltaTime(1234); got != "+00:01.234" {
		t.Errorf("Expected +00:01.234, got: %q", got)
	}
}
