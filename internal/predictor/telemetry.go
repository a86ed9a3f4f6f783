package predictor

// TelemetryFrame is the read-only snapshot of host telemetry supplied to the
// engine once per frame. The engine never mutates a frame.
type TelemetryFrame struct {
	MapID         string     `json:"map_id" yaml:"map_id"`
	Landmarks     []Landmark `json:"landmarks,omitempty" yaml:"landmarks,omitempty"`
	LandmarkIndex int        `json:"landmark_index" yaml:"landmark_index"`

	RaceStartTime int64 `json:"race_start_time" yaml:"race_start_time"`
	RaceTime      int64 `json:"race_time" yaml:"race_time"`

	IsLapRace bool `json:"is_lap_race" yaml:"is_lap_race"`
	LapCount  uint `json:"lap_count" yaml:"lap_count"`

	HasFinished      bool `json:"has_finished" yaml:"has_finished"`
	InArena          bool `json:"in_arena" yaml:"in_arena"`
	UIPlaying        bool `json:"ui_playing" yaml:"ui_playing"`
	InEditor         bool `json:"in_editor" yaml:"in_editor"`
	InterfaceVisible bool `json:"interface_visible" yaml:"interface_visible"`
}

// TelemetryProvider produces one frame per host tick.
type TelemetryProvider interface {
	Frame() (TelemetryFrame, error)
}
