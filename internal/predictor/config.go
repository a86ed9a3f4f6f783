package predictor

// Config holds engine behaviour options. The zero value is usable: hybrid
// prediction, remote splits disabled, overlay always shown.
type Config struct {
	PredictionMethod string `json:"prediction_method" yaml:"prediction_method"`

	RemoteSplitsEnabled bool   `json:"remote_splits_enabled" yaml:"remote_splits_enabled"`
	RemoteURL           string `json:"remote_url" yaml:"remote_url"`
	RemoteFetchType     string `json:"remote_fetch_type" yaml:"remote_fetch_type"`

	// HideWithInterface suppresses prediction whenever the game interface is
	// hidden, matching the overlay's visibility option.
	HideWithInterface bool `json:"hide_with_interface" yaml:"hide_with_interface"`

	SplitsFile string `json:"splits_file" yaml:"splits_file"`
	HTTPPort   uint16 `json:"http_port" yaml:"http_port"`
}
