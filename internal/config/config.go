// Package config defines calculator configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

// Output formats for scorecards and logs.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Discipline is used when a sheet or the interactive prompt names none.
	Discipline string `koanf:"discipline"`

	// Output selects how scorecards are printed: text or json.
	Output string `koanf:"output"`

	// Workers is the number of sheets scored concurrently. Zero means one
	// per CPU.
	Workers int `koanf:"workers"`

	// MetricsEnabled toggles metric collection.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsTextfile, when set, receives a Prometheus text dump on exit.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "warn",
		LogFormat:       FormatText,
		Discipline:      "decathlon",
		Output:          FormatText,
		Workers:         0,
		MetricsEnabled:  true,
		MetricsTextfile: "",
	}
}
