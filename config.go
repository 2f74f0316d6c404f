package geokit

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Maximum number of bytes read from a file or archive entry header.
	// Detection never reads past this ceiling.
	HeaderBytes int `env:"GEOKIT_HEADER_BYTES,default:32768"`

	// Minimum prefix length required before JSON content sniffing runs.
	// Anything shorter is reported as undetermined.
	MinParseBytes int `env:"GEOKIT_MIN_PARSE_BYTES,default:512"`

	// Number of JSON-like lines needed to classify content as a
	// newline-delimited GeoJSON sequence.
	SeqLineThreshold int `env:"GEOKIT_SEQ_LINE_THRESHOLD,default:2"`

	// Number of non-JSON-like lines tolerated before the sequence
	// pattern is rejected.
	SeqForeignLimit int `env:"GEOKIT_SEQ_FOREIGN_LIMIT,default:2"`

	// Upper bound on archive entries inspected per detection call.
	MaxArchiveEntries int `env:"GEOKIT_MAX_ARCHIVE_ENTRIES,default:10000"`

	// Glob pattern (matched against lowercased file names) used by the
	// directory watcher to select files for detection.
	WatchPattern string `env:"GEOKIT_WATCH_PATTERN,default:*"`

	// Log level for the default detector logger (debug, info, warn, error).
	LogLevel string `env:"GEOKIT_LOG_LEVEL,default:warn"`
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() *Config {
	return &Config{
		HeaderBytes:       32 * 1024,
		MinParseBytes:     512,
		SeqLineThreshold:  2,
		SeqForeignLimit:   2,
		MaxArchiveEntries: 10000,
		WatchPattern:      "*",
		LogLevel:          "warn",
	}
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
