package configs

import (
	"strings"
)

// CollectorConfig holds configuration parameters for the snapshot collector.
type CollectorConfig struct {
	SourceDSN       string `json:"source_dsn"`        // Monitored postgres instance
	DatabaseDSN     string `json:"database_dsn"`      // Snapshot storage DSN
	PollInterval    int    `json:"poll_interval"`     // Capture interval in seconds (0 means capture once)
	FileStoragePath string `json:"file_storage_path"` // Directory for file-backed snapshot storage
}

// CollectorConfigOpt defines a function type for applying configuration options to CollectorConfig.
type CollectorConfigOpt func(*CollectorConfig) error

// NewCollectorConfig creates a new CollectorConfig with the given options applied.
// Returns error if any option fails.
func NewCollectorConfig(opts ...CollectorConfigOpt) (*CollectorConfig, error) {
	cfg := &CollectorConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithSourceDSN returns a CollectorConfigOpt that sets the SourceDSN field to
// the first non-empty string in dsns.
func WithSourceDSN(dsns ...string) CollectorConfigOpt {
	return func(cfg *CollectorConfig) error {
		for _, dsn := range dsns {
			if strings.TrimSpace(dsn) != "" {
				cfg.SourceDSN = dsn
				break
			}
		}
		return nil
	}
}

// WithStorageDSN returns a CollectorConfigOpt that sets the DatabaseDSN field to
// the first non-empty string in dsns.
func WithStorageDSN(dsns ...string) CollectorConfigOpt {
	return func(cfg *CollectorConfig) error {
		for _, dsn := range dsns {
			if strings.TrimSpace(dsn) != "" {
				cfg.DatabaseDSN = dsn
				break
			}
		}
		return nil
	}
}

// WithPollInterval returns a CollectorConfigOpt that sets the PollInterval field to
// the first positive int in intervals.
func WithPollInterval(intervals ...int) CollectorConfigOpt {
	return func(cfg *CollectorConfig) error {
		for _, interval := range intervals {
			if interval > 0 {
				cfg.PollInterval = interval
				break
			}
		}
		return nil
	}
}

// WithStoragePath returns a CollectorConfigOpt that sets the FileStoragePath field to
// the first non-empty string in paths.
func WithStoragePath(paths ...string) CollectorConfigOpt {
	return func(cfg *CollectorConfig) error {
		for _, path := range paths {
			if strings.TrimSpace(path) != "" {
				cfg.FileStoragePath = path
				break
			}
		}
		return nil
	}
}
