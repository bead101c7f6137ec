package configs

import (
	"strings"
)

// AnalyzerConfig holds configuration settings for the analyzer.
type AnalyzerConfig struct {
	Address            string `json:"address"`              // Report server address
	DatabaseDSN        string `json:"database_dsn"`         // Snapshot storage DSN
	AnalysisConfigPath string `json:"analysis_config_path"` // Path to metric definitions and job file
	RunInterval        int    `json:"run_interval"`         // Interval in seconds between analysis runs (0 means run once)
	WebhookURL         string `json:"webhook_url"`          // Endpoint notified about flagged rows
	TrustedSubnet      string `json:"trusted_subnet"`       // CIDR allowed to query the report endpoints
	FileStoragePath    string `json:"file_storage_path"`    // Directory for file-backed snapshot and report storage
}

// AnalyzerConfigOpt defines a function type for applying options to AnalyzerConfig.
type AnalyzerConfigOpt func(*AnalyzerConfig) error

// NewAnalyzerConfig creates a new AnalyzerConfig by applying the given options.
// Returns an error if any option returns an error.
func NewAnalyzerConfig(opts ...AnalyzerConfigOpt) (*AnalyzerConfig, error) {
	cfg := &AnalyzerConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithAddress returns an AnalyzerConfigOpt that sets the Address field
// to the first non-empty string provided in addrs.
func WithAddress(addrs ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, addr := range addrs {
			if strings.TrimSpace(addr) != "" {
				cfg.Address = addr
				break
			}
		}
		return nil
	}
}

// WithDatabaseDSN returns an AnalyzerConfigOpt that sets the DatabaseDSN
// field to the first non-empty string provided in dsns.
func WithDatabaseDSN(dsns ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, dsn := range dsns {
			if strings.TrimSpace(dsn) != "" {
				cfg.DatabaseDSN = dsn
				break
			}
		}
		return nil
	}
}

// WithAnalysisConfigPath returns an AnalyzerConfigOpt that sets the
// AnalysisConfigPath field to the first non-empty string provided in paths.
func WithAnalysisConfigPath(paths ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, path := range paths {
			if strings.TrimSpace(path) != "" {
				cfg.AnalysisConfigPath = path
				break
			}
		}
		return nil
	}
}

// WithRunInterval returns an AnalyzerConfigOpt that sets the RunInterval
// field to the first positive integer provided in intervals.
func WithRunInterval(intervals ...int) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, interval := range intervals {
			if interval > 0 {
				cfg.RunInterval = interval
				break
			}
		}
		return nil
	}
}

// WithWebhookURL returns an AnalyzerConfigOpt that sets the WebhookURL
// field to the first non-empty string provided in urls.
func WithWebhookURL(urls ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, url := range urls {
			if strings.TrimSpace(url) != "" {
				cfg.WebhookURL = url
				break
			}
		}
		return nil
	}
}

// WithTrustedSubnet returns an AnalyzerConfigOpt that sets the
// TrustedSubnet field to the first non-empty string provided in subnets.
func WithTrustedSubnet(subnets ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, subnet := range subnets {
			if strings.TrimSpace(subnet) != "" {
				cfg.TrustedSubnet = subnet
				break
			}
		}
		return nil
	}
}

// WithFileStoragePath returns an AnalyzerConfigOpt that sets the
// FileStoragePath field to the first non-empty string provided in paths.
func WithFileStoragePath(paths ...string) AnalyzerConfigOpt {
	return func(cfg *AnalyzerConfig) error {
		for _, path := range paths {
			if strings.TrimSpace(path) != "" {
				cfg.FileStoragePath = path
				break
			}
		}
		return nil
	}
}
