package app

import "errors"

// Config holds everything an App instance needs to run one simulation.
type Config struct {
	PlanPath   string // .hcl/.yaml file or a directory of them
	PlanFormat string // "hcl", "yaml" or "auto" (by extension)

	LogFormat string
	LogLevel  string

	OutputFormat  string // "csv" or "json"
	SampleCadence string // "daily", "monthly" or "yearly"
	OutPath       string // report destination; empty means stdout
	ChunkDays     int    // cancellation poll interval, 0 = default
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PlanPath == "" {
		return nil, errors.New("PlanPath is a required configuration field and cannot be empty")
	}
	if cfg.PlanFormat == "" {
		cfg.PlanFormat = "auto"
	}
	return &cfg, nil
}
