package schema

import "time"

// StoreStatus represents the status of the persistence store.
type StoreStatus struct {
	Backend          string           `json:"backend"`
	Target           string           `json:"target"`
	Connected        bool             `json:"connected"`
	SchemaVersion    uint             `json:"schema_version"`
	Dirty            bool             `json:"dirty"`
	TotalFileSources int64            `json:"total_file_sources"`
	LastUpdateTime   time.Time        `json:"last_update_time"`
	TotalBinaryBytes int64            `json:"total_binary_bytes"`
	TableSizes       map[string]int64 `json:"table_sizes"`
}

// StepResult summarizes one executed computation step.
type StepResult struct {
	Description string         `json:"description"`
	Duration    time.Duration  `json:"duration"`
	Counts      map[string]int `json:"counts,omitempty"`
}

// RunSummary describes one analysis run.
type RunSummary struct {
	ProjectKey  string        `json:"project_key"`
	ReportDir   string        `json:"report_dir"`
	Backend     string        `json:"backend"`
	QualityGate string        `json:"quality_gate,omitempty"`
	Measures    int           `json:"measures"`
	Steps       []StepResult  `json:"steps"`
	Duration    time.Duration `json:"duration"`
}

// ExportSummary describes the files written by a source export.
type ExportSummary struct {
	ProjectUUID     string `json:"project_uuid"`
	FileSourcesPath string `json:"file_sources_path"`
	FileLinesPath   string `json:"file_lines_path"`
	Files           int    `json:"files"`
	Lines           int    `json:"lines"`
}
