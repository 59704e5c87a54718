package models

import "time"

// RunRecord is one dispatch as kept in the history table.
type RunRecord struct {
	RunID        int64     `json:"run_id" yaml:"run_id"`
	Kind         TaskKind  `json:"kind" yaml:"kind"`
	URLID        int64     `json:"url_id,omitempty" yaml:"url_id,omitempty"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
	Success      bool      `json:"success" yaml:"success"`
	ErrorType    string    `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	DurationMS   int64     `json:"duration_ms" yaml:"duration_ms"`
	SnapshotHash string    `json:"snapshot_hash,omitempty" yaml:"snapshot_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}
