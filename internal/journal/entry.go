package journal

import (
	"encoding/json"
	"time"
)

// EventType names a journal entry.
type EventType string

const (
	CycleStarted        EventType = "cycle_started"
	CycleReported       EventType = "cycle_reported"
	CycleFailed         EventType = "cycle_failed"
	CycleFinalized      EventType = "cycle_finalized"
	CycleFinalizeFailed EventType = "cycle_finalize_failed"
)

// Entry is one stored event.
type Entry struct {
	ID        int64
	CycleID   string
	Type      EventType
	Timestamp time.Time
	Payload   json.RawMessage
	Metadata  map[string]string
}

// ReportedPayload is the payload of a cycle_reported entry.
type ReportedPayload struct {
	Status            string   `json:"status"`
	Errors            []string `json:"errors,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
	CompileDurationMS int64    `json:"compile_duration_ms"`
}

// FailedPayload is the payload of cycle_failed and cycle_finalize_failed entries.
type FailedPayload struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// FinalizedPayload is the payload of a cycle_finalized entry.
type FinalizedPayload struct {
	StaticDir     string   `json:"static_dir"`
	Template      string   `json:"template"`
	Favicon       string   `json:"favicon,omitempty"`
	MissingAssets []string `json:"missing_assets,omitempty"`
	DurationMS    int64    `json:"duration_ms"`
	Reload        bool     `json:"reload"`
}
