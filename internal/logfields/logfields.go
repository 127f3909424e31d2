package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyCycleID    = "cycle_id"
	KeyState      = "state"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyError      = "error"
)

func CycleID(id string) slog.Attr     { return slog.String(KeyCycleID, id) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
