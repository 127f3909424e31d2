package bundler

import (
	"bytes"
	"encoding/json"
	"strings"

	"git.home.luguber.info/inful/sitewatch/internal/build"
)

// statsDoc is the subset of the bundler's JSON stats the driver reads.
type statsDoc struct {
	Errors   []json.RawMessage `json:"errors"`
	Warnings []json.RawMessage `json:"warnings"`
}

// statsMessage is the object form of a diagnostic used by newer bundlers.
type statsMessage struct {
	ModuleName string `json:"moduleName"`
	Message    string `json:"message"`
	Details    string `json:"details"`
}

// ParseStats extracts diagnostics from JSON stats printed on stdout. Entries
// may be plain strings or objects with a message field. Output before the
// first '{' is skipped. ok is false when no stats object can be decoded.
func ParseStats(stdout []byte) (result build.CompilationResult, ok bool) {
	start := bytes.IndexByte(stdout, '{')
	if start < 0 {
		return build.CompilationResult{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(stdout[start:])).Decode(&raw); err != nil {
		return build.CompilationResult{}, false
	}
	_, hasErrors := raw["errors"]
	_, hasWarnings := raw["warnings"]
	if !hasErrors && !hasWarnings {
		return build.CompilationResult{}, false
	}

	var doc statsDoc
	if hasErrors {
		if err := json.Unmarshal(raw["errors"], &doc.Errors); err != nil {
			return build.CompilationResult{}, false
		}
	}
	if hasWarnings {
		if err := json.Unmarshal(raw["warnings"], &doc.Warnings); err != nil {
			return build.CompilationResult{}, false
		}
	}
	return build.NewCompilationResult(messages(doc.Errors), messages(doc.Warnings)), true
}

func messages(entries []json.RawMessage) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if m, ok := message(e); ok {
			out = append(out, m)
		}
	}
	return out
}

func message(entry json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		return s, true
	}
	var m statsMessage
	if err := json.Unmarshal(entry, &m); err != nil || m.Message == "" {
		return "", false
	}
	msg := m.Message
	// Older bundlers put the module name on the first line of the message; keep that shape.
	if m.ModuleName != "" && !strings.HasPrefix(msg, m.ModuleName) {
		msg = m.ModuleName + "\n" + msg
	}
	if m.Details != "" {
		msg += "\n" + m.Details
	}
	return msg, true
}
