package browser

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// Strategy selects which AppleScript is run against an existing tab.
type Strategy string

const (
	// StrategyOpen focuses or creates a tab showing the URL.
	StrategyOpen Strategy = "openChrome"
	// StrategyReload reloads a tab already showing the URL.
	StrategyReload Strategy = "reloadChrome"
)

// StrategyFor maps the reload flag to a strategy.
func StrategyFor(reload bool) Strategy {
	if reload {
		return StrategyReload
	}
	return StrategyOpen
}

// Outcome classifies a reuse attempt.
type Outcome int

const (
	// Success means an existing tab now shows the URL.
	Success Outcome = iota
	// Unavailable means reuse cannot be attempted on this system.
	Unavailable
	// Failed means reuse was attempted and did not work.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Unavailable:
		return "unavailable"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ReuseResult is the outcome of a reuse attempt and, when not Success, why.
type ReuseResult struct {
	Outcome Outcome
	Reason  error
}

// TabReuser tries to point an already open browser tab at url.
type TabReuser interface {
	Reuse(ctx context.Context, url string, strategy Strategy) ReuseResult
}

// ErrChromeNotRunning is the reason reported when no Chrome process exists.
var ErrChromeNotRunning = errors.New("google chrome is not running")

//go:embed scripts/*.applescript
var scripts embed.FS

// Script returns the AppleScript source for a strategy.
func Script(strategy Strategy) ([]byte, error) {
	return scripts.ReadFile("scripts/" + string(strategy) + ".applescript")
}

// CommandRunner runs name with args, feeding stdin when it is non-nil, and
// returns the combined output.
type CommandRunner func(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	return cmd.CombinedOutput()
}

// AppleScriptReuser reuses Google Chrome tabs on macOS.
type AppleScriptReuser struct {
	goos string
	run  CommandRunner
}

// NewAppleScriptReuser returns a reuser for the running platform.
func NewAppleScriptReuser() *AppleScriptReuser {
	return &AppleScriptReuser{goos: runtime.GOOS, run: execRunner}
}

func (r *AppleScriptReuser) Reuse(ctx context.Context, url string, strategy Strategy) ReuseResult {
	if r.goos != "darwin" {
		return ReuseResult{Outcome: Unavailable, Reason: fmt.Errorf("tab reuse is not supported on %s", r.goos)}
	}

	ps, err := r.run(ctx, nil, "ps", "cax")
	if err != nil {
		return ReuseResult{Outcome: Unavailable, Reason: fmt.Errorf("list processes: %w", err)}
	}
	if !bytes.Contains(ps, []byte("Google Chrome")) {
		return ReuseResult{Outcome: Unavailable, Reason: ErrChromeNotRunning}
	}

	script, err := Script(strategy)
	if err != nil {
		return ReuseResult{Outcome: Failed, Reason: err}
	}
	// "-" makes osascript read the program from stdin; url becomes argv.
	if out, err := r.run(ctx, bytes.NewReader(script), "osascript", "-", url); err != nil {
		return ReuseResult{Outcome: Failed, Reason: fmt.Errorf("osascript %s: %w: %s", strategy, err, bytes.TrimSpace(out))}
	}
	return ReuseResult{Outcome: Success}
}
