package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens url in a new browser tab.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// SystemOpener hands the URL to the platform's default URL handler.
type SystemOpener struct {
	goos  string
	start func(name string, args ...string) error
}

func NewSystemOpener() *SystemOpener {
	return &SystemOpener{goos: runtime.GOOS, start: startDetached}
}

// Command returns the program and arguments used to open url on goos.
func Command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func (o *SystemOpener) Open(_ context.Context, url string) error {
	name, args := Command(o.goos, url)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("open %s with %s: %w", url, name, err)
	}
	return nil
}

// startDetached starts the command without waiting for the browser to exit.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
