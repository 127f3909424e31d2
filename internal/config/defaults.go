package config

import (
	"time"

	"git.home.luguber.info/inful/sitewatch/internal/finalize"
	"git.home.luguber.info/inful/sitewatch/internal/notify"
)

// Default returns the configuration used for every key the file leaves out.
func Default() Config {
	return Config{
		ProjectDir:    ".",
		CleanBuildDir: true,
		Bundler: BundlerConfig{
			Command:          []string{"npx", "webpack", "--json"},
			Watch:            []string{"src"},
			Ignore:           []string{},
			AggregateTimeout: 300 * time.Millisecond,
		},
		Paths: PathsConfig{
			BuildDir:  "build",
			StaticDir: "../static",
			Manifest:  finalize.DefaultManifest,
			Index:     finalize.DefaultIndex,
			Favicon:   finalize.DefaultFavicon,
		},
		Mirror: MirrorConfig{Mode: string(finalize.MirrorAuto)},
		Browser: BrowserConfig{
			Enabled: true,
			URL:     "http://localhost:8080/",
			Delay:   2 * time.Second,
		},
		Journal: JournalConfig{
			Path:      ".sitewatch/journal.db",
			Retention: 7 * 24 * time.Hour,
		},
		Notify: NotifyConfig{Subject: notify.DefaultSubject},
	}
}
