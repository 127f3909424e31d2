package finalize

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"
)

// Manifest is the bundler's per-cycle list of emitted assets.
type Manifest struct {
	Assets []Asset `json:"assets"`
}

// Asset is one emitted file, named relative to the build directory.
type Asset struct {
	Name string `json:"name"`
}

// ReadManifest reads and decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// FindFavicon returns the first asset that is the favicon: its name ends
// with favicon, or its base name is favicon with a content hash inserted
// before the extension ("favicon.abc123.ico").
func (m *Manifest) FindFavicon(favicon string) (Asset, bool) {
	ext := path.Ext(favicon)
	stem := strings.TrimSuffix(favicon, ext)
	for _, a := range m.Assets {
		if strings.HasSuffix(a.Name, favicon) {
			return a, true
		}
		base := path.Base(a.Name)
		if ext != "" && strings.HasPrefix(base, stem+".") && strings.HasSuffix(base, ext) {
			return a, true
		}
	}
	return Asset{}, false
}
