package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

const initHeader = `# sitewatch configuration.
# Relative paths resolve against project_dir, which resolves against this file.
# ${VAR} references are expanded; .env and .env.local next to this file are loaded first.
`

// Init writes the default configuration to path. An existing file is kept
// unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("failed to check config file").WithCause(err).Build()
	}

	var buf bytes.Buffer
	buf.WriteString(initHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	example := Default()
	if err := enc.Encode(&example); err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}
	if err := enc.Close(); err != nil {
		return ferrors.InternalError("failed to marshal config").WithCause(err).Build()
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
