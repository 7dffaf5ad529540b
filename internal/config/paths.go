package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".pocketchat"

// Paths holds resolved filesystem paths for pocketchat data.
type Paths struct {
	Base   string // ~/.pocketchat
	Config string // ~/.pocketchat/config.yaml
	DB     string // ~/.pocketchat/pocketchat.db
}

// ResolvePaths computes all standard paths from the home directory.
// If POCKETCHAT_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("POCKETCHAT_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		DB:     filepath.Join(base, "pocketchat.db"),
	}, nil
}

// EnsureDirs creates the base directory if it doesn't exist.
func (p Paths) EnsureDirs() error {
	return os.MkdirAll(p.Base, 0o700)
}
