// Package xdg resolves where algobench reads its plan from and writes its
// charts to, following the XDG base directory layout.
package xdg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const AppName = "algobench"

// Dirs holds the base directories relevant to algobench.
type Dirs struct {
	dataHome   string
	configHome string
}

// New resolves the base directories from the environment.
func New() *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	d := &Dirs{}

	// XDG_DATA_HOME: user-specific data files
	d.dataHome = os.Getenv("XDG_DATA_HOME")
	if d.dataHome == "" {
		d.dataHome = filepath.Join(homeDir, ".local", "share")
	}

	// XDG_CONFIG_HOME: user-specific configuration files
	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	return d
}

// OutputDir is where charts go unless --out says otherwise.
func (d *Dirs) OutputDir() string {
	return filepath.Join(d.dataHome, AppName)
}

// PlanFile is the plan loaded when --config is not given.
func (d *Dirs) PlanFile() string {
	return filepath.Join(d.configHome, AppName, "plan.toml")
}

// HasPlanFile reports whether PlanFile exists.
func (d *Dirs) HasPlanFile() (bool, error) {
	_, err := os.Stat(d.PlanFile())
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// EnsureDir creates the directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
