// Package prefs persists user preferences as YAML next to the binary.
package prefs

import (
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is used until the user points the client elsewhere.
const DefaultServerURL = "https://app.mathevilla.de"

// Settings stores durable user preferences. Music is only audible while
// sound effects are enabled; the flag is kept independently so re-enabling
// sound restores the previous music choice.
type Settings struct {
	SoundEnabled bool   `yaml:"sound_enabled"`
	MusicEnabled bool   `yaml:"music_enabled"`
	ServerURL    string `yaml:"server_url"`
	LogLevel     string `yaml:"log_level,omitempty"`
}

// Default returns the settings used when no file exists: sound on, music off.
func Default() *Settings {
	return &Settings{
		SoundEnabled: true,
		MusicEnabled: false,
		ServerURL:    DefaultServerURL,
	}
}

// Store reads and writes a settings file.
type Store struct {
	path string
}

// NewStore creates a store using prefs.yaml next to the executable.
func NewStore() *Store {
	exe, err := os.Executable()
	if err != nil {
		return &Store{path: "prefs.yaml"}
	}
	return &Store{path: filepath.Join(filepath.Dir(exe), "prefs.yaml")}
}

// NewStoreAt creates a store using an explicit path (tests).
func NewStoreAt(path string) *Store {
	return &Store{path: path}
}

// Load reads settings from disk or returns defaults on any failure.
func (s *Store) Load() *Settings {
	out := Default()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return out
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		slog.Error("parse prefs", "path", s.path, "err", err)
		return Default()
	}
	if out.ServerURL == "" {
		out.ServerURL = DefaultServerURL
	}
	return out
}

// Save writes settings to disk.
func (s *Store) Save(settings *Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
