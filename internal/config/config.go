package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

type Config struct {
	// Hotkeys are the chords registered at startup, e.g. "Ctrl+Alt+K".
	// Entries that do not parse are dropped on load.
	Hotkeys []string `json:"hotkeys"`

	// LogDir overrides where diagnostics_log.txt is written.
	// Leave blank for ~/.config/gotalk-hotkeys/logs.
	LogDir string `json:"log_dir,omitempty"`

	// StartHidden keeps the window closed at startup; it can be opened from
	// the tray menu.
	StartHidden bool `json:"start_hidden"`

	// Notifications sends a desktop notification for hotkeys that fire while
	// the window is hidden, when the on-screen flash is unavailable.
	Notifications bool `json:"notifications"`
}

func Default() *Config {
	return &Config{
		Hotkeys:       []string{},
		Notifications: true,
	}
}

// dir honours XDG_CONFIG_HOME, the same way the log directory does.
func dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "gotalk-hotkeys")
}

func path() string {
	return filepath.Join(dir(), "config.json")
}

func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	// Normalise saved chords and drop the ones that no longer parse.
	valid := make([]string, 0, len(cfg.Hotkeys))
	for _, h := range cfg.Hotkeys {
		c, err := keys.ParseChord(h)
		if err != nil {
			continue
		}
		valid = appendUnique(valid, c.String())
	}
	cfg.Hotkeys = valid
	return cfg, nil
}

func (c *Config) Save() error {
	if err := os.MkdirAll(dir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path(), data, 0644)
}

// Chords returns the saved hotkeys parsed.
func (c *Config) Chords() []keys.Chord {
	out := make([]keys.Chord, 0, len(c.Hotkeys))
	for _, h := range c.Hotkeys {
		if chord, err := keys.ParseChord(h); err == nil {
			out = append(out, chord)
		}
	}
	return out
}

// AddHotkey records chord unless it is already saved.
func (c *Config) AddHotkey(chord keys.Chord) {
	c.Hotkeys = appendUnique(c.Hotkeys, chord.String())
}

// RemoveHotkey forgets chord. It reports whether it was saved.
func (c *Config) RemoveHotkey(chord keys.Chord) bool {
	name := chord.String()
	for i, h := range c.Hotkeys {
		if h == name {
			c.Hotkeys = append(c.Hotkeys[:i], c.Hotkeys[i+1:]...)
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
