package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

func TestMain(m *testing.M) {
	// Tests point HOME at a temp dir; a caller's XDG_CONFIG_HOME would win.
	os.Unsetenv("XDG_CONFIG_HOME")
	os.Exit(m.Run())
}

func writeConfig(t *testing.T, tmp, body string) {
	t.Helper()
	cfgDir := filepath.Join(tmp, ".config", "gotalk-hotkeys")
	os.MkdirAll(cfgDir, 0755)
	os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(body), 0644)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Hotkeys == nil || len(cfg.Hotkeys) != 0 {
		t.Errorf("Hotkeys = %v, want empty non-nil slice", cfg.Hotkeys)
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir = %q, want empty", cfg.LogDir)
	}
	if cfg.StartHidden {
		t.Error("StartHidden should be false by default")
	}
	if !cfg.Notifications {
		t.Error("Notifications should be true by default")
	}
}

func TestLoadKeepsNotificationsDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	writeConfig(t, tmp, `{"hotkeys": ["F1"]}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Notifications {
		t.Error("missing notifications key should keep the default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error for non-existent file: %v", err)
	}
	if len(cfg.Hotkeys) != 0 || cfg.LogDir != "" {
		t.Error("Load() with missing file should return defaults")
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	writeConfig(t, tmp, `{"hotkeys": `)

	_, err := Load()
	if err == nil {
		t.Error("Load() should return error for malformed JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := Default()
	cfg.AddHotkey(keys.Chord{Modifiers: keys.ModCtrl | keys.ModAlt, Key: keys.Letter('k')})
	cfg.AddHotkey(keys.Chord{Key: keys.ControlL})
	cfg.LogDir = "/tmp/logs"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Hotkeys) != 2 || loaded.Hotkeys[0] != "Ctrl+Alt+K" || loaded.Hotkeys[1] != "LeftCtrl" {
		t.Errorf("Hotkeys = %v, want [Ctrl+Alt+K LeftCtrl]", loaded.Hotkeys)
	}
	if loaded.LogDir != "/tmp/logs" {
		t.Errorf("LogDir = %q, want %q", loaded.LogDir, "/tmp/logs")
	}
}

func TestSaveCreatesDir(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := Default()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(path()); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestSaveFilePermissions(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := Default()
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(path())
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("file permissions = %04o, want 0644", info.Mode().Perm())
	}
}

func TestLoadNormalisesHotkeys(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{
			name: "dash separated lower case",
			json: `{"hotkeys":["alt-d"]}`,
			want: []string{"Alt+D"},
		},
		{
			name: "invalid entries dropped",
			json: `{"hotkeys":["Ctrl+Alt","Hyper+x","Ctrl+J"]}`,
			want: []string{"Ctrl+J"},
		},
		{
			name: "duplicates collapsed",
			json: `{"hotkeys":["ctrl+j","Ctrl-J","Ctrl+J"]}`,
			want: []string{"Ctrl+J"},
		},
		{
			name: "null list",
			json: `{"hotkeys":null}`,
			want: []string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmp := t.TempDir()
			t.Setenv("HOME", tmp)
			writeConfig(t, tmp, tc.json)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(cfg.Hotkeys) != len(tc.want) {
				t.Fatalf("Hotkeys = %v, want %v", cfg.Hotkeys, tc.want)
			}
			for i := range tc.want {
				if cfg.Hotkeys[i] != tc.want[i] {
					t.Errorf("Hotkeys[%d] = %q, want %q", i, cfg.Hotkeys[i], tc.want[i])
				}
			}
		})
	}
}

func TestLoadPartialJSON(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	// Only set log_dir; other fields should remain at defaults.
	writeConfig(t, tmp, `{"log_dir":"/var/tmp/hk"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogDir != "/var/tmp/hk" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/var/tmp/hk")
	}
	if len(cfg.Hotkeys) != 0 {
		t.Errorf("Hotkeys = %v, want default empty", cfg.Hotkeys)
	}
}

func TestAddRemoveHotkey(t *testing.T) {
	cfg := Default()
	j := keys.Chord{Modifiers: keys.ModCtrl, Key: keys.Letter('j')}
	f5 := keys.Chord{Key: keys.F(5)}

	cfg.AddHotkey(j)
	cfg.AddHotkey(f5)
	cfg.AddHotkey(j)
	if len(cfg.Hotkeys) != 2 {
		t.Fatalf("Hotkeys = %v, want 2 entries", cfg.Hotkeys)
	}

	chords := cfg.Chords()
	if len(chords) != 2 || chords[0] != j || chords[1] != f5 {
		t.Errorf("Chords() = %v, want [%s %s]", chords, j, f5)
	}

	if !cfg.RemoveHotkey(j) {
		t.Error("RemoveHotkey returned false for a saved chord")
	}
	if cfg.RemoveHotkey(j) {
		t.Error("RemoveHotkey returned true for a missing chord")
	}
	if len(cfg.Hotkeys) != 1 || cfg.Hotkeys[0] != "F5" {
		t.Errorf("Hotkeys = %v, want [F5]", cfg.Hotkeys)
	}
}

func TestSaveProducesValidJSON(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := Default()
	cfg.AddHotkey(keys.Chord{Modifiers: keys.ModSuper, Key: keys.Space})
	cfg.StartHidden = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path())
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var decoded Config
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(decoded.Hotkeys) != 1 || decoded.Hotkeys[0] != "Super+Space" {
		t.Errorf("Hotkeys = %v, want [Super+Space]", decoded.Hotkeys)
	}
	if !decoded.StartHidden {
		t.Error("StartHidden not saved")
	}
}

func TestXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if want := filepath.Join(xdg, "gotalk-hotkeys", "config.json"); path() != want {
		t.Fatalf("path() = %q, want %q", path(), want)
	}
	cfg := Default()
	cfg.AddHotkey(keys.Chord{Key: keys.F(9)})
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded.Hotkeys) != 1 || loaded.Hotkeys[0] != "F9" {
		t.Errorf("Hotkeys = %v, want [F9]", loaded.Hotkeys)
	}
}
