package main

import (
	"fyne.io/fyne/v2"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/config"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/logging"
)

// restoreHotkeys registers the chords saved in the config.
// Runs on the fyne main goroutine once the app has started.
func (a *app) restoreHotkeys() {
	a.cfgMu.Lock()
	chords := a.cfg.Chords()
	a.cfgMu.Unlock()

	a.win.Restore(chords)
}

func (a *app) hotkeyAdded(c keys.Chord) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.cfg.AddHotkey(c)
	if err := a.cfg.Save(); err != nil {
		logging.Warnf("config: save after adding %s: %v", c, err)
	}
}

func (a *app) hotkeyRemoved(c keys.Chord) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	if !a.cfg.RemoveHotkey(c) {
		return
	}
	if err := a.cfg.Save(); err != nil {
		logging.Warnf("config: save after removing %s: %v", c, err)
	}
}

// configChanged applies a config.json edited outside the app. Our own saves
// come back here too; Sync finds nothing to do for them.
func (a *app) configChanged(cfg *config.Config) {
	a.cfgMu.Lock()
	a.cfg.Hotkeys = cfg.Hotkeys
	a.cfg.StartHidden = cfg.StartHidden
	a.cfg.Notifications = cfg.Notifications
	chords := a.cfg.Chords()
	a.cfgMu.Unlock()

	logging.Infof("config: reloaded, %d hotkeys", len(chords))
	fyne.Do(func() {
		if n, ok := a.win.Notifier.(interface{ SetEnabled(bool) }); ok {
			n.SetEnabled(cfg.Notifications)
		}
		a.win.Sync(chords)
	})
}
