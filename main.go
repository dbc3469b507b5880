package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/config"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/hotkey"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/logging"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/notify"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/ui"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/x11"
)

type app struct {
	cfgMu sync.Mutex
	cfg   *config.Config

	backend *x11.Backend
	synth   *x11.Synth
	flash   *x11.Flash
	svc     *hotkey.Service
	win     *ui.Window

	stopWatch context.CancelFunc
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	if dir, err := logging.ResolveDir(cfg.LogDir); err == nil {
		if err := logging.Init(dir); err != nil {
			fmt.Fprintf(os.Stderr, "gotalk-hotkeys: log: %v\n", err)
		}
	}
	defer logging.Close()

	backend, err := x11.Connect()
	if err != nil {
		logging.Errorf("startup: %v", err)
		fmt.Fprintf(os.Stderr, "gotalk-hotkeys: %v\n", err)
		os.Exit(1)
	}

	a := &app{cfg: cfg, backend: backend}
	reg := hotkey.NewRegistry(backend, ui.Dispatcher)
	a.svc = hotkey.NewService(reg)
	go func() {
		if err := backend.Run(reg.Filter); err != nil {
			logging.Errorf("x11 event loop: %v", err)
		}
	}()

	// Without XTEST the window still works; only the Try buttons are disabled.
	var presser ui.Presser
	if synth, err := x11.NewSynth(); err == nil {
		a.synth = synth
		presser = synth
	} else {
		logging.Warnf("startup: %v", err)
	}

	fyneApp := ui.NewApp()
	a.win = ui.NewWindow(fyneApp, a.svc, presser)
	a.win.OnAdded = a.hotkeyAdded
	a.win.OnRemoved = a.hotkeyRemoved
	if flash, err := x11.NewFlash(); err == nil {
		a.flash = flash
		a.win.Notifier = flash
	} else {
		logging.Warnf("startup: %v, using desktop notifications", err)
		a.win.Notifier = notify.New(cfg.Notifications)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	go func() {
		if err := config.Watch(ctx, a.configChanged, func(err error) {
			logging.Warnf("config: reload: %v", err)
		}); err != nil {
			logging.Warnf("config: %v", err)
		}
	}()

	logging.Infof("startup: %d saved hotkeys, logging to %s", len(cfg.Hotkeys), logging.Dir())
	tray := &ui.Tray{}
	tray.Run(fyneApp, a.win, cfg.StartHidden, a.restoreHotkeys, a.shutdown)
}

func (a *app) shutdown() {
	a.stopWatch()
	if err := a.svc.Close(); err != nil {
		logging.Warnf("shutdown: %v", err)
	}
	if a.synth != nil {
		a.synth.Close()
	}
	if a.flash != nil {
		a.flash.Close()
	}
	a.backend.Close()
	logging.Info("shutdown complete")
}
