package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
)

const AppID = "com.alijeyrad.GoTalkHotkeys"

// NewApp creates the fyne application.
func NewApp() fyne.App {
	return app.NewWithID(AppID)
}

// Tray owns the application lifetime: a system tray menu when the desktop
// has one, and the demo window.
type Tray struct {
	fyneApp fyne.App
	win     *Window
}

// Run blocks until Quit. onStarted runs on the main goroutine once the app
// is up; onQuit runs before the app exits.
func (t *Tray) Run(fyneApp fyne.App, win *Window, startHidden bool, onStarted func(), onQuit func()) {
	t.fyneApp = fyneApp
	t.win = win

	quit := func() {
		if onQuit != nil {
			onQuit()
		}
		fyneApp.Quit()
	}

	desk, hasTray := fyneApp.(desktop.App)
	if hasTray {
		menu := fyne.NewMenu("GoTalk Hotkeys",
			fyne.NewMenuItem("Show", win.Show),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Quit", quit),
		)
		desk.SetSystemTrayMenu(menu)
		desk.SetSystemTrayIcon(theme.ComputerIcon())
		// Closing the window only hides it; the hotkeys stay active.
		win.Fyne().SetCloseIntercept(win.Hide)
	} else {
		win.Fyne().SetCloseIntercept(quit)
	}

	fyneApp.Lifecycle().SetOnStarted(func() {
		if onStarted != nil {
			onStarted()
		}
	})

	if !startHidden || !hasTray {
		win.hidden = false
		win.Fyne().Show()
	}
	fyneApp.Run()
}
