package ui

import (
	"fyne.io/fyne/v2"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/hotkey"
)

// Dispatcher delivers hotkey callbacks on the fyne main goroutine and waits
// for them to finish.
var Dispatcher hotkey.Dispatcher = hotkey.DispatcherFunc(fyne.DoAndWait)
