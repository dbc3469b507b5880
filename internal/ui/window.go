package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/capture"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/hotkey"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/logging"
)

const (
	addText       = "Add Hotkey"
	listeningText = "Listening. Press ESC to cancel"
)

// Presser fakes a key chord, used by the Try button.
type Presser interface {
	Press(c keys.Chord) error
}

// Notifier shows a short message outside the window.
type Notifier interface {
	Show(text string, ok bool)
}

// Window is the demo window: an Add Hotkey button that captures the next
// chord, and the list of hotkeys registered so far.
// All methods must be called from the fyne main goroutine.
type Window struct {
	win   fyne.Window
	svc   *hotkey.Service
	synth Presser

	capture *capture.Controller

	addBtn     *widget.Button
	addedLabel *widget.Label
	firedLabel *widget.Label
	list       *widget.List

	handle   hotkey.Window
	resolved bool
	hidden   bool

	// currentMods returns the modifiers held right now.
	currentMods func() fyne.KeyModifier

	// Notifier, when set, announces fired hotkeys while the window is hidden.
	Notifier Notifier

	// OnAdded and OnRemoved are called after a hotkey is registered or
	// released from the window, so the caller can persist the list.
	OnAdded   func(keys.Chord)
	OnRemoved func(keys.Chord)
}

// NewWindow builds the window. synth may be nil, in which case the Try
// buttons are disabled.
func NewWindow(fyneApp fyne.App, svc *hotkey.Service, synth Presser) *Window {
	w := &Window{
		win:    fyneApp.NewWindow("GoTalk Hotkeys"),
		svc:    svc,
		synth:  synth,
		hidden: true,
	}
	w.currentMods = func() fyne.KeyModifier {
		if drv, ok := fyneApp.Driver().(desktop.Driver); ok {
			return drv.CurrentKeyModifiers()
		}
		return 0
	}
	w.capture = capture.New(w, w.register)

	w.addBtn = widget.NewButton(addText, w.capture.Start)
	w.addBtn.Importance = widget.HighImportance
	w.addedLabel = widget.NewLabel("")
	w.firedLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Italic: true})

	w.list = widget.NewList(
		func() int { return w.svc.Len() },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewLabel("Ctrl+Alt+Shift+Super+XXXX"),
				layout.NewSpacer(),
				widget.NewButton("Try", nil),
				widget.NewButton("Remove", nil),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			hotkeys := w.svc.Hotkeys()
			if id >= len(hotkeys) {
				return
			}
			h := hotkeys[id]
			row := obj.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(h.Name())

			try := row.Objects[2].(*widget.Button)
			try.OnTapped = func() { w.try(h.Chord()) }
			if w.synth == nil {
				try.Disable()
			} else {
				try.Enable()
			}
			row.Objects[3].(*widget.Button).OnTapped = func() { w.remove(h.Chord()) }
		},
	)

	header := container.NewVBox(
		w.addBtn,
		w.addedLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Registered hotkeys", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	w.win.SetContent(container.NewBorder(header, w.firedLabel, nil, nil, w.list))
	w.win.Resize(fyne.NewSize(420, 360))
	return w
}

// Show brings the window to the front.
func (w *Window) Show() {
	w.hidden = false
	w.win.Show()
	w.win.RequestFocus()
}

// Hide closes the window without quitting; hotkeys stay registered.
func (w *Window) Hide() {
	w.capture.Cancel()
	w.hidden = true
	w.win.Hide()
}

func (w *Window) Fyne() fyne.Window { return w.win }

// Handle returns the native window id, resolved the first time it is
// available. Zero lets registration fall back to the foreground window.
func (w *Window) Handle() hotkey.Window {
	if w.resolved {
		return w.handle
	}
	nw, ok := w.win.(driver.NativeWindow)
	if !ok {
		return 0
	}
	nw.RunNative(func(ctx any) {
		switch c := ctx.(type) {
		case driver.X11WindowContext:
			w.handle = hotkey.Window(c.WindowHandle)
		case *driver.X11WindowContext:
			w.handle = hotkey.Window(c.WindowHandle)
		}
	})
	w.resolved = w.handle != 0
	return w.handle
}

// Restore registers previously saved chords. Failures are logged and shown
// together in one dialog.
func (w *Window) Restore(chords []keys.Chord) {
	var errs []error
	for _, c := range chords {
		if _, err := w.svc.Add(c.Modifiers, c.Key, w.Handle(), w.fired); err != nil {
			logging.Warnf("restore %s: %v", c, err)
			errs = append(errs, err)
		}
	}
	w.list.Refresh()
	if len(errs) > 0 {
		dialog.ShowError(errors.Join(errs...), w.win)
	}
}

// Sync makes the registered set match chords, as after the config file was
// edited by hand. OnAdded and OnRemoved are not called. Failures are logged
// and, while the window is hidden, announced through the Notifier.
func (w *Window) Sync(chords []keys.Chord) {
	want := make(map[keys.Chord]bool, len(chords))
	for _, c := range chords {
		want[c] = true
	}
	for _, h := range w.svc.Hotkeys() {
		if want[h.Chord()] {
			continue
		}
		if err := w.svc.Remove(h.Modifiers(), h.Key()); err != nil {
			logging.Warnf("sync: release %s: %v", h, err)
			w.notifyFailure(h.Name())
		}
	}
	for _, c := range chords {
		if w.svc.Find(c.Modifiers, c.Key) != nil {
			continue
		}
		if _, err := w.svc.Add(c.Modifiers, c.Key, w.Handle(), w.fired); err != nil {
			logging.Warnf("sync: register %s: %v", c, err)
			w.notifyFailure(c.String())
		}
	}
	w.list.Refresh()
}

func (w *Window) register(c keys.Chord) (string, error) {
	h, err := w.svc.Add(c.Modifiers, c.Key, w.Handle(), w.fired)
	if err != nil {
		return "", err
	}
	if w.OnAdded != nil {
		w.OnAdded(c)
	}
	return h.Name(), nil
}

func (w *Window) fired(h *hotkey.Hotkey) {
	msg := fmt.Sprintf("%s was pressed!", h.Name())
	w.firedLabel.SetText(msg)
	if w.hidden && w.Notifier != nil {
		w.Notifier.Show(h.Name(), true)
		return
	}
	dialog.ShowInformation("Hotkey", msg, w.win)
}

func (w *Window) remove(c keys.Chord) {
	err := w.svc.Remove(c.Modifiers, c.Key)
	w.list.Refresh()
	if err != nil {
		// A chord the backend still holds stays listed and saved.
		logging.Warnf("remove %s: %v", c, err)
		dialog.ShowError(err, w.win)
		return
	}
	if w.OnRemoved != nil {
		w.OnRemoved(c)
	}
}

func (w *Window) try(c keys.Chord) {
	if w.synth == nil {
		return
	}
	go func() {
		if err := w.synth.Press(c); err != nil {
			fyne.Do(func() { w.tryFailed(c, err) })
		}
	}()
}

func (w *Window) tryFailed(c keys.Chord, err error) {
	logging.Warnf("try %s: %v", c, err)
	if w.notifyFailure(c.String()) {
		return
	}
	dialog.ShowError(err, w.win)
}

// notifyFailure announces a failed chord through the Notifier while the
// window is hidden. It reports whether it did.
func (w *Window) notifyFailure(name string) bool {
	if !w.hidden || w.Notifier == nil {
		return false
	}
	w.Notifier.Show(name, false)
	return true
}

// BeginIntercept implements capture.View.
func (w *Window) BeginIntercept() {
	w.addBtn.SetText(listeningText)
	w.addBtn.Disable()
	if dc, ok := w.win.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(w.keyDown)
		dc.SetOnKeyUp(w.keyUp)
	}
}

// EndIntercept implements capture.View.
func (w *Window) EndIntercept() {
	if dc, ok := w.win.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(nil)
		dc.SetOnKeyUp(nil)
	}
	w.addBtn.SetText(addText)
	w.addBtn.Enable()
}

// Added implements capture.View.
func (w *Window) Added(name string) {
	w.addedLabel.SetText("Added: " + name)
	w.list.Refresh()
}

// Failed implements capture.View.
func (w *Window) Failed(err error) {
	logging.Warnf("capture: %v", err)
	dialog.ShowError(err, w.win)
}

func (w *Window) keyDown(ev *fyne.KeyEvent) {
	w.capture.KeyDown(keyFromFyne(ev.Name), modifiersFromFyne(w.currentMods()))
}

func (w *Window) keyUp(ev *fyne.KeyEvent) {
	w.capture.KeyUp(keyFromFyne(ev.Name), modifiersFromFyne(w.currentMods()))
}
