// Package hotkey registers system-wide hotkeys bound to a window and delivers
// their notifications to callbacks on the UI goroutine.
package hotkey

import "github.com/Alijeyrad/gotalk-hotkeys/internal/keys"

// MsgHotkey is the message code a backend uses for "a registered hotkey fired".
const MsgHotkey uint32 = 0x0312

// Window is a native window handle. Zero means "the foreground window".
type Window uintptr

// ID is the correlation token exchanged with the backend.
type ID uint32

// Message is one entry of the backend's raw event stream.
type Message struct {
	Code   uint32
	Window Window
	ID     ID
}

// Backend is the OS side of a registration. Implementations report a combination
// already held (by this or any other process) with ErrAlreadyRegistered and an
// unusable one with ErrInvalidHotkey.
type Backend interface {
	Register(w Window, id ID, mods keys.Modifiers, key keys.Key) error
	Unregister(w Window, id ID) error
	// Foreground returns the window currently holding input focus.
	Foreground() Window
}
