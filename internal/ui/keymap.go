package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

var fyneKeys = map[fyne.KeyName]keys.Key{
	fyne.KeyEscape:       keys.Escape,
	fyne.KeyReturn:       keys.Return,
	fyne.KeyEnter:        keys.Return,
	fyne.KeyTab:          keys.Tab,
	fyne.KeyBackspace:    keys.BackSpace,
	fyne.KeyInsert:       keys.Insert,
	fyne.KeyDelete:       keys.Delete,
	fyne.KeyRight:        keys.Right,
	fyne.KeyLeft:         keys.Left,
	fyne.KeyDown:         keys.Down,
	fyne.KeyUp:           keys.Up,
	fyne.KeyPageUp:       keys.PageUp,
	fyne.KeyPageDown:     keys.PageDown,
	fyne.KeyHome:         keys.Home,
	fyne.KeyEnd:          keys.End,
	fyne.KeySpace:        keys.Space,
	fyne.KeyApostrophe:   keys.Apostrophe,
	fyne.KeyComma:        keys.Comma,
	fyne.KeyMinus:        keys.Minus,
	fyne.KeyPeriod:       keys.Period,
	fyne.KeySlash:        keys.Slash,
	fyne.KeyBackslash:    keys.Backslash,
	fyne.KeyLeftBracket:  keys.BracketL,
	fyne.KeyRightBracket: keys.BracketR,
	fyne.KeySemicolon:    keys.Semicolon,
	fyne.KeyEqual:        keys.Equal,
	fyne.KeyBackTick:     keys.Grave,

	desktop.KeyShiftLeft:    keys.ShiftL,
	desktop.KeyShiftRight:   keys.ShiftR,
	desktop.KeyControlLeft:  keys.ControlL,
	desktop.KeyControlRight: keys.ControlR,
	desktop.KeyAltLeft:      keys.AltL,
	desktop.KeyAltRight:     keys.AltR,
	desktop.KeySuperLeft:    keys.SuperL,
	desktop.KeySuperRight:   keys.SuperR,
	desktop.KeyMenu:         keys.Menu,
	desktop.KeyPrintScreen:  keys.Print,
	desktop.KeyCapsLock:     keys.CapsLock,
}

// keyFromFyne maps a fyne key name to its keysym, or keys.None.
func keyFromFyne(name fyne.KeyName) keys.Key {
	if k, ok := fyneKeys[name]; ok {
		return k
	}
	s := string(name)
	if len(s) == 1 {
		return keys.Letter(s[0])
	}
	// F1 .. F12
	if k, err := keys.ParseKey(s); err == nil && k >= keys.F(1) && k <= keys.F(24) {
		return k
	}
	return keys.None
}

func modifiersFromFyne(m fyne.KeyModifier) keys.Modifiers {
	var mods keys.Modifiers
	if m&fyne.KeyModifierControl != 0 {
		mods |= keys.ModCtrl
	}
	if m&fyne.KeyModifierAlt != 0 {
		mods |= keys.ModAlt
	}
	if m&fyne.KeyModifierShift != 0 {
		mods |= keys.ModShift
	}
	if m&fyne.KeyModifierSuper != 0 {
		mods |= keys.ModSuper
	}
	return mods
}
