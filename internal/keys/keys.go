// Package keys names the keys and modifier combinations a global hotkey can be
// bound to. Keys are X11 keysyms; see /usr/include/X11/keysymdef.h.
package keys

import (
	"fmt"
	"strings"
)

// Key is an X11 keysym.
type Key uint32

// None is the "no key" sentinel. A hotkey bound to None is never registered.
const None Key = 0

// Named keysyms.
const (
	Space      Key = 0x0020
	Apostrophe Key = 0x0027
	Comma      Key = 0x002c
	Minus      Key = 0x002d
	Period     Key = 0x002e
	Slash      Key = 0x002f
	Semicolon  Key = 0x003b
	Equal      Key = 0x003d
	BracketL   Key = 0x005b
	Backslash  Key = 0x005c
	BracketR   Key = 0x005d
	Grave      Key = 0x0060

	BackSpace Key = 0xff08
	Tab       Key = 0xff09
	Return    Key = 0xff0d
	Pause     Key = 0xff13
	Escape    Key = 0xff1b
	Home      Key = 0xff50
	Left      Key = 0xff51
	Up        Key = 0xff52
	Right     Key = 0xff53
	Down      Key = 0xff54
	PageUp    Key = 0xff55
	PageDown  Key = 0xff56
	End       Key = 0xff57
	Print     Key = 0xff61
	Insert    Key = 0xff63
	Menu      Key = 0xff67
	Delete    Key = 0xffff

	F1 Key = 0xffbe // F2..F24 follow consecutively

	ShiftL   Key = 0xffe1
	ShiftR   Key = 0xffe2
	ControlL Key = 0xffe3
	ControlR Key = 0xffe4
	CapsLock Key = 0xffe5
	MetaL    Key = 0xffe7
	MetaR    Key = 0xffe8
	AltL     Key = 0xffe9
	AltR     Key = 0xffea
	SuperL   Key = 0xffeb
	SuperR   Key = 0xffec
)

// F returns the keysym for function key Fn, n in [1, 24].
func F(n int) Key {
	if n < 1 || n > 24 {
		return None
	}
	return F1 + Key(n-1)
}

// Letter returns the keysym for an ASCII letter or digit. Letters map to their
// lowercase keysym, which is what the keyboard mapping lists first.
func Letter(ch byte) Key {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
		return Key(ch)
	case ch >= 'A' && ch <= 'Z':
		return Key(ch - 'A' + 'a')
	}
	return None
}

var namedKeys = map[string]Key{
	"space":      Space,
	"apostrophe": Apostrophe,
	"comma":      Comma,
	"minus":      Minus,
	"period":     Period,
	"slash":      Slash,
	"semicolon":  Semicolon,
	"equal":      Equal,
	"[":          BracketL,
	"\\":         Backslash,
	"]":          BracketR,
	"`":          Grave,
	"grave":      Grave,
	"backspace":  BackSpace,
	"tab":        Tab,
	"return":     Return,
	"enter":      Return,
	"pause":      Pause,
	"escape":     Escape,
	"esc":        Escape,
	"home":       Home,
	"left":       Left,
	"up":         Up,
	"right":      Right,
	"down":       Down,
	"pageup":     PageUp,
	"pagedown":   PageDown,
	"end":        End,
	"print":      Print,
	"insert":     Insert,
	"menu":       Menu,
	"delete":     Delete,
	"leftshift":  ShiftL,
	"rightshift": ShiftR,
	"leftctrl":   ControlL,
	"rightctrl":  ControlR,
	"capslock":   CapsLock,
	"leftmeta":   MetaL,
	"rightmeta":  MetaR,
	"leftalt":    AltL,
	"rightalt":   AltR,
	"leftsuper":  SuperL,
	"rightsuper": SuperR,
}

var keyNames = map[Key]string{
	Space:      "Space",
	Apostrophe: "Apostrophe",
	Comma:      "Comma",
	Minus:      "Minus",
	Period:     "Period",
	Slash:      "Slash",
	Semicolon:  "Semicolon",
	Equal:      "Equal",
	BracketL:   "[",
	Backslash:  "\\",
	BracketR:   "]",
	Grave:      "`",
	BackSpace:  "BackSpace",
	Tab:        "Tab",
	Return:     "Return",
	Pause:      "Pause",
	Escape:     "Escape",
	Home:       "Home",
	Left:       "Left",
	Up:         "Up",
	Right:      "Right",
	Down:       "Down",
	PageUp:     "PageUp",
	PageDown:   "PageDown",
	End:        "End",
	Print:      "Print",
	Insert:     "Insert",
	Menu:       "Menu",
	Delete:     "Delete",
	ShiftL:     "LeftShift",
	ShiftR:     "RightShift",
	ControlL:   "LeftCtrl",
	ControlR:   "RightCtrl",
	CapsLock:   "CapsLock",
	MetaL:      "LeftMeta",
	MetaR:      "RightMeta",
	AltL:       "LeftAlt",
	AltR:       "RightAlt",
	SuperL:     "LeftSuper",
	SuperR:     "RightSuper",
}

// ParseKey maps a key name ("a", "F5", "Space", "LeftCtrl", "0xff0d") to its keysym.
func ParseKey(name string) (Key, error) {
	token := strings.TrimSpace(name)
	if token == "" {
		return None, fmt.Errorf("missing key name")
	}
	if len(token) == 1 {
		if k := Letter(token[0]); k != None {
			return k, nil
		}
	}
	lower := strings.ToLower(token)
	if k, ok := namedKeys[lower]; ok {
		return k, nil
	}
	if strings.HasPrefix(lower, "f") && len(lower) <= 3 {
		var n int
		if _, err := fmt.Sscanf(lower, "f%d", &n); err == nil {
			if k := F(n); k != None {
				return k, nil
			}
		}
	}
	if strings.HasPrefix(lower, "0x") {
		var v uint32
		if _, err := fmt.Sscanf(lower, "0x%x", &v); err == nil && v != 0 {
			return Key(v), nil
		}
		return None, fmt.Errorf("invalid keysym %q", name)
	}
	return None, fmt.Errorf("unknown key name: %q", name)
}

// String returns the display name of the key.
func (k Key) String() string {
	if k == None {
		return "None"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= F1 && k < F1+24 {
		return fmt.Sprintf("F%d", k-F1+1)
	}
	if k >= 'a' && k <= 'z' {
		return string(rune(k - 'a' + 'A'))
	}
	if k >= '0' && k <= '9' {
		return string(rune(k))
	}
	return fmt.Sprintf("0x%04x", uint32(k))
}

// IsModifier reports whether k is itself a modifier key (Shift, Ctrl, Alt,
// Meta, Super or CapsLock).
func (k Key) IsModifier() bool {
	switch k {
	case ShiftL, ShiftR, ControlL, ControlR, CapsLock, MetaL, MetaR, AltL, AltR, SuperL, SuperR:
		return true
	}
	return false
}

// Modifier returns the modifier bit a modifier key contributes while held.
// CapsLock and non-modifier keys contribute nothing.
func (k Key) Modifier() Modifiers {
	switch k {
	case ShiftL, ShiftR:
		return ModShift
	case ControlL, ControlR:
		return ModCtrl
	case AltL, AltR, MetaL, MetaR:
		return ModAlt
	case SuperL, SuperR:
		return ModSuper
	}
	return 0
}
