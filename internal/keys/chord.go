package keys

import (
	"fmt"
	"strings"
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// modifierOrder is the display order used by String.
var modifierOrder = []struct {
	mod  Modifiers
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModShift, "Shift"},
	{ModSuper, "Super"},
}

var modifierByName = map[string]Modifiers{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"mod1":    ModAlt,
	"shift":   ModShift,
	"super":   ModSuper,
	"win":     ModSuper,
	"mod4":    ModSuper,
}

// Has reports whether all bits of m2 are set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// String renders the modifiers as "Ctrl+Alt", or "" when none are set.
func (m Modifiers) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m&o.mod != 0 {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// Chord is a modifier combination plus one key.
type Chord struct {
	Modifiers Modifiers
	Key       Key
}

// String renders the chord as "Ctrl+Shift+A".
func (c Chord) String() string {
	mods := c.Modifiers.String()
	if mods == "" {
		return c.Key.String()
	}
	return mods + "+" + c.Key.String()
}

// ParseChord parses strings like "Ctrl+Shift+a", "Alt-d" or "LeftCtrl".
// The last token is the key; every other token must be a modifier name.
// A chord made only of modifier names ("Ctrl+Alt") is rejected; bind a bare
// modifier through its key name instead ("LeftCtrl").
func ParseChord(s string) (Chord, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Chord{}, fmt.Errorf("hotkey spec is empty")
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == '-'
	})
	if len(parts) == 0 {
		return Chord{}, fmt.Errorf("no key specified in %q", raw)
	}

	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modifierByName[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("unknown modifier %q in hotkey %q", p, raw)
		}
		mods |= mod
	}

	last := parts[len(parts)-1]
	if _, ok := modifierByName[strings.ToLower(strings.TrimSpace(last))]; ok {
		return Chord{}, fmt.Errorf("no key specified in %q", raw)
	}
	key, err := ParseKey(last)
	if err != nil {
		return Chord{}, fmt.Errorf("parsing hotkey %q: %w", raw, err)
	}
	return Chord{Modifiers: mods, Key: key}, nil
}
