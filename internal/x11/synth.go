package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

// Synth fakes key presses through the XTEST extension. The server treats
// them like real input, so they activate passive grabs.
type Synth struct {
	conn *xgb.Conn
	root xproto.Window
	km   *keymap
}

// NewSynth opens its own connection to the display.
func NewSynth() (*Synth, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X11: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("XTest: %w", err)
	}
	km, err := loadKeymap(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Synth{
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
		km:   km,
	}, nil
}

func (s *Synth) Close() {
	s.conn.Close()
}

// modifierKeys are pressed, in this order, to produce each modifier.
var modifierKeys = []struct {
	mod keys.Modifiers
	key keys.Key
}{
	{keys.ModCtrl, keys.ControlL},
	{keys.ModAlt, keys.AltL},
	{keys.ModShift, keys.ShiftL},
	{keys.ModSuper, keys.SuperL},
}

// Press holds the chord's modifiers, taps its key and releases everything in
// reverse order.
func (s *Synth) Press(c keys.Chord) error {
	if c.Key == keys.None {
		return fmt.Errorf("chord %s has no key", c)
	}
	kc, shift := s.km.keycode(c.Key)
	if kc == 0 {
		return fmt.Errorf("key %s not found in keyboard mapping", c.Key)
	}
	mods := c.Modifiers
	if shift {
		mods |= keys.ModShift
	}

	var held []xproto.Keycode
	for _, m := range modifierKeys {
		if !mods.Has(m.mod) {
			continue
		}
		mkc, _ := s.km.keycode(m.key)
		if mkc == 0 {
			return fmt.Errorf("modifier %s not found in keyboard mapping", m.key)
		}
		held = append(held, mkc)
	}

	for _, mkc := range held {
		s.pressKey(mkc)
	}
	s.pressKey(kc)
	s.releaseKey(kc)
	for i := len(held) - 1; i >= 0; i-- {
		s.releaseKey(held[i])
	}
	s.conn.Sync()
	return nil
}

func (s *Synth) pressKey(kc xproto.Keycode) {
	xtest.FakeInput(s.conn, xproto.KeyPress, byte(kc), 0, s.root, 0, 0, 0) //nolint:errcheck
}

func (s *Synth) releaseKey(kc xproto.Keycode) {
	xtest.FakeInput(s.conn, xproto.KeyRelease, byte(kc), 0, s.root, 0, 0, 0) //nolint:errcheck
}
