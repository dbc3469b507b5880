// Package x11 implements hotkey.Backend on an X11 server using passive key
// grabs on the root window.
package x11

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/hotkey"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/logging"
)

type grabKey struct {
	keycode xproto.Keycode
	mask    uint16
}

type slot struct {
	window hotkey.Window
	id     hotkey.ID
}

// Backend grabs chords on the root window of the default screen and turns
// the resulting key presses into hotkey messages.
type Backend struct {
	conn *xgb.Conn
	root xproto.Window
	km   *keymap

	activeWindow xproto.Atom

	mu     sync.Mutex
	bySlot map[slot]grabKey
	byGrab map[grabKey]slot

	closeOnce sync.Once
}

// Connect opens a connection to the display named by $DISPLAY.
func Connect() (*Backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X11: %w", err)
	}
	b, err := newBackend(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func newBackend(conn *xgb.Conn) (*Backend, error) {
	km, err := loadKeymap(conn)
	if err != nil {
		return nil, err
	}
	b := &Backend{
		conn:   conn,
		root:   xproto.Setup(conn).DefaultScreen(conn).Root,
		km:     km,
		bySlot: make(map[slot]grabKey),
		byGrab: make(map[grabKey]slot),
	}
	b.activeWindow = b.internAtom("_NET_ACTIVE_WINDOW")
	return b, nil
}

func (b *Backend) internAtom(name string) xproto.Atom {
	r, err := xproto.InternAtom(b.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0
	}
	return r.Atom
}

// Register grabs mods+key for w under id. A chord grabbed by another client
// fails with hotkey.ErrAlreadyRegistered, as does one this backend already
// holds.
func (b *Backend) Register(w hotkey.Window, id hotkey.ID, mods keys.Modifiers, key keys.Key) error {
	if key == keys.None {
		return hotkey.ErrInvalidHotkey
	}
	g, ok := b.km.grab(mods, key)
	if !ok {
		return fmt.Errorf("key %s not found in keyboard mapping: %w", key, hotkey.ErrInvalidHotkey)
	}
	s := slot{window: w, id: id}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.byGrab[g]; taken {
		return hotkey.ErrAlreadyRegistered
	}
	if _, taken := b.bySlot[s]; taken {
		return fmt.Errorf("id %d: %w", id, hotkey.ErrAlreadyRegistered)
	}

	for i, extra := range lockVariants {
		mod := g.mask | extra
		err := xproto.GrabKeyChecked(b.conn, true, b.root, mod, g.keycode,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			b.ungrab(g, lockVariants[:i]) //nolint:errcheck
			var access xproto.AccessError
			if errors.As(err, &access) {
				return hotkey.ErrAlreadyRegistered
			}
			return fmt.Errorf("grabbing key (mod=%d): %w", mod, err)
		}
	}

	b.bySlot[s] = g
	b.byGrab[g] = s
	return nil
}

// Unregister releases the grab made for w and id.
func (b *Backend) Unregister(w hotkey.Window, id hotkey.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := slot{window: w, id: id}
	g, ok := b.bySlot[s]
	if !ok {
		return fmt.Errorf("id %d: %w", id, hotkey.ErrNotFound)
	}
	if err := b.ungrab(g, lockVariants); err != nil {
		return err
	}
	delete(b.bySlot, s)
	delete(b.byGrab, g)
	return nil
}

func (b *Backend) ungrab(g grabKey, variants []uint16) error {
	var errs []error
	for _, extra := range variants {
		mod := g.mask | extra
		if err := xproto.UngrabKeyChecked(b.conn, g.keycode, b.root, mod).Check(); err != nil {
			errs = append(errs, fmt.Errorf("ungrabbing key (mod=%d): %w", mod, err))
		}
	}
	return errors.Join(errs...)
}

// Foreground returns the window named by _NET_ACTIVE_WINDOW, or the root
// window when the window manager does not publish one.
func (b *Backend) Foreground() hotkey.Window {
	if b.activeWindow == 0 {
		return hotkey.Window(b.root)
	}
	reply, err := xproto.GetProperty(b.conn, false, b.root, b.activeWindow,
		xproto.AtomWindow, 0, 1).Reply()
	if err != nil || reply == nil || len(reply.Value) < 4 {
		return hotkey.Window(b.root)
	}
	w := xgb.Get32(reply.Value)
	if w == 0 {
		return hotkey.Window(b.root)
	}
	return hotkey.Window(w)
}

// Root returns the root window of the default screen.
func (b *Backend) Root() hotkey.Window { return hotkey.Window(b.root) }

// Run pumps X11 events until Close, passing every grabbed key press to filter
// as a hotkey.MsgHotkey message. It returns nil once the connection is closed.
func (b *Backend) Run(filter func(hotkey.Message) bool) error {
	for {
		ev, err := b.conn.WaitForEvent()
		if err != nil {
			logging.Warnf("x11: event error: %v", err)
			continue
		}
		if ev == nil {
			return nil
		}

		press, ok := ev.(xproto.KeyPressEvent)
		if !ok {
			continue
		}
		msg, ok := b.translate(press)
		if !ok {
			continue
		}
		filter(msg)
	}
}

func (b *Backend) translate(ev xproto.KeyPressEvent) (hotkey.Message, bool) {
	g := grabKey{keycode: ev.Detail, mask: ev.State & relevantMods}
	b.mu.Lock()
	s, ok := b.byGrab[g]
	b.mu.Unlock()
	if !ok {
		return hotkey.Message{}, false
	}
	return hotkey.Message{Code: hotkey.MsgHotkey, Window: s.window, ID: s.id}, true
}

// Close releases every remaining grab and closes the connection, which ends Run.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		for s, g := range b.bySlot {
			b.ungrab(g, lockVariants) //nolint:errcheck
			delete(b.bySlot, s)
			delete(b.byGrab, g)
		}
		b.mu.Unlock()
		b.conn.Close()
	})
}
