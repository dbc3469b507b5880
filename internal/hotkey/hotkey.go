package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
	"github.com/Alijeyrad/gotalk-hotkeys/internal/logging"
)

// Hotkey is one global hotkey registration. It is active from New until Close.
// The key and modifiers are fixed; to rebind, Close and create a new Hotkey.
//
// New and Close must be called on the goroutine that owns the window.
type Hotkey struct {
	reg        *Registry
	dispatcher Dispatcher
	chord      keys.Chord
	window     Window
	id         ID

	mu         sync.Mutex
	registered bool
	closed     bool
	onFired    []func(*Hotkey)
}

// New registers mods+key globally for window w and subscribes to the registry.
// If w is zero the foreground window is used. onFired may be nil.
//
// Binding keys.None is not an error: the returned Hotkey never registers and
// never fires.
func New(reg *Registry, mods keys.Modifiers, key keys.Key, w Window, onFired func(*Hotkey)) (*Hotkey, error) {
	if w == 0 {
		w = reg.backend.Foreground()
	}
	h := &Hotkey{
		reg:        reg,
		dispatcher: reg.dispatcher,
		chord:      keys.Chord{Modifiers: mods, Key: key},
		window:     w,
	}
	if onFired != nil {
		h.onFired = append(h.onFired, onFired)
	}
	if key == keys.None {
		return h, nil
	}

	id, err := reg.allocID()
	if err != nil {
		return nil, &RegistrationError{Chord: h.chord, Err: err}
	}
	h.id = id

	if err := reg.backend.Register(w, id, mods, key); err != nil {
		reg.releaseID(id)
		logging.HotkeyRejected(h.Name(), err)
		return nil, &RegistrationError{Chord: h.chord, Err: err}
	}
	h.registered = true
	reg.subscribe(h)
	logging.HotkeyRegistered(h.Name(), uint32(id), uintptr(w))
	return h, nil
}

// OnFired adds a callback run on the UI goroutine each time the hotkey fires.
func (h *Hotkey) OnFired(fn func(*Hotkey)) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.onFired = append(h.onFired, fn)
	h.mu.Unlock()
}

func (h *Hotkey) Key() keys.Key             { return h.chord.Key }
func (h *Hotkey) Modifiers() keys.Modifiers { return h.chord.Modifiers }
func (h *Hotkey) Chord() keys.Chord         { return h.chord }
func (h *Hotkey) Window() Window            { return h.window }
func (h *Hotkey) ID() ID                    { return h.id }

// Name is the display form of the chord, e.g. "Ctrl+Alt+K".
func (h *Hotkey) Name() string { return h.chord.String() }

func (h *Hotkey) String() string { return h.Name() }

// Registered reports whether the backend still holds the combination for us.
func (h *Hotkey) Registered() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registered
}

// Close stops delivery and releases the combination. It is safe to call more
// than once. If the backend fails to release, the error is returned, the
// hotkey stays Registered, and a later Close tries again.
func (h *Hotkey) Close() error {
	h.mu.Lock()
	h.closed = true
	registered := h.registered
	h.mu.Unlock()

	h.reg.unsubscribe(h)
	if !registered {
		return nil
	}

	err := h.reg.backend.Unregister(h.window, h.id)
	logging.HotkeyUnregistered(h.Name(), uint32(h.id), err)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrUnregister, h.Name(), err)
	}

	h.mu.Lock()
	h.registered = false
	h.mu.Unlock()
	return nil
}

func (h *Hotkey) fire() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	callbacks := make([]func(*Hotkey), len(h.onFired))
	copy(callbacks, h.onFired)
	h.mu.Unlock()

	logging.HotkeyFired(h.Name(), uint32(h.id))
	h.dispatcher.Invoke(func() {
		// Close may have run on the UI goroutine while this was queued.
		h.mu.Lock()
		closed := h.closed
		h.mu.Unlock()
		if closed {
			return
		}
		for _, fn := range callbacks {
			fn(h)
		}
	})
}

// IsRegistrationError reports whether err came from a refused registration.
func IsRegistrationError(err error) bool {
	var re *RegistrationError
	return errors.As(err, &re)
}
