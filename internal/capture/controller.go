// Package capture records the next key combination the user presses so it can
// be registered as a hotkey.
package capture

import "github.com/Alijeyrad/gotalk-hotkeys/internal/keys"

// State of a Controller.
type State int

const (
	Idle State = iota
	Listening
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	}
	return "unknown"
}

// View is the window side of a capture. All methods are called on the UI
// goroutine.
type View interface {
	// BeginIntercept starts routing key events to the controller and shows
	// that the window is listening.
	BeginIntercept()
	// EndIntercept stops routing key events and restores the idle look.
	EndIntercept()
	// Added reports a successful registration.
	Added(name string)
	// Failed reports a registration error.
	Failed(err error)
}

// RegisterFunc registers chord and returns its display name.
type RegisterFunc func(c keys.Chord) (string, error)

// Controller turns a stream of key events into one chord.
//
// Pressing a non-modifier key completes the chord with the modifiers held at
// that moment. Releasing a modifier before any other key was pressed registers
// that modifier key on its own. Escape cancels.
type Controller struct {
	view     View
	register RegisterFunc
	state    State
}

func New(view View, register RegisterFunc) *Controller {
	return &Controller{view: view, register: register}
}

func (c *Controller) State() State { return c.state }

// Start begins listening. It does nothing while already listening.
func (c *Controller) Start() {
	if c.state == Listening {
		return
	}
	c.state = Listening
	c.view.BeginIntercept()
}

// Cancel stops listening without registering anything.
func (c *Controller) Cancel() {
	if c.state != Listening {
		return
	}
	c.finish()
}

// KeyDown handles a key press. held are the modifiers down at that moment.
// It reports whether the event was consumed.
func (c *Controller) KeyDown(k keys.Key, held keys.Modifiers) bool {
	if c.state != Listening {
		return false
	}
	switch {
	case k == keys.Escape:
		c.finish()
	case k.IsModifier(), k == keys.None:
	default:
		c.finish()
		c.commit(keys.Chord{Modifiers: held, Key: k})
	}
	return true
}

// KeyUp handles a key release. Releasing a modifier while listening registers
// that modifier key with whatever other modifiers are still held.
func (c *Controller) KeyUp(k keys.Key, held keys.Modifiers) bool {
	if c.state != Listening || !k.IsModifier() {
		return false
	}
	c.finish()
	c.commit(keys.Chord{Modifiers: held &^ k.Modifier(), Key: k})
	return true
}

func (c *Controller) finish() {
	c.view.EndIntercept()
	c.state = Idle
}

func (c *Controller) commit(chord keys.Chord) {
	name, err := c.register(chord)
	if err != nil {
		c.view.Failed(err)
		return
	}
	c.view.Added(name)
}
