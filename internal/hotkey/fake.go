package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

type fakeSlot struct {
	window Window
	id     ID
}

// FakeBackend is an in-memory Backend. Like a real desktop it rejects a
// combination held by anyone, including registrations made with Hold to stand
// in for another process.
type FakeBackend struct {
	mu            sync.Mutex
	held          map[keys.Chord]fakeSlot
	byID          map[fakeSlot]keys.Chord
	foreground    Window
	failUnreg     error
	registerCalls int
	filter        func(Message) bool
}

func NewFake() *FakeBackend {
	return &FakeBackend{
		held:       make(map[keys.Chord]fakeSlot),
		byID:       make(map[fakeSlot]keys.Chord),
		foreground: 1,
	}
}

func (f *FakeBackend) Register(w Window, id ID, mods keys.Modifiers, key keys.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if key == keys.None {
		return ErrInvalidHotkey
	}
	c := keys.Chord{Modifiers: mods, Key: key}
	if _, taken := f.held[c]; taken {
		return fmt.Errorf("%s: %w", c, ErrAlreadyRegistered)
	}
	slot := fakeSlot{window: w, id: id}
	if _, dup := f.byID[slot]; dup {
		return fmt.Errorf("id %d: %w", id, ErrAlreadyRegistered)
	}
	f.held[c] = slot
	f.byID[slot] = c
	return nil
}

func (f *FakeBackend) Unregister(w Window, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUnreg != nil {
		return f.failUnreg
	}
	slot := fakeSlot{window: w, id: id}
	c, ok := f.byID[slot]
	if !ok {
		return errors.New("hotkey id not registered")
	}
	delete(f.byID, slot)
	delete(f.held, c)
	return nil
}

func (f *FakeBackend) Foreground() Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.foreground
}

// SetForeground sets the window Foreground reports.
func (f *FakeBackend) SetForeground(w Window) {
	f.mu.Lock()
	f.foreground = w
	f.mu.Unlock()
}

// FailUnregister makes every Unregister return err until called with nil.
func (f *FakeBackend) FailUnregister(err error) {
	f.mu.Lock()
	f.failUnreg = err
	f.mu.Unlock()
}

// Hold marks a combination as taken by someone else.
func (f *FakeBackend) Hold(mods keys.Modifiers, key keys.Key) {
	f.mu.Lock()
	f.held[keys.Chord{Modifiers: mods, Key: key}] = fakeSlot{}
	f.mu.Unlock()
}

// Held reports whether the combination is currently registered.
func (f *FakeBackend) Held(mods keys.Modifiers, key keys.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.held[keys.Chord{Modifiers: mods, Key: key}]
	return ok
}

// RegisterCalls returns how many times Register was called.
func (f *FakeBackend) RegisterCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registerCalls
}

// Connect routes delivered messages to filter, usually Registry.Filter.
func (f *FakeBackend) Connect(filter func(Message) bool) {
	f.mu.Lock()
	f.filter = filter
	f.mu.Unlock()
}

// Deliver pushes a raw message through the connected filter and returns
// whether it was handled.
func (f *FakeBackend) Deliver(msg Message) bool {
	f.mu.Lock()
	filter := f.filter
	f.mu.Unlock()
	if filter == nil {
		return false
	}
	return filter(msg)
}

// Press simulates the user pressing mods+key. Nothing is delivered when the
// combination is not registered.
func (f *FakeBackend) Press(mods keys.Modifiers, key keys.Key) bool {
	f.mu.Lock()
	slot, ok := f.held[keys.Chord{Modifiers: mods, Key: key}]
	f.mu.Unlock()
	if !ok || slot.id == 0 {
		return false
	}
	return f.Deliver(Message{Code: MsgHotkey, Window: slot.window, ID: slot.id})
}
