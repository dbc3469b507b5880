package hotkey

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

// Service keeps the set of hotkeys an application has registered and releases
// them all on Close.
type Service struct {
	reg *Registry

	mu      sync.Mutex
	hotkeys []*Hotkey
}

func NewService(reg *Registry) *Service {
	return &Service{reg: reg}
}

// Add registers a new hotkey. The backend rejects a chord that is already held.
func (s *Service) Add(mods keys.Modifiers, key keys.Key, w Window, action func(*Hotkey)) (*Hotkey, error) {
	h, err := New(s.reg, mods, key, w, action)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.hotkeys = append(s.hotkeys, h)
	s.mu.Unlock()
	return h, nil
}

// Find returns the hotkey bound to mods+key, or nil.
func (s *Service) Find(mods keys.Modifiers, key keys.Key) *Hotkey {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hotkeys {
		if h.chord.Modifiers == mods && h.chord.Key == key {
			return h
		}
	}
	return nil
}

// Remove closes and forgets the hotkey bound to mods+key. If the backend fails
// to release it, the error is returned and the hotkey stays listed so Remove
// or Close can try again.
func (s *Service) Remove(mods keys.Modifiers, key keys.Key) error {
	h := s.Find(mods, key)
	if h == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, keys.Chord{Modifiers: mods, Key: key})
	}
	if err := h.Close(); err != nil {
		return err
	}
	s.drop(h)
	return nil
}

func (s *Service) drop(h *Hotkey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.hotkeys {
		if v == h {
			s.hotkeys = append(s.hotkeys[:i], s.hotkeys[i+1:]...)
			return
		}
	}
}

// Hotkeys returns the registered hotkeys in the order they were added.
func (s *Service) Hotkeys() []*Hotkey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Hotkey, len(s.hotkeys))
	copy(out, s.hotkeys)
	return out
}

// Len returns the number of hotkeys.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hotkeys)
}

// Close releases every hotkey and returns all release failures joined. Hotkeys
// that could not be released stay listed for a later Close.
func (s *Service) Close() error {
	var errs []error
	for _, h := range s.Hotkeys() {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
			continue
		}
		s.drop(h)
	}
	return errors.Join(errs...)
}
