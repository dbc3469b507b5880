package hotkey

import (
	"errors"
	"fmt"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

var (
	ErrAlreadyRegistered = errors.New("hotkey is already registered")
	ErrInvalidHotkey     = errors.New("hotkey is not valid")
	ErrUnregister        = errors.New("failed to unregister hotkey")
	ErrNotFound          = errors.New("hotkey not found")
	ErrIDsExhausted      = errors.New("hotkey ID range exhausted")
)

// RegistrationError is returned when a hotkey cannot be registered.
type RegistrationError struct {
	Chord keys.Chord
	Err   error
}

func (e *RegistrationError) Error() string {
	if errors.Is(e.Err, ErrAlreadyRegistered) {
		return fmt.Sprintf("failed to register hotkey %s, it may already be in use: %v", e.Chord, e.Err)
	}
	return fmt.Sprintf("failed to register hotkey %s: %v", e.Chord, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
