package hotkey

import (
	"errors"
	"testing"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

func TestServiceAddListRemove(t *testing.T) {
	reg, fb := newTestRegistry(t)
	svc := NewService(reg)

	if _, err := svc.Add(keys.ModCtrl, keys.Letter('1'), testWindow, nil); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := svc.Add(keys.ModAlt, keys.Letter('2'), testWindow, nil); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	list := svc.Hotkeys()
	if len(list) != 2 || list[0].Name() != "Ctrl+1" || list[1].Name() != "Alt+2" {
		t.Fatalf("Hotkeys() = %v, want [Ctrl+1 Alt+2]", list)
	}
	if svc.Find(keys.ModAlt, keys.Letter('2')) != list[1] {
		t.Error("Find did not return the added hotkey")
	}

	if err := svc.Remove(keys.ModCtrl, keys.Letter('1')); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("Len after Remove = %d, want 1", svc.Len())
	}
	if fb.Held(keys.ModCtrl, keys.Letter('1')) {
		t.Error("removed chord is still held")
	}
	if svc.Find(keys.ModCtrl, keys.Letter('1')) != nil {
		t.Error("Find returned a removed hotkey")
	}
}

func TestServiceAddDuplicate(t *testing.T) {
	reg, _ := newTestRegistry(t)
	svc := NewService(reg)

	if _, err := svc.Add(keys.ModShift, keys.F(2), testWindow, nil); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	_, err := svc.Add(keys.ModShift, keys.F(2), testWindow, nil)
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate Add = %v, want ErrAlreadyRegistered", err)
	}
	if svc.Len() != 1 {
		t.Errorf("failed Add should not be listed; Len = %d", svc.Len())
	}
}

func TestServiceRemoveMissing(t *testing.T) {
	reg, _ := newTestRegistry(t)
	svc := NewService(reg)

	err := svc.Remove(keys.ModCtrl, keys.Letter('q'))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Remove = %v, want ErrNotFound", err)
	}
}

func TestServiceRemoveKeepsHotkeyWhenReleaseFails(t *testing.T) {
	reg, fb := newTestRegistry(t)
	svc := NewService(reg)

	h, err := svc.Add(keys.ModCtrl, keys.Letter('k'), testWindow, nil)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	fb.FailUnregister(errors.New("boom"))
	if err := svc.Remove(keys.ModCtrl, keys.Letter('k')); !errors.Is(err, ErrUnregister) {
		t.Fatalf("Remove = %v, want ErrUnregister", err)
	}
	if svc.Find(keys.ModCtrl, keys.Letter('k')) != h || svc.Len() != 1 {
		t.Fatal("hotkey dropped from the list although the backend still holds it")
	}
	if !h.Registered() {
		t.Error("hotkey reports unregistered after a failed release")
	}

	fb.FailUnregister(nil)
	if err := svc.Remove(keys.ModCtrl, keys.Letter('k')); err != nil {
		t.Fatalf("retried Remove error: %v", err)
	}
	if svc.Len() != 0 || fb.Held(keys.ModCtrl, keys.Letter('k')) {
		t.Error("retried Remove did not release the hotkey")
	}
	if _, err := svc.Add(keys.ModCtrl, keys.Letter('k'), testWindow, nil); err != nil {
		t.Errorf("re-Add after retried Remove error: %v", err)
	}
}

func TestServiceCloseReleasesAll(t *testing.T) {
	reg, fb := newTestRegistry(t)
	svc := NewService(reg)

	chords := []keys.Chord{
		{Modifiers: keys.ModCtrl, Key: keys.Letter('a')},
		{Modifiers: keys.ModCtrl, Key: keys.Letter('b')},
		{Modifiers: keys.ModCtrl, Key: keys.Letter('c')},
	}
	for _, c := range chords {
		if _, err := svc.Add(c.Modifiers, c.Key, testWindow, nil); err != nil {
			t.Fatalf("Add(%s) error: %v", c, err)
		}
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	for _, c := range chords {
		if fb.Held(c.Modifiers, c.Key) {
			t.Errorf("%s still held after Close", c)
		}
	}
	if reg.Len() != 0 || svc.Len() != 0 {
		t.Errorf("registry Len = %d, service Len = %d, want 0", reg.Len(), svc.Len())
	}
}

func TestServiceCloseJoinsErrors(t *testing.T) {
	reg, fb := newTestRegistry(t)
	svc := NewService(reg)

	svc.Add(keys.ModAlt, keys.Letter('a'), testWindow, nil) //nolint:errcheck
	svc.Add(keys.ModAlt, keys.Letter('b'), testWindow, nil) //nolint:errcheck
	fb.FailUnregister(errors.New("gone"))

	err := svc.Close()
	if !errors.Is(err, ErrUnregister) {
		t.Fatalf("Close = %v, want joined ErrUnregister", err)
	}
	if svc.Len() != 2 {
		t.Fatalf("Len after failed Close = %d, want 2", svc.Len())
	}

	fb.FailUnregister(nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
	if svc.Len() != 0 || fb.Held(keys.ModAlt, keys.Letter('a')) || fb.Held(keys.ModAlt, keys.Letter('b')) {
		t.Error("second Close did not release the remaining hotkeys")
	}
}
