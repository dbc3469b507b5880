package hotkey

import (
	"fmt"
	"sync"
)

// maxID is the upper bound for application-defined hotkey IDs.
const maxID ID = 0xBFFF

// Registry is the message filter shared by every Hotkey bound to one backend
// and one UI goroutine. It owns correlation-id allocation and routes MsgHotkey
// messages to the subscribed handle.
type Registry struct {
	backend    Backend
	dispatcher Dispatcher

	mu     sync.Mutex
	nextID ID
	subs   map[ID]*Hotkey
}

// NewRegistry creates a registry. A nil dispatcher runs callbacks inline.
func NewRegistry(b Backend, d Dispatcher) *Registry {
	if d == nil {
		d = Immediate
	}
	return &Registry{
		backend:    b,
		dispatcher: d,
		subs:       make(map[ID]*Hotkey),
	}
}

// Backend returns the backend hotkeys of this registry are registered with.
func (r *Registry) Backend() Backend { return r.backend }

// allocID hands out the next correlation id. IDs that were registered are
// never reused, so a stale message can not reach a newer handle.
func (r *Registry) allocID() (ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextID >= maxID {
		return 0, fmt.Errorf("%w (ID=%d)", ErrIDsExhausted, r.nextID)
	}
	r.nextID++
	return r.nextID, nil
}

// releaseID returns an id that never reached the backend. Only the most
// recent id can be handed back; the allocation order stays monotonic.
func (r *Registry) releaseID(id ID) {
	r.mu.Lock()
	if r.nextID == id {
		r.nextID--
	}
	r.mu.Unlock()
}

func (r *Registry) subscribe(h *Hotkey) {
	r.mu.Lock()
	r.subs[h.id] = h
	r.mu.Unlock()
}

func (r *Registry) unsubscribe(h *Hotkey) {
	r.mu.Lock()
	if r.subs[h.id] == h {
		delete(r.subs, h.id)
	}
	r.mu.Unlock()
}

// Len returns the number of subscribed hotkeys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Filter inspects one message from the backend's event stream. It returns true
// when the message was a hotkey notification for a subscribed handle, in which
// case the handle's callbacks have run on the dispatcher.
func (r *Registry) Filter(msg Message) bool {
	if msg.Code != MsgHotkey {
		return false
	}
	r.mu.Lock()
	h, ok := r.subs[msg.ID]
	r.mu.Unlock()
	if !ok || h.window != msg.Window {
		return false
	}
	h.fire()
	return true
}
