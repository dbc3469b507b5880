// Package notify sends desktop notifications.
package notify

import "github.com/gen2brain/beeep"

const appName = "GoTalk Hotkeys"

// send is replaced in tests.
var send = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Notifier announces fired hotkeys through the desktop notification daemon.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// Show notifies that text fired, or that it failed when ok is false.
func (n *Notifier) Show(text string, ok bool) {
	if ok {
		n.notify(text + " was pressed!")
		return
	}
	n.notify(text + " failed")
}

func (n *Notifier) notify(message string) {
	if !n.enabled {
		return
	}
	if len(message) > 100 {
		message = message[:100] + "..."
	}
	// Notification errors are not critical.
	_ = send(appName, message)
}
