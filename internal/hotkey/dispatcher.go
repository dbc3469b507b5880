package hotkey

// Dispatcher runs fn on the UI goroutine and returns once fn has finished.
type Dispatcher interface {
	Invoke(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Invoke(fn func()) { f(fn) }

// Immediate runs callbacks inline on the calling goroutine.
var Immediate Dispatcher = DispatcherFunc(func(fn func()) { fn() })
