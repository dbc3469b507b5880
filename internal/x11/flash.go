package x11

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	flashH      = 28
	flashMinW   = 80
	flashMaxLen = 24
	flashBG     = uint32(0x1C1C1E)
	flashOK     = uint32(0x30D158)
	flashFail   = uint32(0xFF3B30)

	// FlashDuration is how long a flash stays on screen.
	FlashDuration = 1500 * time.Millisecond
)

// Flash is a small borderless window shown near the pointer to confirm that
// a hotkey fired while the main window is hidden.
type Flash struct {
	mu     sync.Mutex
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	wid    xproto.Window
	gc     xproto.Gcontext

	hasFont  bool
	textFont xproto.Font
	textGC   xproto.Gcontext

	text  string
	color uint32
	shown bool

	// gen is bumped by every Show. A pending auto-hide only runs if no
	// newer Show happened since it was scheduled.
	gen atomic.Uint64
}

func NewFlash() (*Flash, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("X11: %w", err)
	}
	f := &Flash{conn: conn, screen: xproto.Setup(conn).DefaultScreen(conn)}
	if err := f.init(); err != nil {
		conn.Close()
		return nil, err
	}
	go f.eventLoop()
	return f, nil
}

func (f *Flash) init() error {
	wid, err := xproto.NewWindowId(f.conn)
	if err != nil {
		return err
	}
	f.wid = wid

	if err := xproto.CreateWindowChecked(f.conn, f.screen.RootDepth, wid, f.screen.Root,
		0, 0, flashMinW, flashH, 0,
		xproto.WindowClassInputOutput, f.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{
			flashBG,
			1, // override_redirect: no decorations, no focus steal
			xproto.EventMaskExposure,
		},
	).Check(); err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	f.setAtomProp("_NET_WM_WINDOW_TYPE", "_NET_WM_WINDOW_TYPE_NOTIFICATION")
	f.setAtomProp("_NET_WM_STATE", "_NET_WM_STATE_ABOVE")

	gc, err := xproto.NewGcontextId(f.conn)
	if err != nil {
		return err
	}
	f.gc = gc
	if err := xproto.CreateGCChecked(f.conn, gc, xproto.Drawable(wid),
		xproto.GcForeground|xproto.GcBackground,
		[]uint32{0xFFFFFF, flashBG},
	).Check(); err != nil {
		return err
	}

	// Text needs a server-side font; without one only the dot is drawn.
	if fid, err := xproto.NewFontId(f.conn); err == nil {
		if xproto.OpenFontChecked(f.conn, fid, uint16(len("fixed")), "fixed").Check() == nil {
			if tgc, err2 := xproto.NewGcontextId(f.conn); err2 == nil {
				if xproto.CreateGCChecked(f.conn, tgc, xproto.Drawable(wid),
					xproto.GcForeground|xproto.GcBackground|xproto.GcFont,
					[]uint32{0xFFFFFF, flashBG, uint32(fid)},
				).Check() == nil {
					f.hasFont = true
					f.textFont = fid
					f.textGC = tgc
				}
			}
		}
	}
	return nil
}

func (f *Flash) setAtomProp(prop, val string) {
	pr, err := xproto.InternAtom(f.conn, false, uint16(len(prop)), prop).Reply()
	if err != nil || pr.Atom == 0 {
		return
	}
	vr, err := xproto.InternAtom(f.conn, false, uint16(len(val)), val).Reply()
	if err != nil || vr.Atom == 0 {
		return
	}
	a := vr.Atom
	xproto.ChangeProperty(f.conn, xproto.PropModeReplace, f.wid, //nolint:errcheck
		pr.Atom, xproto.AtomAtom, 32, 1,
		[]byte{byte(a), byte(a >> 8), byte(a >> 16), byte(a >> 24)})
}

// Show displays text with a green dot, or a red one when ok is false, and
// hides it again after FlashDuration.
func (f *Flash) Show(text string, ok bool) {
	label := asciiLabel(text, flashMaxLen)
	color := flashOK
	if !ok {
		color = flashFail
	}
	w := flashWidth(label)

	f.mu.Lock()
	f.text = label
	f.color = color
	f.shown = true
	f.mu.Unlock()

	px, py := f.pointer()
	x, y := place(px, py, int16(w), flashH, int16(f.screen.WidthInPixels), int16(f.screen.HeightInPixels))
	xproto.ConfigureWindow(f.conn, f.wid, //nolint:errcheck
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(x), uint32(y), uint32(w), flashH})
	xproto.MapWindow(f.conn, f.wid)       //nolint:errcheck
	xproto.ConfigureWindow(f.conn, f.wid, //nolint:errcheck
		xproto.ConfigWindowStackMode, []uint32{uint32(xproto.StackModeAbove)})
	f.draw()

	gen := f.gen.Add(1)
	time.AfterFunc(FlashDuration, func() {
		if f.gen.Load() == gen {
			f.Hide()
		}
	})
}

func (f *Flash) Hide() {
	f.mu.Lock()
	f.shown = false
	f.mu.Unlock()
	xproto.UnmapWindow(f.conn, f.wid) //nolint:errcheck
}

func (f *Flash) Close() {
	f.gen.Add(1)
	if f.hasFont {
		xproto.CloseFont(f.conn, f.textFont) //nolint:errcheck
	}
	xproto.DestroyWindow(f.conn, f.wid) //nolint:errcheck
	f.conn.Close()
}

func (f *Flash) eventLoop() {
	for {
		ev, err := f.conn.WaitForEvent()
		if err != nil {
			continue
		}
		if ev == nil {
			return
		}
		if _, ok := ev.(xproto.ExposeEvent); ok {
			f.draw()
		}
	}
}

func (f *Flash) draw() {
	f.mu.Lock()
	text, color, shown := f.text, f.color, f.shown
	f.mu.Unlock()
	if !shown {
		return
	}

	d := xproto.Drawable(f.wid)
	xproto.ChangeGC(f.conn, f.gc, xproto.GcForeground, []uint32{flashBG}) //nolint:errcheck
	xproto.PolyFillRectangle(f.conn, d, f.gc,                             //nolint:errcheck
		[]xproto.Rectangle{{X: 0, Y: 0, Width: uint16(flashWidth(text)), Height: flashH}})

	xproto.ChangeGC(f.conn, f.gc, xproto.GcForeground, []uint32{color}) //nolint:errcheck
	xproto.PolyFillArc(f.conn, d, f.gc, []xproto.Arc{{                  //nolint:errcheck
		X: 5, Y: 8, Width: 12, Height: 12, Angle1: 0, Angle2: 360 * 64,
	}})
	if f.hasFont && text != "" {
		xproto.ImageText8(f.conn, uint8(len(text)), d, f.textGC, 22, 19, text) //nolint:errcheck
	}
	f.conn.Sync()
}

func (f *Flash) pointer() (int16, int16) {
	if r, err := xproto.QueryPointer(f.conn, f.screen.Root).Reply(); err == nil {
		return r.RootX, r.RootY
	}
	return int16(f.screen.WidthInPixels / 2), int16(f.screen.HeightInPixels / 2)
}

// asciiLabel truncates s to maxLen characters, marking the cut with "...".
// Core fonts only render ASCII, so any other rune gives "".
func asciiLabel(s string, maxLen int) string {
	for _, r := range s {
		if r > 127 {
			return ""
		}
	}
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

func flashWidth(label string) int {
	w := len(label)*7 + 30
	if w < flashMinW {
		w = flashMinW
	}
	return w
}

// place centres a w by h box above the point (px, py), kept on screen.
func place(px, py, w, h, screenW, screenH int16) (int16, int16) {
	x := i16clamp(px-w/2, 0, screenW-w)
	y := i16clamp(py-h-10, 0, screenH-h)
	return x, y
}

func i16clamp(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
