package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/Alijeyrad/gotalk-hotkeys/internal/keys"
)

// keymap is a snapshot of the server's keysym table.
type keymap struct {
	minKey  xproto.Keycode
	mapping *xproto.GetKeyboardMappingReply
	perCode int
}

func loadKeymap(conn *xgb.Conn) (*keymap, error) {
	setup := xproto.Setup(conn)
	km := &keymap{minKey: setup.MinKeycode}
	var err error
	km.mapping, err = xproto.GetKeyboardMapping(conn, km.minKey, byte(setup.MaxKeycode-km.minKey+1)).Reply()
	if err != nil {
		return nil, fmt.Errorf("keyboard mapping: %w", err)
	}
	km.perCode = int(km.mapping.KeysymsPerKeycode)
	if km.perCode == 0 {
		return nil, fmt.Errorf("keyboard mapping has no keysyms")
	}
	return km, nil
}

// keycode returns the keycode producing k and whether Shift is needed to get
// it. Unshifted positions win; keysyms found only in other groups are not
// reachable and give 0.
func (km *keymap) keycode(k keys.Key) (xproto.Keycode, bool) {
	var shifted xproto.Keycode
	for i, ks := range km.mapping.Keysyms {
		if uint32(ks) != uint32(k) {
			continue
		}
		kc := km.minKey + xproto.Keycode(i/km.perCode)
		switch i % km.perCode {
		case 0:
			return kc, false
		case 1:
			if shifted == 0 {
				shifted = kc
			}
		}
	}
	return shifted, shifted != 0
}

// grab returns the key and modifier state that produce mods+key. A shifted
// keysym such as '!' is grabbed with Shift added, so the plain key does not
// trigger it.
func (km *keymap) grab(mods keys.Modifiers, key keys.Key) (grabKey, bool) {
	kc, shift := km.keycode(key)
	if kc == 0 {
		return grabKey{}, false
	}
	if shift {
		mods |= keys.ModShift
	}
	return grabKey{keycode: kc, mask: modMask(mods)}, true
}

// modMask converts modifiers to the core protocol state bits.
func modMask(m keys.Modifiers) uint16 {
	var mask uint16
	if m.Has(keys.ModCtrl) {
		mask |= xproto.ModMaskControl
	}
	if m.Has(keys.ModAlt) {
		mask |= xproto.ModMask1
	}
	if m.Has(keys.ModShift) {
		mask |= xproto.ModMaskShift
	}
	if m.Has(keys.ModSuper) {
		mask |= xproto.ModMask4
	}
	return mask
}

// relevantMods are the state bits that make up a chord. Lock and NumLock are
// ignored when matching.
const relevantMods = xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMaskShift | xproto.ModMask4

// lockVariants are grabbed alongside every chord so it still fires with
// NumLock or CapsLock on.
var lockVariants = []uint16{
	0,
	xproto.ModMask2,
	xproto.ModMaskLock,
	xproto.ModMask2 | xproto.ModMaskLock,
}
