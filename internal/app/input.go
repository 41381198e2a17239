package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ovpview/internal/platform"
	"ovpview/internal/ui"
)

// inputState is one tick of host input seen from the viewport area.
// Cursor coordinates are relative to the area's top-left corner.
type inputState struct {
	x, y    int
	w, h    int
	buttons platform.MouseButtons
	wheel   float32
	keys    []string
	ctrl    bool
}

func (s inputState) inside() bool {
	return s.x >= 0 && s.y >= 0 && s.x < s.w && s.y < s.h
}

var mouseButtons = []struct {
	eb  ebiten.MouseButton
	bit platform.MouseButtons
}{
	{ebiten.MouseButtonLeft, platform.ButtonPrimary},
	{ebiten.MouseButtonRight, platform.ButtonSecondary},
	{ebiten.MouseButtonMiddle, platform.ButtonMiddle},
}

func pollInput(area ui.Rect, ctrl bool) inputState {
	cx, cy := ebiten.CursorPosition()
	s := inputState{x: cx - area.X, y: cy - area.Y, w: area.W, h: area.H, ctrl: ctrl}
	for _, b := range mouseButtons {
		if ebiten.IsMouseButtonPressed(b.eb) {
			s.buttons |= b.bit
		}
	}
	_, wy := ebiten.Wheel()
	s.wheel = float32(wy)
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		s.keys = append(s.keys, k.String())
	}
	return s
}

// translateInput turns the difference between two ticks into viewport
// events. Presses and wheel only count inside the area; releases are
// always delivered so a drag that leaves the area still ends. Keys are
// not forwarded while Ctrl is held, those belong to the host shortcuts.
func translateInput(prev, cur inputState) []platform.Event {
	var out []platform.Event
	if cur.w != prev.w || cur.h != prev.h {
		out = append(out, platform.Event{Type: platform.EventResize, Width: cur.w, Height: cur.h})
	}
	in, wasIn := cur.inside(), prev.inside()
	if in && !wasIn {
		out = append(out, platform.Event{Type: platform.EventMouseEnter, X: cur.x, Y: cur.y})
	}

	pressed := cur.buttons &^ prev.buttons
	released := prev.buttons &^ cur.buttons
	if in {
		for _, b := range mouseButtons {
			if pressed&b.bit != 0 {
				out = append(out, platform.Event{Type: platform.EventMouseDown, X: cur.x, Y: cur.y, Buttons: b.bit})
			}
		}
	}
	if cur.x != prev.x || cur.y != prev.y {
		out = append(out, platform.Event{Type: platform.EventMouseMove, X: cur.x, Y: cur.y, Buttons: cur.buttons})
	}
	for _, b := range mouseButtons {
		if released&b.bit != 0 {
			out = append(out, platform.Event{Type: platform.EventMouseUp, X: cur.x, Y: cur.y, Buttons: b.bit})
		}
	}
	if in && cur.wheel != 0 {
		out = append(out, platform.Event{Type: platform.EventMouseWheel, X: cur.x, Y: cur.y, DeltaY: cur.wheel})
	}
	if !cur.ctrl {
		for _, k := range cur.keys {
			out = append(out, platform.Event{Type: platform.EventKeyDown, Key: k})
		}
	}
	if !in && wasIn {
		out = append(out, platform.Event{Type: platform.EventMouseLeave, X: cur.x, Y: cur.y})
	}
	return out
}
