package app

import (
	"testing"

	"ovpview/internal/platform"
)

func types(evs []platform.Event) []platform.EventType {
	out := make([]platform.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Type
	}
	return out
}

func sameTypes(got []platform.Event, want ...platform.EventType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].Type != want[i] {
			return false
		}
	}
	return true
}

func TestTranslateEnterPressDrag(t *testing.T) {
	prev := inputState{x: -5, y: 10, w: 200, h: 100}
	cur := prev
	cur.x = 20

	evs := translateInput(prev, cur)
	if !sameTypes(evs, platform.EventMouseEnter, platform.EventMouseMove) {
		t.Fatalf("enter: got %v", types(evs))
	}

	prev, cur.buttons = cur, platform.ButtonPrimary
	evs = translateInput(prev, cur)
	if !sameTypes(evs, platform.EventMouseDown) || evs[0].Buttons != platform.ButtonPrimary {
		t.Fatalf("press: got %+v", evs)
	}

	prev = cur
	cur.x, cur.y = 40, 30
	evs = translateInput(prev, cur)
	if !sameTypes(evs, platform.EventMouseMove) || evs[0].X != 40 || evs[0].Y != 30 || evs[0].Buttons != platform.ButtonPrimary {
		t.Fatalf("drag move: got %+v", evs)
	}
}

func TestTranslateReleaseOutsideStillDelivered(t *testing.T) {
	prev := inputState{x: 10, y: 10, w: 50, h: 50, buttons: platform.ButtonPrimary}
	cur := prev
	cur.x, cur.buttons = 80, 0

	evs := translateInput(prev, cur)
	if !sameTypes(evs, platform.EventMouseMove, platform.EventMouseUp, platform.EventMouseLeave) {
		t.Fatalf("got %v", types(evs))
	}
	if evs[1].Buttons != platform.ButtonPrimary {
		t.Fatalf("release should name the released button, got %v", evs[1].Buttons)
	}
}

func TestTranslateIgnoresPressAndWheelOutside(t *testing.T) {
	prev := inputState{x: 80, y: 10, w: 50, h: 50}
	cur := prev
	cur.buttons = platform.ButtonSecondary
	cur.wheel = 1
	if evs := translateInput(prev, cur); len(evs) != 0 {
		t.Fatalf("expected no events outside the area, got %v", types(evs))
	}
}

func TestTranslateWheelResizeAndKeys(t *testing.T) {
	prev := inputState{x: 5, y: 5, w: 50, h: 50}
	cur := prev
	cur.w, cur.h = 60, 40
	cur.wheel = -1
	cur.keys = []string{"W", "F"}

	evs := translateInput(prev, cur)
	if !sameTypes(evs, platform.EventResize, platform.EventMouseWheel, platform.EventKeyDown, platform.EventKeyDown) {
		t.Fatalf("got %v", types(evs))
	}
	if evs[0].Width != 60 || evs[0].Height != 40 {
		t.Fatalf("resize = %+v", evs[0])
	}
	if evs[1].DeltaY != -1 {
		t.Fatalf("wheel delta = %v", evs[1].DeltaY)
	}
	if evs[2].Key != "W" || evs[3].Key != "F" {
		t.Fatalf("keys = %q %q", evs[2].Key, evs[3].Key)
	}

	cur.ctrl = true
	cur.wheel = 0
	if evs := translateInput(cur, cur); len(evs) != 0 {
		t.Fatalf("keys with ctrl held should stay with the host, got %v", types(evs))
	}
}

func TestTranslateMultipleButtons(t *testing.T) {
	prev := inputState{x: 5, y: 5, w: 50, h: 50}
	cur := prev
	cur.buttons = platform.ButtonPrimary | platform.ButtonMiddle
	evs := translateInput(prev, cur)
	if !sameTypes(evs, platform.EventMouseDown, platform.EventMouseDown) {
		t.Fatalf("got %v", types(evs))
	}
	if evs[0].Buttons != platform.ButtonPrimary || evs[1].Buttons != platform.ButtonMiddle {
		t.Fatalf("buttons = %v %v", evs[0].Buttons, evs[1].Buttons)
	}
}
