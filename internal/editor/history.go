// Package editor tracks user edits to the view that can be stepped back
// and forth.
package editor

import "ovpview/internal/viewport"

// CameraHistory keeps settled camera states for undo and redo. The host
// commits a camera once it has stopped changing; intermediate states of
// a drag or a wheel burst are never recorded.
type CameraHistory struct {
	undo      []viewport.Camera
	redo      []viewport.Camera
	committed viewport.Camera
	max       int
}

func NewCameraHistory(initial viewport.Camera, max int) *CameraHistory {
	if max <= 0 {
		max = 1
	}
	return &CameraHistory{
		committed: initial,
		max:       max,
		undo:      make([]viewport.Camera, 0, 64),
		redo:      make([]viewport.Camera, 0, 64),
	}
}

// Commit records cam as the current settled camera. The previous one
// becomes an undo point and the redo list is cleared. Committing the
// same camera again is a no-op; the return value tells whether anything
// was recorded.
func (h *CameraHistory) Commit(cam viewport.Camera) bool {
	if cam == h.committed {
		return false
	}
	h.undo = append(h.undo, h.committed)
	if len(h.undo) > h.max {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
	h.committed = cam
	return true
}

// Undo returns the camera to restore. cur is the camera on screen; if it
// was never committed it is recorded first so Redo can return to it.
func (h *CameraHistory) Undo(cur viewport.Camera) (viewport.Camera, bool) {
	h.Commit(cur)
	if len(h.undo) == 0 {
		return cur, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, h.committed)
	h.committed = last
	return last, true
}

func (h *CameraHistory) Redo(cur viewport.Camera) (viewport.Camera, bool) {
	if cur != h.committed {
		// The view moved since the last undo; that branch wins.
		h.Commit(cur)
		return cur, false
	}
	if len(h.redo) == 0 {
		return cur, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, h.committed)
	h.committed = last
	return last, true
}

// Reset drops all history, e.g. when another scene is opened.
func (h *CameraHistory) Reset(cam viewport.Camera) {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.committed = cam
}

func (h *CameraHistory) CanUndo() bool { return len(h.undo) > 0 }
func (h *CameraHistory) CanRedo() bool { return len(h.redo) > 0 }
