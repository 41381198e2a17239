package editor

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"ovpview/internal/viewport"
)

func cam(x float32, zoom float32) viewport.Camera {
	return viewport.Camera{Position: mgl32.Vec2{x, 0}, Zoom: zoom, ZoomStep: 10}
}

func TestUndoRedoWalksCommittedCameras(t *testing.T) {
	h := NewCameraHistory(cam(0, 1), 10)
	if !h.Commit(cam(1, 1)) || !h.Commit(cam(2, 0.5)) {
		t.Fatalf("expected commits to be recorded")
	}
	if h.Commit(cam(2, 0.5)) {
		t.Fatalf("committing the same camera twice should be a no-op")
	}

	got, ok := h.Undo(cam(2, 0.5))
	if !ok || got != cam(1, 1) {
		t.Fatalf("first undo = %+v, %v", got, ok)
	}
	got, ok = h.Undo(got)
	if !ok || got != cam(0, 1) {
		t.Fatalf("second undo = %+v, %v", got, ok)
	}
	if _, ok := h.Undo(got); ok {
		t.Fatalf("undo past the start should fail")
	}

	got, ok = h.Redo(got)
	if !ok || got != cam(1, 1) {
		t.Fatalf("redo = %+v, %v", got, ok)
	}
	if !h.CanRedo() {
		t.Fatalf("one more redo should be available")
	}
}

func TestUndoRecordsUncommittedCamera(t *testing.T) {
	h := NewCameraHistory(cam(0, 1), 10)
	got, ok := h.Undo(cam(5, 1))
	if !ok || got != cam(0, 1) {
		t.Fatalf("undo = %+v, %v", got, ok)
	}
	got, ok = h.Redo(got)
	if !ok || got != cam(5, 1) {
		t.Fatalf("redo should return to the uncommitted camera, got %+v, %v", got, ok)
	}
}

func TestNewCommitDropsRedo(t *testing.T) {
	h := NewCameraHistory(cam(0, 1), 10)
	h.Commit(cam(1, 1))
	back, _ := h.Undo(cam(1, 1))
	if _, ok := h.Redo(cam(3, 1)); ok {
		t.Fatalf("redo after the view moved should fail")
	}
	if h.CanRedo() {
		t.Fatalf("redo list should be cleared")
	}
	if back != cam(0, 1) {
		t.Fatalf("undo = %+v", back)
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewCameraHistory(cam(0, 1), 3)
	for i := 1; i <= 5; i++ {
		h.Commit(cam(float32(i), 1))
	}
	cur := cam(5, 1)
	steps := 0
	for {
		next, ok := h.Undo(cur)
		if !ok {
			break
		}
		cur = next
		steps++
	}
	if steps != 3 || cur != cam(2, 1) {
		t.Fatalf("undid %d steps to %+v, want 3 steps to x=2", steps, cur)
	}

	h.Reset(cam(9, 1))
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("reset should drop history")
	}
}
