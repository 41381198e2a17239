package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies file contents for change detection.
type Fingerprint [blake2b.Size256]byte

func FingerprintOf(b []byte) Fingerprint {
	return blake2b.Sum256(b)
}

// Watcher polls a scene file and reports when its contents change.
// Modification times only gate the hash; an edit that restores the old
// bytes is not a change.
type Watcher struct {
	path    string
	modTime time.Time
	sum     Fingerprint
	seen    bool
}

func NewWatcher(path string) *Watcher {
	return &Watcher{path: path}
}

func (w *Watcher) Path() string { return w.path }

// Changed reports whether the file differs from the last call. The
// first successful call records a baseline and returns false. A missing
// file is not an error.
func (w *Watcher) Changed() (bool, error) {
	st, err := os.Stat(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if w.seen && st.ModTime().Equal(w.modTime) {
		return false, nil
	}
	b, err := os.ReadFile(w.path)
	if err != nil {
		return false, err
	}
	sum := FingerprintOf(b)
	changed := w.seen && sum != w.sum
	w.modTime, w.sum, w.seen = st.ModTime(), sum, true
	return changed, nil
}
