package main

import (
	"fmt"
	"sort"
	"strings"

	"ovpview/internal/app"
	"ovpview/internal/viewport"
)

// session is what a backend needs to open a window on a scene.
type session struct {
	opt       CLIOpts
	settings  *viewport.Settings
	scenePath string
}

type runner func(session) error

var backends = map[string]runner{
	"ebiten": runEbiten,
}

func backendNames() string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func runBackend(name string, s session) error {
	run, ok := backends[name]
	if !ok {
		return fmt.Errorf("unknown backend %q (available: %s)", name, backendNames())
	}
	return run(s)
}

func runEbiten(s session) error {
	a := app.New(app.Options{
		Title:     windowTitle(s.scenePath),
		Width:     s.opt.width,
		Height:    s.opt.height,
		Settings:  s.settings,
		ScenePath: s.scenePath,
		Password:  s.opt.password,
		Fit:       s.opt.fit,
	})
	return a.Run()
}
