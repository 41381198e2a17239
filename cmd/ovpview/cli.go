package main

import (
	"flag"
)

type CLIOpts struct {
	doLog      bool
	verbose    bool
	configPath string
	exportPath string
	width      int
	height     int
	fit        bool
	backend    string
	password   string
}

func parseCLIOpts() CLIOpts {
	var opt CLIOpts
	flag.BoolVar(&opt.doLog, "log", false, "Print log output to stderr")
	flag.BoolVar(&opt.verbose, "v", false, "Log per-frame details (implies -log)")
	flag.StringVar(&opt.configPath, "config", "", "Scene file to open (.toml or .ovpz). Defaults to the user config file")
	flag.StringVar(&opt.exportPath, "export", "", "Render one frame to this PNG file and exit")
	flag.IntVar(&opt.width, "width", 1280, "Window or export width in pixels")
	flag.IntVar(&opt.height, "height", 800, "Window or export height in pixels")
	flag.BoolVar(&opt.fit, "fit", false, "Frame all polygons before the first render")
	flag.StringVar(&opt.backend, "backend", "ebiten", "Window backend: "+backendNames())
	flag.StringVar(&opt.password, "password", "", "Password for encrypted scene files")
	flag.Parse()

	if opt.verbose {
		opt.doLog = true
	}
	return opt
}
