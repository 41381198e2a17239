package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ovpview/internal/app"
	"ovpview/internal/config"
	"ovpview/internal/viewport"
)

func main() {
	opt := parseCLIOpts()
	log := setupLogging(opt)

	path := opt.configPath
	if path == "" {
		path = config.Path()
		created, err := config.EnsureDefault(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Couldn't write default config: %v\n", err)
			os.Exit(1)
		}
		if created {
			log.Info("wrote default config", slog.String("path", path))
		}
	}

	settings, err := loadSettings(path, opt.password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Couldn't load %s: %v\n", path, err)
		os.Exit(1)
	}
	log.Info("scene loaded", slog.String("path", path), slog.Int("polygons", len(settings.Polygons)))

	if opt.exportPath != "" {
		if err := exportPNG(opt, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		log.Info("exported", slog.String("path", opt.exportPath))
		return
	}

	if err := runBackend(opt.backend, session{opt: opt, settings: settings, scenePath: path}); err != nil {
		fmt.Fprintf(os.Stderr, "ovpview failed: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(opt CLIOpts) *slog.Logger {
	if !opt.doLog {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := slog.LevelInfo
	if opt.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	viewport.SetLogger(log.With(slog.String("component", "viewport")))
	return log
}

func loadSettings(path, password string) (*viewport.Settings, error) {
	f, err := config.LoadWithOptions(path, config.LoadOptions{Password: password})
	if err != nil {
		if errors.Is(err, config.ErrPasswordRequired) {
			return nil, fmt.Errorf("%w (use -password)", err)
		}
		return nil, err
	}
	return f.Settings()
}

func exportPNG(opt CLIOpts, s *viewport.Settings) (err error) {
	out, err := os.Create(opt.exportPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return app.Export(out, s, app.ExportOptions{Width: opt.width, Height: opt.height, Fit: opt.fit})
}

func windowTitle(path string) string {
	if path == "" {
		return "ovpview"
	}
	return "ovpview - " + filepath.Base(path)
}
