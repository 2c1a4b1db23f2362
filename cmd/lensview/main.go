// lensview: desktop viewer for the lens lab with spoken narration.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/teslashibe/lenslab/internal/config"
	"github.com/teslashibe/lenslab/internal/log"
	"github.com/teslashibe/lenslab/internal/setup"
	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/scenario"
	"github.com/teslashibe/lenslab/pkg/speech"
	"github.com/teslashibe/lenslab/pkg/speech/ebitenaudio"
)

func main() {
	cfg := config.FromEnv()

	lang := flag.String("lang", "", "Narration language (zh-CN, en-US)")
	audio := flag.Bool("audio", true, "Speak narration through the speakers")
	fontPath := flag.String("font", "", "TrueType font for subtitles (needed for Chinese)")
	preset := flag.String("scenario", "", "Scenario to load at start")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	store, err := prefs.Open(prefs.AppName, logger)
	if err != nil {
		logger.Warn("preferences will not be saved", "error", err)
	}
	saved := store.Get()
	language := setup.Language(*lang, cfg, saved)

	var face *text.GoTextFace
	if *fontPath != "" {
		face, err = loadFont(*fontPath, 16)
		if err != nil {
			logger.Error("failed to load font", "error", err)
			os.Exit(1)
		}
	} else if language == narration.Chinese {
		logger.Warn("no -font given, Chinese subtitles will not render")
	}

	var (
		driver narration.Driver
		sink   *ebitenaudio.Sink
	)
	if *audio {
		provider, err := setup.Speech(cfg, saved.Voice, logger)
		switch {
		case errors.Is(err, setup.ErrNoSpeech):
			logger.Info("no TTS provider configured, subtitles only")
		case err != nil:
			logger.Error("tts setup failed", "error", err)
			os.Exit(1)
		default:
			defer provider.Close()
			sink = ebitenaudio.New()
			driver = speech.NewDriver(provider, sink, logger)
		}
	}

	l := lab.New(
		lab.WithDriver(driver),
		lab.WithLanguage(language),
		lab.WithAudio(*audio && cfg.AudioEnabled && saved.AudioEnabled),
		lab.WithLogger(logger),
	)

	if *preset != "" {
		catalog, err := scenario.LoadOrDefault(cfg.ScenariosFile)
		if err != nil {
			logger.Error("failed to load scenarios", "error", err)
			os.Exit(1)
		}
		s, err := catalog.Get(*preset)
		if err != nil {
			logger.Error("unknown scenario", "scenario", *preset)
			os.Exit(1)
		}
		l.ApplyScenario(s)
	}

	var levels levelSource
	if sink != nil {
		levels = sink
	}
	game := NewGame(l, store, levels, face, logger)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Lens Lab")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}

func loadFont(path string, size float64) (*text.GoTextFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}, nil
}
