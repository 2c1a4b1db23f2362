// lenslab: interactive thin-lens imaging lab served over HTTP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/lenslab/internal/config"
	"github.com/teslashibe/lenslab/internal/log"
	"github.com/teslashibe/lenslab/internal/setup"
	"github.com/teslashibe/lenslab/pkg/hub"
	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/scenario"
	"github.com/teslashibe/lenslab/pkg/speech"
	"github.com/teslashibe/lenslab/pkg/web"
)

var version = "0.1.0"

func main() {
	cfg := config.FromEnv()

	port := flag.String("port", cfg.Port, "HTTP server port")
	debug := flag.Bool("debug", false, "Enable debug logging")
	lang := flag.String("lang", "", "Narration language (zh-CN, en-US)")
	noAudio := flag.Bool("no-audio", false, "Disable spoken narration")
	scenarios := flag.String("scenarios", cfg.ScenariosFile, "YAML file with scenario presets")
	static := flag.String("static", "", "Directory with the browser front end")
	flag.Parse()

	level := cfg.LogLevel
	if *debug {
		level = "debug"
	}
	log.Init(level)
	logger := log.L()

	fmt.Println()
	fmt.Println("🔍 Lens Lab v" + version)
	fmt.Println("   Convex and concave lens imaging")
	fmt.Println()

	if err := run(cfg, options{
		port:      *port,
		debug:     *debug,
		lang:      *lang,
		noAudio:   *noAudio,
		scenarios: *scenarios,
		static:    *static,
	}); err != nil {
		logger.Error("lenslab stopped", "error", err)
		os.Exit(1)
	}
}

type options struct {
	port      string
	debug     bool
	lang      string
	noAudio   bool
	scenarios string
	static    string
}

func run(cfg config.Config, opts options) error {
	logger := log.L()

	store, err := prefs.Open(prefs.AppName, logger)
	if err != nil {
		logger.Warn("preferences will not be saved", "error", err)
	}
	saved := store.Get()

	catalog, err := scenario.LoadOrDefault(opts.scenarios)
	if err != nil {
		return fmt.Errorf("load scenarios: %w", err)
	}

	audioEnabled := cfg.AudioEnabled && saved.AudioEnabled && !opts.noAudio
	language := setup.Language(opts.lang, cfg, saved)

	audioHub := hub.New("audio", hub.WithLogger(logger))

	var driver narration.Driver
	provider, err := setup.Speech(cfg, saved.Voice, logger)
	switch {
	case errors.Is(err, setup.ErrNoSpeech):
		logger.Info("no TTS provider configured, narration holds use the reading-time estimate")
	case err != nil:
		return fmt.Errorf("tts: %w", err)
	default:
		defer provider.Close()
		driver = speech.NewDriver(provider, speech.NewHubSink(audioHub, nil), logger)
		logger.Info("narration speech enabled", "provider", provider.Name())
	}

	l := lab.New(
		lab.WithDriver(driver),
		lab.WithLanguage(language),
		lab.WithAudio(audioEnabled),
		lab.WithLogger(logger),
	)

	tutorSvc := setup.Tutor(cfg, logger)
	if tutorSvc != nil {
		defer tutorSvc.Close()
	}

	srv := web.NewServer(web.Config{
		Port:      opts.port,
		Debug:     opts.debug,
		StaticDir: opts.static,
		Lab:       l,
		Scenarios: catalog,
		Tutor:     tutorSvc,
		Prefs:     store,
		AudioHub:  audioHub,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("lab ready",
		"language", language,
		"audio", audioEnabled,
		"tutor", tutorSvc != nil,
		"scenarios", len(catalog.List()),
	)
	fmt.Printf("   API:       http://localhost:%s/api/state\n", opts.port)
	fmt.Printf("   State:     ws://localhost:%s/ws/state\n", opts.port)
	fmt.Printf("   Audio:     ws://localhost:%s/ws/audio\n", opts.port)
	fmt.Println()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return lab.NewRunner(l, lab.DefaultFrameInterval).Run(ctx)
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})

	err = g.Wait()
	fmt.Println("\n👋 Shutting down...")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
