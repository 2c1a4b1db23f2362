// Package web serves the lab over HTTP: a JSON control API, a live state
// feed and the narration audio stream for the browser front end.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/lenslab/pkg/hub"
	"github.com/teslashibe/lenslab/pkg/lab"
	"github.com/teslashibe/lenslab/pkg/prefs"
	"github.com/teslashibe/lenslab/pkg/scenario"
	"github.com/teslashibe/lenslab/pkg/tutor"
)

// ShutdownTimeout bounds a graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// Config wires a Server. Lab is required; the rest are optional.
type Config struct {
	Port  string
	Debug bool

	// StaticDir is served at / when set.
	StaticDir string

	Lab       *lab.Lab
	Scenarios *scenario.Catalog
	Tutor     tutor.Tutor
	Prefs     *prefs.Store

	// AudioHub carries narration clips; see speech.HubSink.
	AudioHub *hub.Hub

	Logger *slog.Logger
}

// Server is the lab's HTTP front end.
type Server struct {
	app  *fiber.App
	port string

	lab       *lab.Lab
	scenarios *scenario.Catalog
	tutor     tutor.Tutor
	prefs     *prefs.Store

	stateHub *hub.Hub
	audioHub *hub.Hub

	logger *slog.Logger
}

// NewServer creates the server and subscribes it to lab changes.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Scenarios == nil {
		cfg.Scenarios = scenario.Default()
	}
	if cfg.AudioHub == nil {
		cfg.AudioHub = hub.New("audio", hub.WithLogger(log))
	}

	s := &Server{
		port:      cfg.Port,
		lab:       cfg.Lab,
		scenarios: cfg.Scenarios,
		tutor:     cfg.Tutor,
		prefs:     cfg.Prefs,
		stateHub:  hub.New("state", hub.WithRetain(), hub.WithLogger(log)),
		audioHub:  cfg.AudioHub,
		logger:    log.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Lens Lab",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.Debug {
		app.Use(logger.New())
	}

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Post("/lens", s.handleLens)
	api.Post("/focal", s.handleFocal)
	api.Post("/distance", s.handleDistance)
	api.Post("/height", s.handleHeight)
	api.Post("/audio", s.handleAudio)
	api.Post("/language", s.handleLanguage)
	api.Post("/play", s.handlePlay)
	api.Post("/pause", s.handlePause)
	api.Post("/toggle", s.handleToggle)
	api.Post("/reset", s.handleReset)
	api.Get("/scenarios", s.handleListScenarios)
	api.Post("/scenarios/:id", s.handleApplyScenario)
	api.Post("/tutor/ask", s.handleAsk)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/state", websocket.New(s.hubHandler(s.stateHub)))
	app.Get("/ws/audio", websocket.New(s.hubHandler(s.audioHub)))

	s.app = app

	s.lab.OnChange(func(snap lab.Snapshot) {
		if err := s.stateHub.BroadcastJSON(snap); err != nil {
			s.logger.Warn("failed to broadcast state", "error", err)
		}
	})
	// Seed the retained state for the first subscriber.
	_ = s.stateHub.BroadcastJSON(s.lab.Snapshot())

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// StateHub returns the hub that carries lab snapshots.
func (s *Server) StateHub() *hub.Hub {
	return s.stateHub
}

// AudioHub returns the hub that carries narration audio.
func (s *Server) AudioHub() *hub.Hub {
	return s.audioHub
}

// Run listens on the configured port until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return err
	}
	s.logger.Info("web server listening", "url", "http://localhost:"+s.port)
	return s.Serve(ctx, ln)
}

// Serve runs the hubs and serves on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.stateHub.Run(ctx)
	go s.audioHub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- s.app.Listener(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.logger.Info("web server stopped")
	return nil
}

func (s *Server) hubHandler(h *hub.Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		client := hub.NewClient(h, conn)
		if client == nil {
			return
		}
		client.Run()
	}
}
