// Package server exposes the mangler over HTTP and WebSocket.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/Laplace1814/honggfuzz/internal/mutator"
)

// RoundsHeader carries the number of rounds applied to a variant
const RoundsHeader = "X-Mangle-Rounds"

var (
	// ErrEmptySeed is returned for requests without a body
	ErrEmptySeed = errors.New("seed must not be empty")

	// ErrInvalidOverride is returned for malformed query overrides
	ErrInvalidOverride = errors.New("invalid mangle override")
)

// Options configures the server
type Options struct {
	Mangle      mutator.Config
	Dictionary  mutator.Dictionary
	BodyLimit   int
	ReadTimeout time.Duration
	Logger      *slog.Logger
}

// Server serves mangle requests. Every request or websocket session gets its
// own buffer and RNG; the only shared mutable state is the counters.
type Server struct {
	app       *fiber.App
	opts      Options
	logger    *slog.Logger
	startTime time.Time

	requests atomic.Int64
	variants atomic.Int64
	failures atomic.Int64
	rounds   atomic.Int64
	bytesIn  atomic.Int64
	bytesOut atomic.Int64
	clients  atomic.Int64
}

// New creates a server with its routes registered
func New(opts Options) (*Server, error) {
	if err := opts.Mangle.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             opts.BodyLimit,
		ReadTimeout:           opts.ReadTimeout,
	})

	s := &Server{
		app:       app,
		opts:      opts,
		logger:    opts.Logger,
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(cors.New())

	api := s.app.Group("/api")
	api.Post("/mangle", s.handleMangle)
	api.Get("/stats", s.handleStats)
	api.Get("/health", s.handleHealth)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws", websocket.New(s.handleWebSocket))
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// handleMangle mangles the request body once
func (s *Server) handleMangle(c *fiber.Ctx) error {
	s.requests.Add(1)

	cfg, err := s.overrides(func(key string) string { return c.Query(key) })
	if err != nil {
		s.failures.Add(1)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	out, rounds, err := s.mangle(c.Body(), cfg)
	if err != nil {
		s.failures.Add(1)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(RoundsHeader, strconv.Itoa(rounds))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(out)
}

// overrides applies flip_rate and max_size query values to the defaults
func (s *Server) overrides(query func(string) string) (mutator.Config, error) {
	cfg := s.opts.Mangle

	if v := query("flip_rate"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: flip_rate %q", ErrInvalidOverride, v)
		}
		cfg.FlipRate = rate
	}
	if v := query("max_size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: max_size %q", ErrInvalidOverride, v)
		}
		if limit := s.bodyLimit(); size > limit {
			return cfg, fmt.Errorf("%w: max_size %d exceeds body limit %d", ErrInvalidOverride, size, limit)
		}
		cfg.MaxFileSize = size
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidOverride, err)
	}
	return cfg, nil
}

// bodyLimit is the request size fiber enforces
func (s *Server) bodyLimit() int {
	if s.opts.BodyLimit <= 0 {
		return fiber.DefaultBodyLimit
	}
	return s.opts.BodyLimit
}

// mangle runs one pass over a copy of seed
func (s *Server) mangle(seed []byte, cfg mutator.Config) ([]byte, int, error) {
	if len(seed) == 0 {
		return nil, 0, ErrEmptySeed
	}
	s.bytesIn.Add(int64(len(seed)))

	cand := mutator.NewCandidate(cfg.MaxFileSize, seed)
	rounds, err := mutator.MangleContent(mutator.NewSeededRNG(), cand, cfg, s.opts.Dictionary)
	if err != nil {
		return nil, 0, err
	}

	s.variants.Add(1)
	s.rounds.Add(int64(rounds))
	s.bytesOut.Add(int64(cand.Size))
	return cand.Clone(), rounds, nil
}

// handleWebSocket mangles every inbound message and replies with the
// variant as a binary frame. Query overrides apply to the whole session,
// which owns one Mangler and its buffer.
func (s *Server) handleWebSocket(c *websocket.Conn) {
	s.clients.Add(1)
	defer func() {
		s.clients.Add(-1)
		c.Close()
	}()

	cfg, err := s.overrides(func(key string) string { return c.Query(key) })
	if err != nil {
		if werr := c.WriteMessage(websocket.TextMessage, errorMessage(err)); werr != nil {
			s.logger.Debug("WebSocket write failed", slog.Any("error", werr))
		}
		return
	}

	m, err := mutator.NewMangler(cfg, s.opts.Dictionary, nil)
	if err != nil {
		s.logger.Debug("WebSocket session rejected", slog.Any("error", err))
		return
	}

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			break
		}

		msgType, reply := s.reply(m, msg)
		if err := c.WriteMessage(msgType, reply); err != nil {
			s.logger.Debug("WebSocket write failed", slog.Any("error", err))
			break
		}
	}
}

// reply builds the websocket response for one seed
func (s *Server) reply(m *mutator.Mangler, seed []byte) (int, []byte) {
	s.requests.Add(1)
	if len(seed) == 0 {
		s.failures.Add(1)
		return websocket.TextMessage, errorMessage(ErrEmptySeed)
	}
	s.bytesIn.Add(int64(len(seed)))

	res, err := m.MutateResult(seed)
	if err != nil {
		s.failures.Add(1)
		return websocket.TextMessage, errorMessage(err)
	}

	s.variants.Add(1)
	s.rounds.Add(int64(res.Rounds))
	s.bytesOut.Add(int64(len(res.Mutated)))
	return websocket.BinaryMessage, res.Mutated
}

func errorMessage(err error) []byte {
	data, _ := json.Marshal(fiber.Map{"error": err.Error()})
	return data
}

// Stats holds server counters
type Stats struct {
	Requests  int64   `json:"requests"`
	Variants  int64   `json:"variants"`
	Failures  int64   `json:"failures"`
	Rounds    int64   `json:"rounds"`
	BytesIn   int64   `json:"bytes_in"`
	BytesOut  int64   `json:"bytes_out"`
	WSClients int64   `json:"ws_clients"`
	FlipRate  float64 `json:"flip_rate"`
	MaxSize   int     `json:"max_file_size"`
	Uptime    string  `json:"uptime"`
}

// Stats returns a snapshot of the counters
func (s *Server) Stats() Stats {
	return Stats{
		Requests:  s.requests.Load(),
		Variants:  s.variants.Load(),
		Failures:  s.failures.Load(),
		Rounds:    s.rounds.Load(),
		BytesIn:   s.bytesIn.Load(),
		BytesOut:  s.bytesOut.Load(),
		WSClients: s.clients.Load(),
		FlipRate:  s.opts.Mangle.FlipRate,
		MaxSize:   s.opts.Mangle.MaxFileSize,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.Stats())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Start listens on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.logger.Info("Mangle server starting",
		slog.String("addr", addr),
		slog.Float64("flip_rate", s.opts.Mangle.FlipRate),
		slog.Int("max_file_size", s.opts.Mangle.MaxFileSize),
	)
	return s.app.Listen(addr)
}

// Shutdown stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
