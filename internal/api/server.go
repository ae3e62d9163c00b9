// Package api exposes the tokenomics engine over HTTP and WebSocket.
package api

import (
	"log"
	"net/http"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"quanta-tokenomics/internal/observability"
	"quanta-tokenomics/internal/reporting"
	"quanta-tokenomics/internal/simulation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Server serves the engine API.
type Server struct {
	runner   *simulation.Runner
	reports  *reporting.Generator
	metrics  *observability.Metrics
	logger   *log.Logger
	origins  []string
	upgrader websocket.Upgrader
	newID    func() string
}

// Options contains configuration for creating a Server.
type Options struct {
	Runner         *simulation.Runner
	Metrics        *observability.Metrics // optional
	Logger         *log.Logger            // optional
	AllowedOrigins []string               // "*" allows any origin
}

// NewServer creates an API server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[api] ", log.LstdFlags)
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		runner:  opts.Runner,
		reports: reporting.NewGenerator(opts.Runner),
		metrics: opts.Metrics,
		logger:  logger,
		origins: origins,
		newID:   uuid.NewString,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler returns the routed handler wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.SetupRoutes())
}

// checkOrigin applies the CORS origin list to WebSocket upgrades.
// Requests without an Origin header (non-browser clients) are allowed.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(s.origins, "*") {
		return true
	}
	return slices.Contains(s.origins, origin)
}
