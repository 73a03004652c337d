// Package server runs the websocket preview feed: clients send a seed and
// receive the generated map as JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/hexdelve/internal/config"
	"github.com/lawnchairsociety/hexdelve/internal/logger"
	"github.com/lawnchairsociety/hexdelve/internal/mapgen"
	"github.com/lawnchairsociety/hexdelve/internal/rng"
)

var errBadRequest = errors.New("malformed request")

// generateTimeout bounds a single generation run.
const generateTimeout = 5 * time.Second

type Server struct {
	cfg         config.PreviewConfig
	generator   *mapgen.Generator
	connLimiter *ConnLimiter
	httpServer  *http.Server

	mu       sync.Mutex
	clients  map[*WebSocketClient]struct{}
	served   int
	shutdown chan struct{}
	once     sync.Once
}

// NewServer creates a preview feed serving maps from gen.
func NewServer(cfg config.PreviewConfig, gen *mapgen.Generator) *Server {
	return &Server{
		cfg:         cfg,
		generator:   gen,
		connLimiter: NewConnLimiter(cfg.MaxPerIP, cfg.MaxTotal),
		clients:     make(map[*WebSocketClient]struct{}),
		shutdown:    make(chan struct{}),
	}
}

// Handler returns the HTTP handler serving the feed at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	return mux
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to start preview feed: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	srv := s.httpServer
	s.mu.Unlock()

	logger.Info("Preview feed listening", "address", listener.Addr().String())
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes open ones.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		srv := s.httpServer
		for c := range s.clients {
			c.Close()
		}
		served := s.served
		s.mu.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
		logger.Info("Preview feed stopped", "maps_served", served)
	})
	return err
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	go s.handleWebSocketConnection(wsConn, clientIP)
}

// handleWebSocketConnection answers requests until the client disconnects.
func (s *Server) handleWebSocketConnection(wsConn *websocket.Conn, clientIP string) {
	client := NewWebSocketClient(wsConn, s.cfg.MaxMessageSize)

	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		s.connLimiter.Release(clientIP)
		client.Close()
	}()

	logger.Info("Preview client connected", "remote_addr", client.RemoteAddr())

	for {
		req, err := client.ReadRequest()
		if errors.Is(err, errBadRequest) {
			if err := client.WriteJSON(ErrorView{Error: err.Error()}); err != nil {
				return
			}
			continue
		}
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				select {
				case <-s.shutdown:
				default:
					logger.Debug("Preview client read failed", "remote_addr", client.RemoteAddr(), "error", err)
				}
			}
			return
		}

		if err := client.WriteJSON(s.answer(req)); err != nil {
			logger.Debug("Preview client write failed", "remote_addr", client.RemoteAddr(), "error", err)
			return
		}
	}
}

// answer runs one generation for req. Every call builds its own grid and
// random stream, so concurrent clients never share state.
func (s *Server) answer(req Request) any {
	seed := rng.RandomSeed()
	if req.Seed != "" {
		parsed, err := rng.ParseSeed(req.Seed)
		if err != nil {
			return ErrorView{Error: err.Error()}
		}
		seed = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	m, err := s.generator.Generate(ctx, seed)
	if err != nil {
		logger.Warning("Preview generation failed", "seed", rng.FormatSeed(seed), "error", err)
		return ErrorView{Error: err.Error()}
	}

	s.mu.Lock()
	s.served++
	s.mu.Unlock()
	return NewMapView(m)
}
