// Package bridge relays EIP-1193 requests to wallets injected in a browser
// tab. The served page opens one websocket per injected provider and
// forwards requests and events both ways.
package bridge

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/codecrypto-org/viem/internal/domain/model"
	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

//go:embed page.html
var page []byte

const defaultHelloTimeout = 10 * time.Second

type Option func(*Server)

// WithHelloTimeout bounds how long a new connection may take to announce
// itself.
func WithHelloTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.helloTimeout = d
		}
	}
}

// WithCheckOrigin overrides the websocket origin check. The default accepts
// only same-host pages.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

type Server struct {
	upgrader     websocket.Upgrader
	logger       *slog.Logger
	helloTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	changed  chan struct{}
}

func NewServer(logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		logger:       logger.With("component", "wallet_bridge"),
		helloTimeout: defaultHelloTimeout,
		sessions:     make(map[string]*Session),
		changed:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler serves the relay page at / and the websocket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	return mux
}

// Providers returns the connected sessions in connection order.
func (s *Server) Providers() []wallet.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Server) snapshotLocked() []wallet.Provider {
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].connectedAt.Before(sessions[j].connectedAt)
	})
	out := make([]wallet.Provider, len(sessions))
	for i, sess := range sessions {
		out[i] = sess
	}
	return out
}

// Await blocks until a connected provider carries flag or ctx is done.
func (s *Server) Await(ctx context.Context, flag string) (wallet.Provider, error) {
	for {
		s.mu.Lock()
		p, err := wallet.Select(s.snapshotLocked(), flag)
		changed := s.changed
		s.mu.Unlock()
		if err == nil {
			return p, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("await %s provider: %w", flag, errors.Join(model.ErrProviderNotFound, ctx.Err()))
		case <-changed:
		}
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	info, err := s.readHello(conn)
	if err != nil {
		s.logger.Warn("bridge handshake failed", "remote", r.RemoteAddr, "error", err)
		_ = conn.Close()
		return
	}

	sess := newSession(info, conn, s.logger)
	s.register(sess)
	sess.logger.Info("wallet connected", "flags", info.Flags)

	err = sess.readLoop()
	s.unregister(sess)
	sess.close()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		sess.logger.Warn("wallet disconnected", "error", err)
		return
	}
	sess.logger.Info("wallet disconnected")
}

func (s *Server) readHello(conn *websocket.Conn) (wallet.Info, error) {
	if err := conn.SetReadDeadline(time.Now().Add(s.helloTimeout)); err != nil {
		return wallet.Info{}, err
	}
	var msg message
	if err := conn.ReadJSON(&msg); err != nil {
		return wallet.Info{}, fmt.Errorf("read hello: %w", err)
	}
	if msg.Type != typeHello || msg.Info == nil {
		return wallet.Info{}, fmt.Errorf("expected hello frame, got %q", msg.Type)
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return wallet.Info{}, err
	}

	info := *msg.Info
	info.ID = uuid.NewString()
	if info.Name == "" {
		info.Name = "injected"
	}
	if info.Flags == nil {
		info.Flags = map[string]bool{}
	}
	return info, nil
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.info.ID] = sess
	s.notifyLocked()
	metrics.BridgeSessions.Inc()
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.info.ID]; !ok {
		return
	}
	delete(s.sessions, sess.info.ID)
	s.notifyLocked()
	metrics.BridgeSessions.Dec()
}

func (s *Server) notifyLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}
