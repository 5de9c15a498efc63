package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codecrypto-org/viem/internal/metrics"
	"github.com/codecrypto-org/viem/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	eventBuffer  = 8
)

// Session is one browser-side provider connected over a websocket.
type Session struct {
	info        wallet.Info
	conn        *websocket.Conn
	logger      *slog.Logger
	connectedAt time.Time

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan message
	closed  bool

	events chan []common.Address
}

var _ wallet.Provider = (*Session)(nil)

func newSession(info wallet.Info, conn *websocket.Conn, logger *slog.Logger) *Session {
	return &Session{
		info:        info,
		conn:        conn,
		logger:      logger.With("session", info.ID, "wallet", info.Name),
		connectedAt: time.Now(),
		pending:     make(map[uint64]chan message),
		events:      make(chan []common.Address, eventBuffer),
	}
}

func (s *Session) Info() wallet.Info {
	return s.info
}

func (s *Session) AccountsChanged() <-chan []common.Address {
	return s.events
}

// Request relays method to the browser wallet and waits for its answer. The
// wallet may hold the request open while the user decides.
func (s *Session) Request(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		metrics.BridgeRequestsTotal.WithLabelValues(method, "disconnected").Inc()
		return nil, errDisconnected()
	}
	s.nextID++
	id := s.nextID
	ch := make(chan message, 1)
	s.pending[id] = ch
	s.mu.Unlock()

	if err := s.write(message{Type: typeRequest, ID: id, Method: method, Params: params}); err != nil {
		s.forget(id)
		metrics.BridgeRequestsTotal.WithLabelValues(method, "write_error").Inc()
		return nil, fmt.Errorf("relay %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		s.forget(id)
		metrics.BridgeRequestsTotal.WithLabelValues(method, "canceled").Inc()
		return nil, ctx.Err()
	case resp := <-ch:
		if resp.Error != nil {
			metrics.BridgeRequestsTotal.WithLabelValues(method, "error").Inc()
			return nil, resp.Error
		}
		metrics.BridgeRequestsTotal.WithLabelValues(method, "ok").Inc()
		return resp.Result, nil
	}
}

func (s *Session) forget(id uint64) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Session) write(msg message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// readLoop dispatches frames until the connection fails.
func (s *Session) readLoop() error {
	for {
		var msg message
		if err := s.conn.ReadJSON(&msg); err != nil {
			return err
		}
		switch msg.Type {
		case typeResponse:
			s.mu.Lock()
			ch, ok := s.pending[msg.ID]
			delete(s.pending, msg.ID)
			s.mu.Unlock()
			if !ok {
				s.logger.Debug("response for unknown request", "id", msg.ID)
				continue
			}
			ch <- msg
		case typeEvent:
			s.handleEvent(msg)
		default:
			s.logger.Debug("ignoring frame", "type", msg.Type)
		}
	}
}

func (s *Session) handleEvent(msg message) {
	switch msg.Event {
	case eventAccountsChanged:
		addrs, err := wallet.DecodeAddresses(msg.Data)
		if err != nil {
			s.logger.Warn("malformed accountsChanged payload", "error", err)
			return
		}
		s.publish(addrs)
	case eventChainChanged:
		s.logger.Info("wallet chain changed", "chain_id", string(msg.Data))
	default:
		s.logger.Debug("ignoring event", "event", msg.Event)
	}
}

// publish never blocks the read loop. Each notification carries the full
// set, so when the consumer lags the oldest queued set is replaced.
func (s *Session) publish(addrs []common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.events <- addrs:
			return
		default:
		}
		select {
		case <-s.events:
		default:
		}
	}
}

func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	pending := s.pending
	s.pending = make(map[uint64]chan message)
	close(s.events)
	s.mu.Unlock()

	for _, ch := range pending {
		ch <- message{Type: typeResponse, Error: errDisconnected()}
	}
	_ = s.conn.Close()
}
