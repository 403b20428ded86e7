package ledger

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	domain "entitlement-service/internal/domain/ledger"
	"entitlement-service/internal/pkg/errs"
)

const wsWriteWait = 10 * time.Second

var errStreamClosed = errs.New("update stream closed")

// updateStream is one live websocket subscription to a user's transaction
// updates. Transport failures are absorbed inside Next: it redials with
// exponential backoff until the context is cancelled, so the listener only
// ever sees records or cancellation.
type updateStream struct {
	endpoint string
	base     time.Duration
	max      time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newUpdateStream(endpoint string, reconnectBase, reconnectMax time.Duration, logger *slog.Logger) *updateStream {
	return &updateStream{
		endpoint: endpoint,
		base:     reconnectBase,
		max:      reconnectMax,
		logger:   logger,
	}
}

type ackMessage struct {
	Type          string `json:"type"`
	TransactionID string `json:"transaction_id"`
}

func (s *updateStream) Next(ctx context.Context) (domain.Record, error) {
	delay := s.base
	for {
		if err := ctx.Err(); err != nil {
			return domain.Record{}, err
		}

		conn, err := s.ensureConn(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Record{}, ctx.Err()
			}
			s.logger.Warn("failed to dial ledger update stream",
				"endpoint", s.endpoint, "error", err.Error(), "retry_in", delay.String())
			if !sleepCtx(ctx, withJitter(delay)) {
				return domain.Record{}, ctx.Err()
			}
			delay = nextDelay(delay, s.max)
			continue
		}
		delay = s.base

		// Unblock the read when the context is cancelled mid-receive.
		readDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-readDone:
			}
		}()

		var dto recordDTO
		err = conn.ReadJSON(&dto)
		close(readDone)
		if err != nil {
			s.dropConn(conn)
			if ctx.Err() != nil {
				return domain.Record{}, ctx.Err()
			}
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return domain.Record{}, errStreamClosed
			}
			s.logger.Warn("ledger update stream read failed, reconnecting",
				"endpoint", s.endpoint, "error", err.Error())
			continue
		}

		return toRecord(dto), nil
	}
}

func (s *updateStream) Ack(ctx context.Context, record domain.Record) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return errs.New("cannot finalize record: stream not connected")
	}

	deadline := time.Now().Add(wsWriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return errs.Wrap(err, "failed to set write deadline")
	}
	msg := ackMessage{Type: "ack", TransactionID: record.TransactionID.String()}
	return errs.Wrap(conn.WriteJSON(msg), "failed to finalize record")
}

func (s *updateStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *updateStream) ensureConn(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, errStreamClosed
	}
	if s.conn != nil {
		conn := s.conn
		s.mu.Unlock()
		return conn, nil
	}
	s.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		conn.Close()
		return nil, errStreamClosed
	}
	s.conn = conn
	return conn, nil
}

func (s *updateStream) dropConn(conn *websocket.Conn) {
	conn.Close()
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
}

func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		next = max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	jitter := float64(d) * 0.1 * (rand.Float64()*2 - 1)
	return d + time.Duration(jitter)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
