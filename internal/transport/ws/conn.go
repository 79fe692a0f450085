package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/client/internal/protocol"
)

const (
	writeWait        = 10 * time.Second
	handshakeTimeout = 15 * time.Second
)

// DeliverFunc receives every decoded server message in arrival order.
type DeliverFunc func(ctx context.Context, msg protocol.Inbound) error

// Conn is one websocket connection to the room server. Send and Shutdown may be
// called from any goroutine; ReadLoop must have a single caller.
type Conn struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

var dialer = websocket.Dialer{
	Proxy:            http.ProxyFromEnvironment,
	HandshakeTimeout: handshakeTimeout,
}

func Dial(ctx context.Context, url string, logger *slog.Logger) (*Conn, error) {
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}

	return New(conn, logger), nil
}

func New(conn *websocket.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		conn:   conn,
		logger: logger,
		closed: make(chan struct{}),
	}
}

func (c *Conn) Send(msg protocol.Outbound) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	c.logger.Debug("sent message", "tag", msg.Tag(), "payload", string(data))
	return nil
}

// ReadLoop reads frames until the connection fails or is closed. Frames that do not
// decode are logged and skipped.
func (c *Conn) ReadLoop(ctx context.Context, deliver DeliverFunc) error {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return ErrClosed
			default:
			}

			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return fmt.Errorf("%w: %w", ErrClosed, err)
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		if typ != websocket.TextMessage {
			c.logger.Debug("skipping non-text frame", "type", typ)
			continue
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			c.logger.Debug("skipping undecodable frame", "error", err, "payload", string(data))
			continue
		}

		if err := deliver(ctx, msg); err != nil {
			return fmt.Errorf("failed to deliver %s: %w", msg.Tag(), err)
		}
	}
}

// Shutdown says Goodbye, sends a normal close frame and closes the connection.
func (c *Conn) Shutdown() error {
	err := c.Send(protocol.Goodbye{})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	if err != nil {
		c.logger.Debug("failed to say goodbye", "error", err)
	}

	return c.Close()
}

// Close sends a normal close frame and closes the connection. Only the first call
// does anything.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		close(c.closed)
		werr := c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		c.writeMu.Unlock()

		if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			c.logger.Debug("failed to send close frame", "error", werr)
		}

		err = c.conn.Close()
	})

	return err
}
