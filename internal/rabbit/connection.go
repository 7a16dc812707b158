package rabbit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrNotConnected is returned when no connection is established.
	ErrNotConnected = errors.New("rabbit: not connected")
	// ErrConnectionClosed is returned when the broker closed the
	// connection underneath us.
	ErrConnectionClosed = errors.New("rabbit: connection is closed")
	// ErrConnectTimeout is returned when dialing exceeds the deadline.
	ErrConnectTimeout = errors.New("rabbit: connection timeout")
)

// ConnectionError carries context about a failed connection operation.
type ConnectionError struct {
	Op        string
	URL       string // sanitized
	Err       error
	Timestamp time.Time
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("rabbit connection error: %s failed: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Connection manages a single AMQP connection.
type Connection struct {
	url         string
	conn        *amqp.Connection
	dialTimeout time.Duration
	logger      *slog.Logger
	mu          sync.RWMutex
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = logger
	}
}

// WithDialTimeout sets the dial deadline.
func WithDialTimeout(timeout time.Duration) ConnectionOption {
	return func(c *Connection) {
		c.dialTimeout = timeout
	}
}

// NewConnection creates an unconnected Connection for url.
func NewConnection(url string, options ...ConnectionOption) *Connection {
	c := &Connection{
		url:         url,
		dialTimeout: 30 * time.Second,
		logger:      slog.Default(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Connect dials the broker. Calling Connect on a live connection is a
// no-op.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && !c.conn.IsClosed() {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	connChan := make(chan *amqp.Connection, 1)
	errChan := make(chan error, 1)

	go func() {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			errChan <- err
			return
		}
		connChan <- conn
	}()

	select {
	case conn := <-connChan:
		c.conn = conn
		c.logger.Info("connected to broker", "url", SanitizeURL(c.url))
		return nil

	case err := <-errChan:
		return &ConnectionError{
			Op:        "connect",
			URL:       SanitizeURL(c.url),
			Err:       err,
			Timestamp: time.Now(),
		}

	case <-dialCtx.Done():
		return &ConnectionError{
			Op:        "connect",
			URL:       SanitizeURL(c.url),
			Err:       ErrConnectTimeout,
			Timestamp: time.Now(),
		}
	}
}

// Channel opens a channel on the current connection.
func (c *Connection) Channel() (*amqp.Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}
	if c.conn.IsClosed() {
		return nil, ErrConnectionClosed
	}

	return c.conn.Channel()
}

// IsConnected reports whether the connection is live.
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && !c.conn.IsClosed()
}

// Close shuts the connection down.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	return err
}

// SanitizeURL strips enough of a connection URL to keep credentials out
// of logs.
func SanitizeURL(url string) string {
	if len(url) > 20 {
		return url[:10] + "***" + url[len(url)-10:]
	}
	return "***"
}
