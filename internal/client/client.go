// Package client implements the trainer client: it dials the server,
// drives one connection channel, and exposes the role-scoped operations
// as synchronous calls.
package client

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/connection"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Notifier receives server-initiated pushes. Implementations must not
// block; they are invoked from the connection's read loop.
type Notifier interface {
	Notice(text string)
}

// Client is one authenticated (or not yet authenticated) connection to a
// trainer server.
type Client struct {
	addr     string
	timeout  time.Duration
	maxFrame uint32
	notifier Notifier
	logger   logrus.FieldLogger

	ch *connection.Channel
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithAddr sets the server address to dial.
func WithAddr(addr string) Cfg {
	return func(c *Client) error {
		c.addr = addr
		return nil
	}
}

// WithCallTimeout bounds every synchronous call.
func WithCallTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("call timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithNotifier sets the receiver for server pushes.
func WithNotifier(n Notifier) Cfg {
	return func(c *Client) error {
		c.notifier = n
		return nil
	}
}

// WithMaxFrameSize caps inbound frames.
func WithMaxFrameSize(max uint32) Cfg {
	return func(c *Client) error {
		c.maxFrame = max
		return nil
	}
}

// WithLogger sets the client's logger.
func WithLogger(l logrus.FieldLogger) Cfg {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// New creates an unconnected client.
func New(cfgs ...Cfg) (*Client, error) {
	c := &Client{
		timeout:  10 * time.Second,
		maxFrame: wire.DefaultMaxFrameSize,
		logger:   logrus.StandardLogger(),
	}
	for _, cfg := range cfgs {
		if err := cfg(c); err != nil {
			return nil, errors.Wrap(err, "apply client config")
		}
	}
	if c.addr == "" {
		return nil, errors.New("server address required")
	}
	return c, nil
}

// Connect dials the server and starts the read loop. The connection lives
// until Close is called, ctx is canceled, or the server drops it.
func (c *Client) Connect(ctx context.Context) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return errors.Wrap(err, "dial server")
	}
	c.ch = connection.New(conn,
		connection.WithMaxFrameSize(c.maxFrame),
		connection.WithLogger(c.logger),
		connection.WithHandler(c),
	)
	go func() {
		if err := c.ch.Run(ctx); err != nil {
			c.logger.WithError(err).Debug("connection finished")
		}
	}()
	return nil
}

// Close drops the connection. Pending calls fail with connection.ErrClosed.
func (c *Client) Close() {
	if c.ch != nil {
		c.ch.Close()
	}
}

// Done is closed when the connection dies.
func (c *Client) Done() <-chan struct{} {
	return c.ch.Done()
}

// HandleMessage receives everything the correlator did not consume.
func (c *Client) HandleMessage(m message.Message) error {
	switch msg := m.(type) {
	case *message.ServerNotice:
		if c.notifier != nil {
			c.notifier.Notice(msg.Text)
		} else {
			c.logger.WithField("text", msg.Text).Info("server notice")
		}
		return nil
	default:
		return errors.Errorf("unexpected message %T", m)
	}
}

// call sends req and awaits the response kind wantID within the configured
// timeout.
func (c *Client) call(ctx context.Context, req message.Correlated, wantID uint32) (message.Message, error) {
	if c.ch == nil {
		return nil, errors.New("client is not connected")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.ch.Call(ctx, req, wantID)
}
