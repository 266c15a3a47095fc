// Package connection owns one socket end of the trainer protocol: a
// dedicated read loop decoding frames, serialized writes, and the
// request/response correlator that gives callers synchronous semantics
// over the asynchronous stream.
package connection

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Handler receives every inbound message that is not consumed by a pending
// call. A returned error is logged; it does not terminate the read loop.
type Handler interface {
	HandleMessage(m message.Message) error
}

// Option configures a Channel.
type Option func(*Channel)

// WithMaxFrameSize caps inbound frame payloads.
func WithMaxFrameSize(max uint32) Option {
	return func(c *Channel) { c.maxFrame = max }
}

// WithLogger sets the channel's logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Channel) { c.logger = l }
}

// WithRegistry overrides the default message registry. Both peers must use
// the same registration order.
func WithRegistry(r *message.Registry) Option {
	return func(c *Channel) { c.registry = r }
}

// WithHandler binds the inbound message handler.
func WithHandler(h Handler) Option {
	return func(c *Channel) { c.handler = h }
}

// Channel wraps one net.Conn with framing, dispatch and correlation.
// Send and Call are safe for concurrent use; Run must be called exactly
// once.
type Channel struct {
	conn     net.Conn
	frames   *wire.FrameReader
	registry *message.Registry
	maxFrame uint32
	logger   logrus.FieldLogger

	writeMu sync.Mutex
	calls   *callTable

	handler Handler

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// New wraps conn. The handler may be bound later with SetHandler, but must
// be in place before Run.
func New(conn net.Conn, opts ...Option) *Channel {
	c := &Channel{
		conn:     conn,
		registry: message.Default,
		maxFrame: wire.DefaultMaxFrameSize,
		logger:   logrus.StandardLogger(),
		calls:    newCallTable(),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	c.frames = wire.NewFrameReader(bufio.NewReader(conn), c.maxFrame)
	c.logger = c.logger.WithField("remote", conn.RemoteAddr())
	return c
}

// SetHandler binds the inbound handler. Must happen before Run.
func (c *Channel) SetHandler(h Handler) {
	c.handler = h
}

// RemoteAddr returns the peer address.
func (c *Channel) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Run drives the read loop until the peer disconnects, a protocol error
// occurs, or ctx is canceled. It always releases the connection's
// resources and fails all pending calls before returning.
func (c *Channel) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer c.Close()
		return c.readLoop()
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			c.Close()
			return nil
		case <-c.done:
			return nil
		}
	})
	return g.Wait()
}

// Close tears the connection down, failing every pending call with
// ErrClosed. Safe to call multiple times.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.conn.Close()
		c.calls.failAll()
	})
}

// IsClosed reports whether the channel has been torn down.
func (c *Channel) IsClosed() bool {
	return c.closed.Load()
}

// Done is closed when the channel dies.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// readLoop decodes frames and dispatches them. Responses matching a
// pending call complete that call; everything else goes to the handler.
// Handler failures are logged and the loop continues; transport and decode
// failures are fatal to the connection.
func (c *Channel) readLoop() error {
	for {
		id, payload, err := c.frames.ReadFrame()
		if err != nil {
			if err == io.EOF || c.closed.Load() {
				return nil
			}
			c.logger.WithError(err).Error("protocol failure, closing connection")
			return errors.Wrap(err, "read frame")
		}
		m, err := c.registry.Decode(id, payload)
		if err != nil {
			c.logger.WithError(err).WithField("wire_id", id).Error("undecodable frame, closing connection")
			return errors.Wrap(err, "decode frame")
		}
		if m.Kind() == message.KindResponse {
			resp := m.(message.Correlated)
			if c.calls.complete(resp.RequestID(), m) {
				continue
			}
			// No waiter; hand it to the handler like any other message.
		}
		c.deliver(m)
	}
}

func (c *Channel) deliver(m message.Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("panic", r).WithField("wire_id", m.WireID()).Error("handler panicked")
		}
	}()
	if c.handler == nil {
		c.logger.WithField("wire_id", m.WireID()).Warn("no handler bound, dropping message")
		return
	}
	if err := c.handler.HandleMessage(m); err != nil {
		c.logger.WithError(err).WithField("wire_id", m.WireID()).Warn("message handling failed")
	}
}

// Send encodes and writes one message. Concurrent senders are serialized
// by the write lock so frames never interleave.
func (c *Channel) Send(m message.Message) error {
	if c.closed.Load() {
		return ErrClosed
	}
	payload, err := message.Encode(m)
	if err != nil {
		return errors.Wrap(err, "encode message")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := wire.WriteFrame(c.conn, m.WireID(), payload); err != nil {
		if c.closed.Load() {
			return ErrClosed
		}
		return errors.Wrap(err, "write frame")
	}
	return nil
}

// Call stamps req with a fresh request id, sends it, and blocks the caller
// (never the read loop) until the response registered under wantID
// arrives, ctx expires, or the connection closes. The pending entry is
// removed on every path.
func (c *Channel) Call(ctx context.Context, req message.Correlated, wantID uint32) (message.Message, error) {
	id, ch, err := c.calls.add(wantID)
	if err != nil {
		return nil, err
	}
	req.SetRequestID(id)
	if err := c.Send(req); err != nil {
		c.calls.drop(id)
		return nil, err
	}
	select {
	case m, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		if m.WireID() != wantID {
			return nil, errors.Wrapf(ErrUnexpectedResponse, "got wire id %d, want %d", m.WireID(), wantID)
		}
		return m, nil
	case <-ctx.Done():
		c.calls.drop(id)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	case <-c.done:
		c.calls.drop(id)
		return nil, ErrClosed
	}
}
