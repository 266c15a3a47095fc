package connection

import "errors"

var (
	// ErrClosed is returned to senders and to every pending call when the
	// connection goes away.
	ErrClosed = errors.New("connection closed")
	// ErrTimeout is returned by Call when no matching response arrives
	// within the caller's deadline.
	ErrTimeout = errors.New("timed out waiting for response")
	// ErrUnexpectedResponse is returned by Call when the peer answers a
	// request id with a different response kind than the request expects.
	ErrUnexpectedResponse = errors.New("response kind does not match request")
)
