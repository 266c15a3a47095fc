// Package message defines the closed set of wire messages exchanged between
// trainer clients and the server, and the registry that maps wire
// identifiers to message kinds.
//
// Correlated messages (requests and responses) carry an 8-byte big-endian
// request id at the head of their payload, before any message-specific
// fields.
package message

import (
	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/wire"
)

// Kind classifies how a message participates in the protocol.
type Kind uint8

const (
	// KindFireAndForget messages expect no reply.
	KindFireAndForget Kind = iota
	// KindRequest messages carry a request id and expect a matching response.
	KindRequest
	// KindResponse messages answer the request with the same id.
	KindResponse
)

// Message is one unit of traffic. Concrete types encode and decode their
// own payload; the frame identifier comes from WireID.
type Message interface {
	WireID() uint32
	Kind() Kind
	Encode(w *wire.Writer)
	Decode(r *wire.Reader) error
}

// Correlated is implemented by requests and responses, which carry a
// request id linking the pair.
type Correlated interface {
	Message
	RequestID() uint64
	SetRequestID(id uint64)
}

// correlated holds the request id shared by request and response payloads.
type correlated struct {
	reqID uint64
}

func (c *correlated) RequestID() uint64      { return c.reqID }
func (c *correlated) SetRequestID(id uint64) { c.reqID = id }

func (c *correlated) encodeHead(w *wire.Writer) {
	w.Uint64(c.reqID)
}

func (c *correlated) decodeHead(r *wire.Reader) error {
	id, err := r.Uint64()
	if err != nil {
		return err
	}
	c.reqID = id
	return nil
}

// request is embedded by all request messages.
type request struct{ correlated }

func (request) Kind() Kind { return KindRequest }

// response is embedded by all response messages.
type response struct{ correlated }

func (response) Kind() Kind { return KindResponse }

// notice is embedded by fire-and-forget messages.
type notice struct{}

func (notice) Kind() Kind { return KindFireAndForget }

// Result is the success flag and human-readable outcome carried by every
// response.
type Result struct {
	OK      bool
	Message string
}

// Fail marks the result as a failure with the given text.
func (r *Result) Fail(text string) {
	r.OK = false
	r.Message = text
}

func (r *Result) encode(w *wire.Writer) {
	w.Bool(r.OK)
	w.String(r.Message)
}

func (r *Result) decode(rd *wire.Reader) error {
	ok, err := rd.Bool()
	if err != nil {
		return err
	}
	text, err := rd.String()
	if err != nil {
		return err
	}
	r.OK = ok
	r.Message = text
	return nil
}

// Encode renders m into a frame payload.
func Encode(m Message) ([]byte, error) {
	var w wire.Writer
	m.Encode(&w)
	return w.Bytes()
}
