// Package wire implements the length-prefixed binary framing used between
// trainer clients and the server, plus the primitive field codec shared by
// all message kinds.
//
// A frame is [identifier: u32 BE][length: u32 BE][payload: length bytes].
package wire

import (
	"encoding/binary"
	"io"
)

// HeaderSize is the fixed size of a frame header in bytes.
const HeaderSize = 8

// DefaultMaxFrameSize caps payload allocation for a single frame (1 MiB).
const DefaultMaxFrameSize = 1 << 20

// FrameReader reads whole frames from a byte stream. It is not safe for
// concurrent use; a connection owns exactly one.
type FrameReader struct {
	r   io.Reader
	max uint32
}

// NewFrameReader wraps r. A max of 0 selects DefaultMaxFrameSize.
func NewFrameReader(r io.Reader, max uint32) *FrameReader {
	if max == 0 {
		max = DefaultMaxFrameSize
	}
	return &FrameReader{r: r, max: max}
}

// ReadFrame blocks until a complete frame is available and returns its
// identifier and payload. A stream that ends cleanly between frames yields
// io.EOF; a stream cut mid-frame also yields io.EOF, because a peer closing
// the socket is a connection-closed condition, not a decode error. A length
// above the configured maximum yields ErrFrameTooLarge before any payload
// allocation.
func (fr *FrameReader) ReadFrame() (id uint32, payload []byte, err error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); err != nil {
		return 0, nil, closedOr(err)
	}
	id = binary.BigEndian.Uint32(header[0:4])
	length := binary.BigEndian.Uint32(header[4:8])
	if length > fr.max {
		return 0, nil, ErrFrameTooLarge
	}
	if length == 0 {
		return id, nil, nil
	}
	payload = make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return 0, nil, closedOr(err)
	}
	return id, payload, nil
}

func closedOr(err error) error {
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}

// WriteFrame writes one frame to w as a single Write call, so a w that is
// itself atomic per call (a net.Conn) never interleaves frames. Callers that
// share a connection must still serialize WriteFrame invocations.
func WriteFrame(w io.Writer, id uint32, payload []byte) error {
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], id)
	binary.BigEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}
