package wire

import (
	"encoding/binary"
	"io"
	"math"
	"time"
)

// Writer accumulates big-endian binary fields for one frame payload.
// Strings carry a u16 byte-length prefix, arrays a u32 element count.
// The zero value is ready to use.
type Writer struct {
	buf []byte
	err error
}

// Bytes returns the accumulated payload and the first error hit while
// encoding, if any.
func (w *Writer) Bytes() ([]byte, error) {
	return w.buf, w.err
}

func (w *Writer) Uint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) Uint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

func (w *Writer) Uint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) Uint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	if len(s) > math.MaxUint16 {
		w.err = ErrStringTooLong
		return
	}
	w.Uint16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Count writes a u32 array element count.
func (w *Writer) Count(n int) {
	w.Uint32(uint32(n))
}

// Time writes t as Unix milliseconds (u64). The zero time is written as 0.
func (w *Writer) Time(t time.Time) {
	if t.IsZero() {
		w.Uint64(0)
		return
	}
	w.Uint64(uint64(t.UnixMilli()))
}

// Reader consumes big-endian binary fields from one frame payload. All read
// methods report exhaustion as io.ErrUnexpectedEOF.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over payload.
func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

func (r *Reader) String() (string, error) {
	n, err := r.Uint16()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Count reads a u32 array element count and rejects counts that could not
// possibly fit in the remaining payload, so a corrupt count cannot drive a
// huge allocation. minElemSize is the smallest encoded size of one element.
func (r *Reader) Count(minElemSize int) (int, error) {
	n, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if minElemSize < 1 {
		minElemSize = 1
	}
	if int64(n)*int64(minElemSize) > int64(r.Remaining()) {
		return 0, ErrCountTooLarge
	}
	return int(n), nil
}

// Time reads a u64 Unix-millisecond timestamp. 0 decodes to the zero time.
func (r *Reader) Time() (time.Time, error) {
	ms, err := r.Uint64()
	if err != nil {
		return time.Time{}, err
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(int64(ms)), nil
}
