package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, 7, []byte("hello")))
	require.NoError(t, WriteFrame(&buf, 9, nil))

	fr := NewFrameReader(&buf, 0)

	id, payload, err := fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, uint32(7), id)
	require.Equal(t, []byte("hello"), payload)

	id, payload, err = fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, uint32(9), id)
	require.Empty(t, payload)

	_, _, err = fr.ReadFrame()
	require.Equal(t, io.EOF, err)
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, 1, make([]byte, 2048)))

	fr := NewFrameReader(&buf, 1024)
	_, _, err := fr.ReadFrame()
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestFrameTruncatedIsClosed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, 3, []byte("abcdef")))

	// Cut the stream mid-payload: the peer went away, not a decode error.
	cut := bytes.NewReader(buf.Bytes()[:buf.Len()-3])
	fr := NewFrameReader(cut, 0)
	_, _, err := fr.ReadFrame()
	require.Equal(t, io.EOF, err)
}

func TestFrameTruncatedHeaderIsClosed(t *testing.T) {
	fr := NewFrameReader(bytes.NewReader([]byte{0, 0, 0}), 0)
	_, _, err := fr.ReadFrame()
	require.Equal(t, io.EOF, err)
}
