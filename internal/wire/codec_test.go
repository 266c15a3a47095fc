package wire

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	started := time.UnixMilli(1700000000000)

	var w Writer
	w.Uint8(200)
	w.Uint32(1 << 30)
	w.Uint64(1 << 40)
	w.Bool(true)
	w.Bool(false)
	w.String("Übung macht den Meister")
	w.String("")
	w.Time(started)
	w.Time(time.Time{})
	payload, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(payload)
	u8, err := r.Uint8()
	require.NoError(t, err)
	require.Equal(t, uint8(200), u8)
	u32, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(1<<30), u32)
	u64, err := r.Uint64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), u64)
	b, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b)
	b, err = r.Bool()
	require.NoError(t, err)
	require.False(t, b)
	s, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "Übung macht den Meister", s)
	s, err = r.String()
	require.NoError(t, err)
	require.Empty(t, s)
	ts, err := r.Time()
	require.NoError(t, err)
	require.True(t, ts.Equal(started))
	ts, err = r.Time()
	require.NoError(t, err)
	require.True(t, ts.IsZero())
	require.Zero(t, r.Remaining())
}

func TestCodecShortRead(t *testing.T) {
	r := NewReader([]byte{0, 5, 'a'})
	_, err := r.String()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestStringTooLong(t *testing.T) {
	var w Writer
	w.String(strings.Repeat("x", 70000))
	_, err := w.Bytes()
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestCountGuardsAllocation(t *testing.T) {
	var w Writer
	w.Uint32(1 << 30) // claims a billion elements
	payload, err := w.Bytes()
	require.NoError(t, err)

	r := NewReader(payload)
	_, err = r.Count(4)
	require.ErrorIs(t, err, ErrCountTooLarge)
}
