package connection

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
)

// responder answers GetStats requests with a StatsResult echoing the
// username, so tests can tell responses apart.
type responder struct {
	ch     *Channel
	silent bool
}

func (r *responder) HandleMessage(m message.Message) error {
	if r.silent {
		return nil
	}
	req, ok := m.(*message.GetStats)
	if !ok {
		return nil
	}
	resp := &message.StatsResult{Result: message.Result{OK: true, Message: req.Username}}
	resp.SetRequestID(req.RequestID())
	return r.ch.Send(resp)
}

// collector records everything delivered to the handler.
type collector struct {
	mu   sync.Mutex
	msgs []message.Message
	seen chan message.Message
}

func newCollector() *collector {
	return &collector{seen: make(chan message.Message, 16)}
}

func (c *collector) HandleMessage(m message.Message) error {
	c.mu.Lock()
	c.msgs = append(c.msgs, m)
	c.mu.Unlock()
	c.seen <- m
	return nil
}

func newPair(t *testing.T, silent bool) (caller *Channel, peer *Channel, callerInbox *collector) {
	t.Helper()
	c1, c2 := net.Pipe()

	callerInbox = newCollector()
	caller = New(c1, WithHandler(callerInbox))

	r := &responder{silent: silent}
	peer = New(c2, WithHandler(r))
	r.ch = peer

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = caller.Run(ctx) }()
	go func() { _ = peer.Run(ctx) }()
	t.Cleanup(caller.Close)
	t.Cleanup(peer.Close)
	return caller, peer, callerInbox
}

func TestCallResolvesMatchingResponse(t *testing.T) {
	caller, _, _ := newPair(t, false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := caller.Call(ctx, &message.GetStats{Username: "anna"}, message.IDStatsResult)
	require.NoError(t, err)
	require.Equal(t, "anna", resp.(*message.StatsResult).Message)
	require.Zero(t, caller.calls.pending())
}

func TestConcurrentCallsNeverCrossDeliver(t *testing.T) {
	caller, _, _ := newPair(t, false)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	got := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			want := fmt.Sprintf("user-%d", i)
			resp, err := caller.Call(ctx, &message.GetStats{Username: want}, message.IDStatsResult)
			if err != nil {
				errs[i] = err
				return
			}
			got[i] = resp.(*message.StatsResult).Message
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		require.Equal(t, fmt.Sprintf("user-%d", i), got[i])
	}
	require.Zero(t, caller.calls.pending())
}

func TestCallTimeoutLeavesNoPendingEntry(t *testing.T) {
	caller, _, _ := newPair(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := caller.Call(ctx, &message.GetStats{Username: "anna"}, message.IDStatsResult)
	require.ErrorIs(t, err, ErrTimeout)
	require.Zero(t, caller.calls.pending())
}

func TestCloseFailsAllPendingCalls(t *testing.T) {
	caller, _, _ := newPair(t, true)

	results := make(chan error, 2)
	for range 2 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_, err := caller.Call(ctx, &message.GetStats{}, message.IDStatsResult)
			results <- err
		}()
	}

	// Give both calls time to register before tearing the connection down.
	time.Sleep(50 * time.Millisecond)
	caller.Close()

	for range 2 {
		select {
		case err := <-results:
			require.ErrorIs(t, err, ErrClosed)
		case <-time.After(2 * time.Second):
			t.Fatal("pending call did not fail after close")
		}
	}
	require.Zero(t, caller.calls.pending())
}

func TestPeerCloseFailsPendingCall(t *testing.T) {
	caller, peer, _ := newPair(t, true)

	result := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := caller.Call(ctx, &message.GetStats{}, message.IDStatsResult)
		result <- err
	}()

	time.Sleep(50 * time.Millisecond)
	peer.Close()

	select {
	case err := <-result:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call did not fail after peer close")
	}
}

func TestFireAndForgetReachesHandler(t *testing.T) {
	caller, peer, inbox := newPair(t, true)

	require.NoError(t, peer.Send(&message.ServerNotice{Text: "maintenance at noon"}))

	select {
	case m := <-inbox.seen:
		notice, ok := m.(*message.ServerNotice)
		require.True(t, ok)
		require.Equal(t, "maintenance at noon", notice.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("notice never delivered")
	}
	require.Zero(t, caller.calls.pending())
}

func TestUnmatchedResponseGoesToHandler(t *testing.T) {
	_, peer, inbox := newPair(t, true)

	// A response nobody is waiting for must not vanish silently.
	resp := &message.StatsResult{Result: message.Result{OK: true}}
	resp.SetRequestID(9999)
	require.NoError(t, peer.Send(resp))

	select {
	case m := <-inbox.seen:
		require.IsType(t, &message.StatsResult{}, m)
	case <-time.After(2 * time.Second):
		t.Fatal("unmatched response never delivered")
	}
}

func TestSendOnClosedChannel(t *testing.T) {
	caller, _, _ := newPair(t, true)
	caller.Close()
	require.ErrorIs(t, caller.Send(&message.ServerNotice{Text: "x"}), ErrClosed)
}
