package connection

import (
	"sync"

	"github.com/Feddis08/ITP-Rechtschreibtrainer-sub000/internal/message"
)

// pendingCall is a single-use completion handle for one outstanding
// request. It is fulfilled exactly once: by the read loop delivering the
// matching response, or closed when the connection dies.
type pendingCall struct {
	want uint32
	ch   chan message.Message
}

// callTable tracks outstanding correlated requests for one connection.
// Request ids come from a monotonically increasing uint64 starting at 1;
// 0 means "unset" on the wire.
type callTable struct {
	mu     sync.Mutex
	nextID uint64
	calls  map[uint64]*pendingCall
	closed bool
}

func newCallTable() *callTable {
	return &callTable{calls: make(map[uint64]*pendingCall)}
}

// add registers a new pending call expecting the given response wire id and
// returns the assigned request id plus the completion channel.
func (t *callTable) add(want uint32) (uint64, <-chan message.Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, nil, ErrClosed
	}
	t.nextID++
	id := t.nextID
	pc := &pendingCall{want: want, ch: make(chan message.Message, 1)}
	t.calls[id] = pc
	return id, pc.ch, nil
}

// complete fulfils the pending call registered under id, if any, and
// reports whether the response was consumed.
func (t *callTable) complete(id uint64, resp message.Message) bool {
	t.mu.Lock()
	pc, ok := t.calls[id]
	if ok {
		delete(t.calls, id)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	pc.ch <- resp
	return true
}

// drop removes an abandoned entry (timeout, canceled context, send
// failure) so nothing leaks.
func (t *callTable) drop(id uint64) {
	t.mu.Lock()
	delete(t.calls, id)
	t.mu.Unlock()
}

// failAll closes every completion channel and refuses further adds.
// Waiters observe the closed channel as ErrClosed.
func (t *callTable) failAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, pc := range t.calls {
		close(pc.ch)
		delete(t.calls, id)
	}
}

// pending returns the number of outstanding entries.
func (t *callTable) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.calls)
}
