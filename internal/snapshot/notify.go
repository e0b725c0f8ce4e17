package snapshot

import "sync"

// changeHub fans snapshot ETags out to the SSE stream handlers. Delivery is
// best effort: a listener that is not draining its channel misses the swap
// rather than stalling Update.
type changeHub struct {
	mu        sync.Mutex
	listeners map[chan string]struct{}
}

var changes = changeHub{listeners: make(map[chan string]struct{})}

// Subscribe registers a change listener. The channel receives the ETag of
// every snapshot swap; the returned func unsubscribes and closes it, and is
// safe to call more than once.
func Subscribe() (<-chan string, func()) {
	ch, unsub := changes.subscribe()
	return ch, unsub
}

func (h *changeHub) subscribe() (chan string, func()) {
	ch := make(chan string, 1)
	h.mu.Lock()
	h.listeners[ch] = struct{}{}
	h.mu.Unlock()

	unsub := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.listeners[ch]; ok {
			delete(h.listeners, ch)
			close(ch)
		}
	}
	return ch, unsub
}

func (h *changeHub) broadcast(etag string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.listeners {
		select {
		case ch <- etag:
		default: // slow listener, skip
		}
	}
}
