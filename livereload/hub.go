// Package livereload pushes rebuilds into open browser sessions: full page
// reloads, in-place stylesheet injection, and transient notifications.
package livereload

import (
	"bufio"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/thatguystone/siteflow/internal/metrics"
)

// Paths the hub and its client script are served under
const (
	EventsPath = "/__siteflow/livereload"
	ScriptPath = "/__siteflow/livereload.js"
)

// Event kinds
const (
	KindReload = "reload"
	KindInject = "inject"
	KindNotify = "notify"
)

// An Event is sent to every connected browser
type Event struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	clientBuffer = 8
	heartbeat    = 30 * time.Second
)

type client struct {
	ch   chan Event
	done chan struct{}
}

// Hub fans events out to every browser connected to it. Events sent while no
// browser is connected are dropped.
type Hub struct {
	metrics *metrics.Recorder

	mtx     sync.RWMutex
	clients map[int]*client
	nextID  int
	closed  bool
}

// NewHub creates a new Hub. m may be nil.
func NewHub(m *metrics.Recorder) *Hub {
	return &Hub{
		metrics: m,
		clients: map[int]*client{},
	}
}

// Reload makes every browser reload the page
func (h *Hub) Reload() {
	h.Broadcast(Event{Kind: KindReload})
}

// Inject replaces the asset served at path in every browser. Only
// stylesheets can be swapped in place; browsers fall back to a full reload
// for anything else.
func (h *Hub) Inject(path string) {
	h.Broadcast(Event{Kind: KindInject, Path: path})
}

// Notify shows a message in every browser
func (h *Hub) Notify(msg string) {
	h.Broadcast(Event{Kind: KindNotify, Message: msg})
}

// Broadcast sends an event to every connected browser. A browser that isn't
// keeping up misses the event rather than blocking everyone else.
func (h *Hub) Broadcast(ev Event) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	if h.closed {
		return
	}

	h.metrics.IncReloadEvent(ev.Kind)

	for _, c := range h.clients {
		select {
		case c.ch <- ev:
		default:
		}
	}
}

// Clients is the number of connected browsers
func (h *Hub) Clients() int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	return len(h.clients)
}

// Shutdown disconnects every browser and refuses new ones
func (h *Hub) Shutdown() {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return
	}

	h.closed = true
	for id, c := range h.clients {
		close(c.done)
		delete(h.clients, id)
	}

	h.metrics.SetClients(0)
}

func (h *Hub) add() (int, *client, bool) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.closed {
		return 0, nil, false
	}

	c := &client{
		ch:   make(chan Event, clientBuffer),
		done: make(chan struct{}),
	}

	id := h.nextID
	h.nextID++
	h.clients[id] = c
	h.metrics.SetClients(len(h.clients))

	return id, c, true
}

func (h *Hub) remove(id int) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	delete(h.clients, id)
	h.metrics.SetClients(len(h.clients))
}

// ServeHTTP implements the server-sent events stream
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	id, c, ok := h.add()
	if !ok {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}

	defer h.remove(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		_, err := bw.WriteString(s)
		if err == nil {
			err = bw.Flush()
		}

		if err != nil {
			return false
		}

		flusher.Flush()
		return true
	}

	if !send(": connected\n\n") {
		return
	}

	hb := time.NewTicker(heartbeat)
	defer hb.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-c.done:
			return

		case <-hb.C:
			if !send(": ping\n\n") {
				return
			}

		case ev := <-c.ch:
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}

			if !send("data: " + string(b) + "\n\n") {
				return
			}
		}
	}
}
