// Package hub hosts the router-side channel: backend nodes connect over
// websocket, register under a node name, and become sendable destinations.
//
// Ownership boundary:
// - the peer map (the destination registry the router reads)
// - the send primitive (one binary frame per relay payload)
// - hand-off of inbound request payloads to the router
package hub

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/wire"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 50 * time.Second
	sendBufferSize = 32
	maxPayloadSize = 256 * 1024
)

// Sink consumes decoded inbound requests. The router satisfies this.
type Sink interface {
	Route(req wire.ForwardRequest)
}

type peer struct {
	name string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.send)
	})
}

// Hub keeps the name-to-peer map. Keys are lowercased; the canonical name a
// node registered with is preserved for logs and listings.
type Hub struct {
	log      zerolog.Logger
	channel  string
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	peers map[string]*peer

	sink Sink
}

func New(log zerolog.Logger, channel string) *Hub {
	return &Hub{
		log:     log,
		channel: channel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		peers: make(map[string]*peer),
	}
}

// SetSink installs the inbound request consumer. Must be called before the
// hub accepts connections.
func (h *Hub) SetSink(sink Sink) {
	h.sink = sink
}

// Channel is the logical channel id this hub serves.
func (h *Hub) Channel() string {
	return h.channel
}

// ServeChannel upgrades one node connection. The node declares its name and
// the channel id in the query string; a channel mismatch is refused before
// the upgrade.
func (h *Hub) ServeChannel(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("node"))
	channel := strings.TrimSpace(r.URL.Query().Get("channel"))
	if name == "" {
		http.Error(w, "missing node name", http.StatusBadRequest)
		return
	}
	if channel != h.channel {
		http.Error(w, "unknown channel", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("node", name).Msg("websocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxPayloadSize)

	p := &peer{name: name, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(p)

	go h.writePump(p)
	h.readPump(p)
}

func (h *Hub) register(p *peer) {
	key := strings.ToLower(p.name)
	h.mu.Lock()
	old := h.peers[key]
	h.peers[key] = p
	h.mu.Unlock()
	if old != nil {
		old.close()
		h.log.Info().Str("node", old.name).Msg("replaced stale registration")
	}
	h.log.Info().Str("node", p.name).Str("channel", h.channel).Msg("destination registered")
}

func (h *Hub) unregister(p *peer) {
	key := strings.ToLower(p.name)
	h.mu.Lock()
	if h.peers[key] == p {
		delete(h.peers, key)
	}
	h.mu.Unlock()
	p.close()
	h.log.Info().Str("node", p.name).Msg("destination disconnected")
}

func (h *Hub) readPump(p *peer) {
	defer h.unregister(p)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		kind, data, err := p.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		h.handleInbound(p.name, data)
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := p.conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleInbound decodes one request payload and hands it to the router.
// Malformed payloads are logged and dropped with no partial processing.
func (h *Hub) handleInbound(source string, data []byte) {
	req, err := wire.DecodeRequest(data)
	if err != nil {
		h.log.Warn().Err(err).Str("source", source).Msg("malformed request payload dropped")
		return
	}
	h.log.Info().
		Str("source", source).
		Str("target", req.TargetServer).
		Str("command", req.Command).
		Str("executor", req.ExecutorName).
		Bool("console", req.ExecuteAsConsole).
		Msg("forward request received")
	if h.sink != nil {
		h.sink.Route(req)
	}
}

// Lookup resolves a destination name ignoring case, returning the canonical
// registered name.
func (h *Hub) Lookup(name string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.peers[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return p.name, true
}

// All lists canonical destination names in stable order.
func (h *Hub) All() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.peers))
	for _, p := range h.peers {
		names = append(names, p.name)
	}
	sort.Strings(names)
	return names
}

// Send queues one payload for a destination. False means the channel id did
// not match, the destination is unknown, or its outbox is full; there is no
// retry at this layer.
func (h *Hub) Send(channel, destination string, payload []byte) bool {
	if channel != h.channel {
		return false
	}
	// The read lock is held across the enqueue so the peer cannot be
	// unregistered (and its outbox closed) mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.peers[strings.ToLower(destination)]
	if !ok {
		return false
	}
	select {
	case p.send <- payload:
		return true
	default:
		return false
	}
}
