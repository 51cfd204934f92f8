// Package feed serves a read-only websocket stream of match snapshots.
// Spectator clients receive every published snapshot as JSON; the feed
// accepts no inbound commands.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/samdwyer/strikeband/internal/match"
)

// writeTimeout bounds a single snapshot write to one client.
const writeTimeout = 5 * time.Second

// Broadcaster fans out snapshots to connected spectator clients.
type Broadcaster struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{conns: make(map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades the request to a websocket and keeps the client
// registered until it disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("feed: accept failed: %v", err)
		return
	}

	b.mu.Lock()
	b.conns[conn] = struct{}{}
	b.mu.Unlock()

	// Drain (and discard) client frames so pings are answered; returns
	// when the client goes away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	b.drop(conn, websocket.StatusNormalClosure)
}

// Publish sends a snapshot to every connected client, dropping clients
// whose writes fail. Safe to use as a match.Listener.
func (b *Broadcaster) Publish(snapshot match.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("feed: marshal failed: %v", err)
		return
	}

	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.mu.Unlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			b.drop(conn, websocket.StatusGoingAway)
		}
	}
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	b.conns = make(map[*websocket.Conn]struct{})
	b.mu.Unlock()

	for _, conn := range conns {
		conn.Close(websocket.StatusGoingAway, "feed shutting down")
	}
}

// drop unregisters and closes one connection.
func (b *Broadcaster) drop(conn *websocket.Conn, code websocket.StatusCode) {
	b.mu.Lock()
	_, present := b.conns[conn]
	delete(b.conns, conn)
	b.mu.Unlock()
	if present {
		conn.Close(code, "")
	}
}
