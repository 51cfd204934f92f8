package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/samdwyer/strikeband/internal/match"
)

func TestPublishWithoutClients(t *testing.T) {
	b := NewBroadcaster()
	b.Publish(match.Snapshot{}) // Must not panic or block.
	b.Close()
}

func TestPublishReachesClient(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	server := httptest.NewServer(b)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+server.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	snapshot := match.Snapshot{
		Match: match.MatchView{ID: "m-1", Status: match.StatusActive, Round: 3},
	}

	// Registration happens on the server goroutine; retry briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		b.mu.Lock()
		registered := len(b.conns) > 0
		b.mu.Unlock()
		if registered {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the broadcaster")
		}
		time.Sleep(10 * time.Millisecond)
	}

	b.Publish(snapshot)

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	var got match.Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Match.ID != "m-1" || got.Match.Round != 3 {
		t.Errorf("received snapshot = %+v, want id m-1 round 3", got.Match)
	}
}
