package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsStateChanges(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	conn := dialTestHub(t, hub)

	// Registration races the broadcast; give the hub a beat.
	time.Sleep(50 * time.Millisecond)
	hub.NotifyStateChanged("history")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != EventStateChanged || event.Kind != "history" {
		t.Fatalf("event = %+v", event)
	}
}

func TestHubSurvivesClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	conn := dialTestHub(t, hub)

	time.Sleep(50 * time.Millisecond)
	conn.Close()
	time.Sleep(50 * time.Millisecond)

	// Must not panic or block with the client gone.
	hub.NotifyStateChanged("order")
}
