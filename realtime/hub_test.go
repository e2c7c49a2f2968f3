package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gorilla/websocket"
)

// dialTestClient upgrades a real websocket pair and registers the server side
// with the hub
func dialTestClient(t *testing.T, hub *Hub, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(&Client{UserID: userID, Conn: conn})
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// The handler registers after the handshake; wait until the hub sees it
	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		registered := len(hub.clients[userID]) > 0
		hub.mu.RUnlock()
		if registered {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesOnlyOwner(t *testing.T) {
	hub := NewHub()
	ownerConn := dialTestClient(t, hub, 7)
	otherConn := dialTestClient(t, hub, 8)

	hub.Broadcast(7, MealUpdate{
		MealID:   42,
		Event:    "status_change",
		Status:   models.StatusPreparing,
		Message:  "Your Dal Rice Bowl is being prepared",
		Occurred: time.Now(),
	})

	_ = ownerConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := ownerConn.ReadMessage()
	if err != nil {
		t.Fatalf("owner read: %v", err)
	}
	var update MealUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if update.MealID != 42 || update.Status != models.StatusPreparing {
		t.Errorf("unexpected update: %+v", update)
	}

	// The other user's socket must stay silent
	_ = otherConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := otherConn.ReadMessage(); err == nil {
		t.Error("other user received someone else's update")
	}
}

// Concurrent broadcasts to one user hit the same connection; the per-client
// write lock must keep them from interleaving (gorilla panics on a second
// concurrent writer).
func TestConcurrentBroadcastsSameUser(t *testing.T) {
	hub := NewHub()
	conn := dialTestClient(t, hub, 7)

	const messages = 20
	var wg sync.WaitGroup
	for i := 0; i < messages; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			hub.Broadcast(7, MealUpdate{
				MealID:   uint(n),
				Event:    "status_change",
				Occurred: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < messages; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		var update MealUpdate
		if err := json.Unmarshal(msg, &update); err != nil {
			t.Fatalf("message %d corrupted: %v", i, err)
		}
	}
}
