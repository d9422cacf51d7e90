package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"sanogestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, hub *Hub) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Query("personnel"), 10, 64)
		ServeWs(hub, c, uint(id))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestPublishReachesClient(t *testing.T) {
	hub := NewHub([]string{"http://localhost:5173"})
	go hub.Run()
	defer hub.Stop()

	url := newFeedServer(t, hub)
	header := http.Header{"Origin": {"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishJournal(service.JournalEntryResponse{ID: 7, Action: "CREATION_TRADING", Username: "alice"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got service.JournalEntryResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, uint(7), got.ID)
	assert.Equal(t, "CREATION_TRADING", got.Action)
	assert.Equal(t, "alice", got.Username)
}

func TestForeignOriginRejected(t *testing.T) {
	hub := NewHub([]string{"http://localhost:5173"})
	go hub.Run()
	defer hub.Stop()

	url := newFeedServer(t, hub)
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
	assert.Zero(t, hub.Clients())
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.PublishJournal(service.JournalEntryResponse{ID: uint(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishJournal blocked without a running hub")
	}
}

func TestStopDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()

	url := newFeedServer(t, hub)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Stop()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectPersonnelClosesOnlyTheirFeeds(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Stop()

	url := newFeedServer(t, hub)
	gone, _, err := websocket.DefaultDialer.Dial(url+"?personnel=5", nil)
	require.NoError(t, err)
	defer gone.Close()
	kept, _, err := websocket.DefaultDialer.Dial(url+"?personnel=6", nil)
	require.NoError(t, err)
	defer kept.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	hub.DisconnectPersonnel(5)
	assert.Equal(t, 1, hub.Clients())

	require.NoError(t, gone.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = gone.ReadMessage()
	assert.Error(t, err)

	hub.PublishJournal(service.JournalEntryResponse{ID: 9, Action: "MODIFICATION_PERSONNEL"})
	require.NoError(t, kept.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := kept.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), "MODIFICATION_PERSONNEL")
}
