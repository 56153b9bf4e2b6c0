package websocketPkg

import (
	"DrowsyGuard/internal/entity"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReceivesStatuses(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, text := range []string{entity.StatusScanning, "Drowsy"} {
			if err := conn.WriteJSON(map[string]interface{}{"data": entity.Status{Text: text}}); err != nil {
				return
			}
		}
		// Hold the connection until the client goes away.
		_, _, _ = conn.ReadMessage()
	}))
	defer srv.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewStatusClient(logger, "ws"+strings.TrimPrefix(srv.URL, "http"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- client.Watch(ctx, func(s entity.Status) {
			mu.Lock()
			got = append(got, s.Text)
			n := len(got)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{entity.StatusScanning, "Drowsy"}, got)
}
