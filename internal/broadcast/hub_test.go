package broadcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestTopicNaming(t *testing.T) {
	if got := Topic(42); got != "user.42" {
		t.Fatalf("Topic(42) = %q, want user.42", got)
	}
}

func TestRegisterUnregisterTracksSubscribers(t *testing.T) {
	hub := NewHub(quietLogger())

	a := &websocket.Conn{}
	b := &websocket.Conn{}

	hub.Register(7, a)
	hub.Register(7, b)
	hub.Register(8, a)

	if got := hub.Subscribers(7); got != 2 {
		t.Fatalf("Subscribers(7) = %d, want 2", got)
	}
	if got := hub.Subscribers(8); got != 1 {
		t.Fatalf("Subscribers(8) = %d, want 1", got)
	}

	hub.Unregister(7, a)
	if got := hub.Subscribers(7); got != 1 {
		t.Fatalf("Subscribers(7) after unregister = %d, want 1", got)
	}

	hub.Unregister(7, b)
	if got := hub.Subscribers(7); got != 0 {
		t.Fatalf("Subscribers(7) after final unregister = %d, want 0", got)
	}
}

func TestPublishWithNoSubscribersIsNotAnError(t *testing.T) {
	hub := NewHub(quietLogger())

	err := hub.Publish(context.Background(), 99, notify.BroadcastMessage{Type: "application.received"})
	if err != nil {
		t.Fatalf("Publish to empty topic: %v", err)
	}
}

// One recipient with several dispatch workers publishing at once, plus the
// connection handler pinging, must never produce overlapping writes on the
// socket.
func TestPublishSerializesConcurrentWriters(t *testing.T) {
	hub := NewHub(quietLogger())

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(7, conn)
		serverConns <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	clientConn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer clientConn.Close()

	serverConn := <-serverConns

	// Drain frames on the client side so server writes never block.
	go func() {
		for {
			if _, _, err := clientConn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				err := hub.Publish(context.Background(), 7, notify.BroadcastMessage{
					Type: "application.status_updated",
				})
				if err != nil {
					t.Errorf("Publish: %v", err)
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			if err := hub.Ping(7, serverConn); err != nil {
				t.Errorf("Ping: %v", err)
				return
			}
		}
	}()

	wg.Wait()

	if got := hub.Subscribers(7); got != 1 {
		t.Fatalf("Subscribers(7) after publishing = %d, want 1", got)
	}
}

func TestUnregisterUnknownConnIsNoop(t *testing.T) {
	hub := NewHub(quietLogger())
	hub.Unregister(7, &websocket.Conn{})

	if got := hub.Subscribers(7); got != 0 {
		t.Fatalf("Subscribers(7) = %d, want 0", got)
	}
}
