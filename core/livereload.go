package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const reloadWriteTimeout = time.Second

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
	Clients() int
}

// LiveReloader holds the sockets of pages opened in debug mode and sends each
// of them "reload" when a watched file changes.
type LiveReloader struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
}

var NewLiveReloader = func() LiveReloaderInterface {
	return &LiveReloader{
		conns: map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	lr.add(conn)

	// Drain reads so close frames are processed; the page never sends data.
	go func() {
		defer lr.drop(conn)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

func (lr *LiveReloader) BroadcastReload() {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	deadline := time.Now().Add(reloadWriteTimeout)
	for conn := range lr.conns {
		_ = conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			conn.Close()
			delete(lr.conns, conn)
		}
	}
}

func (lr *LiveReloader) Clients() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.conns)
}

func (lr *LiveReloader) add(conn *websocket.Conn) {
	lr.mu.Lock()
	lr.conns[conn] = struct{}{}
	lr.mu.Unlock()
}

func (lr *LiveReloader) drop(conn *websocket.Conn) {
	lr.mu.Lock()
	delete(lr.conns, conn)
	lr.mu.Unlock()
	conn.Close()
}
