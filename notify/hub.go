package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rustyeddy/quantdesk/id"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Envelope tags every hub message so clients can route it.
type Envelope struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

// Hub broadcasts notifications (and any other published payload) to
// every connected websocket client. Slow consumers lose messages rather
// than stall publishers.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]struct{}
	broadcast chan []byte
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan []byte, buffer),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Drain reads so close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Run delivers queued messages until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					c.Close()
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues v under kind. It drops the message when the queue is full.
func (h *Hub) Publish(kind string, v any) {
	data, err := json.Marshal(Envelope{Kind: kind, Data: v})
	if err != nil {
		log.Printf("hub publish %s: %v", kind, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

func (h *Hub) Notify(title, message string, sev Severity) {
	h.Publish("notification", Notification{
		ID:       id.New(),
		Title:    title,
		Message:  message,
		Severity: sev,
		Time:     time.Now(),
	})
}

// ListenAndServe serves the hub on addr at /ws until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("notification hub listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
