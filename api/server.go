// Package api pushes pipeline notifications to UI clients over WebSocket.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/matt-g-everett/scenetx/stream"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// statusMessage is the JSON shape of text notifications sent to clients.
type statusMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Bytes     int    `json:"bytes,omitempty"`
	Succeeded int    `json:"succeeded,omitempty"`
	Total     int    `json:"total,omitempty"`
	Quality   int    `json:"quality,omitempty"`
}

// An Api serves a WebSocket stream of pipeline events: status and send
// results as JSON text messages, encoded frames as binary messages.
type Api struct {
	notifier *stream.Notifier
	listen   string

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewApi creates a server that relays events from the notifier.
func NewApi(notifier *stream.Notifier, listen string) *Api {
	a := new(Api)
	a.notifier = notifier
	a.listen = listen
	a.clients = make(map[*websocket.Conn]struct{})
	return a
}

// Serve blocks, accepting WebSocket clients and relaying events to them.
func (a *Api) Serve() {
	events, cancel := a.notifier.Subscribe(64)
	defer cancel()
	go a.relay(events)

	http.HandleFunc("/ws", a.handleWs)
	fs := http.FileServer(http.Dir("client/dist"))
	http.Handle("/", fs)

	log.Printf("api listening on %s", a.listen)
	if err := http.ListenAndServe(a.listen, nil); err != nil {
		log.Printf("api server stopped: %v", err)
	}
}

func (a *Api) handleWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	a.mu.Lock()
	a.clients[conn] = struct{}{}
	a.mu.Unlock()

	// Drain reads so pings and closes are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				a.drop(conn)
				return
			}
		}
	}()
}

func (a *Api) relay(events <-chan interface{}) {
	for event := range events {
		switch e := event.(type) {
		case stream.FrameEncoded:
			a.broadcast(websocket.BinaryMessage, e.Data)
		case stream.SendResult:
			a.broadcastJSON(statusMessage{
				Type:      "sent",
				Bytes:     e.Bytes,
				Succeeded: e.Succeeded,
				Total:     e.Total,
				Quality:   e.Quality,
			})
		case stream.Status:
			a.broadcastJSON(statusMessage{Type: "status", Text: e.Text})
		case stream.RenderError:
			a.broadcastJSON(statusMessage{Type: "renderError", Text: e.Err.Error()})
		}
	}
}

func (a *Api) broadcastJSON(msg statusMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	a.broadcast(websocket.TextMessage, data)
}

func (a *Api) broadcast(messageType int, data []byte) {
	a.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(a.clients))
	for c := range a.clients {
		conns = append(conns, c)
	}
	a.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteMessage(messageType, data); err != nil {
			a.drop(c)
		}
	}
}

func (a *Api) drop(conn *websocket.Conn) {
	a.mu.Lock()
	if _, ok := a.clients[conn]; ok {
		delete(a.clients, conn)
		conn.Close()
	}
	a.mu.Unlock()
}
