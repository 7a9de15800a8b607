package booking

import (
	"net/http"
	"sync"
	"time"

	"wastewise/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

type updateMessage struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// subscriber serializes writes to one connection; gorilla allows a single writer.
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) send(msg updateMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

// Hub fans availability updates out to websocket clients watching a day.
type Hub struct {
	upgrader    websocket.Upgrader
	mu          sync.Mutex
	subscribers map[string][]*subscriber
	log         *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// Origins are already filtered by the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[string][]*subscriber),
		log:         log,
	}
}

// HandleWS handles GET /api/special-collections/live?date=YYYY-MM-DD
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	day, err := ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}
	key := day.Format(dateLayout)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debugw("websocket upgrade failed", "err", err)
		return
	}
	// Drop the deadline the HTTP server set for the handshake request.
	conn.SetReadDeadline(time.Time{})

	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[key] = append(h.subscribers[key], sub)
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(key, sub)
	conn.Close()
}

func (h *Hub) remove(key string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[key]
	kept := make([]*subscriber, 0, len(subs))
	for _, s := range subs {
		if s != sub {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		delete(h.subscribers, key)
		return
	}
	h.subscribers[key] = kept
}

// NotifyDay tells every client watching day to refresh its availability.
func (h *Hub) NotifyDay(day time.Time) {
	key := day.UTC().Format(dateLayout)
	h.broadcast(key, updateMessage{Type: "update", Date: key})
}

// broadcast writes outside the hub lock so a slow client only delays its own day.
func (h *Hub) broadcast(key string, msg updateMessage) {
	h.mu.Lock()
	subs := append([]*subscriber(nil), h.subscribers[key]...)
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(msg); err != nil {
			sub.conn.Close()
			h.remove(key, sub)
		}
	}
}

// Close drops every subscriber; used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, subs := range h.subscribers {
		for _, sub := range subs {
			sub.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			sub.conn.Close()
		}
		delete(h.subscribers, key)
	}
}

func (h *Hub) subscriberCount(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[key])
}
