// Package hub fans activity events out to connected websocket clients and
// remembers the most recent ones for the admin activity feed.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/utils"
)

// Event types
const (
	EventActivity     = "activity"
	EventAnnouncement = "announcement"
)

// Activity kinds
const (
	KindComplaint    = "complaint"
	KindService      = "service"
	KindLeave        = "leave"
	KindPayment      = "payment"
	KindAnnouncement = "announcement"
	KindUser         = "user"
)

const DefaultHistory = 50

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Activity struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Action string    `json:"action"`
	Type   string    `json:"type"`
	Time   time.Time `json:"time"`
}

type client struct {
	role   string
	userID string
}

type Hub struct {
	mutex   sync.Mutex
	clients map[*websocket.Conn]client
	recent  []Activity
	limit   int
}

func New(limit int) *Hub {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Hub{
		clients: make(map[*websocket.Conn]client),
		limit:   limit,
	}
}

func (h *Hub) RegisterClient(conn *websocket.Conn, role, userID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = client{role: role, userID: userID}
}

func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish records a new activity and sends it to admin connections.
func (h *Hub) Publish(user, action, kind string) Activity {
	a := Activity{
		ID:     uuid.NewString(),
		User:   user,
		Action: action,
		Type:   kind,
		Time:   time.Now(),
	}

	h.mutex.Lock()
	h.recent = append([]Activity{a}, h.recent...)
	if len(h.recent) > h.limit {
		h.recent = h.recent[:h.limit]
	}
	h.mutex.Unlock()

	h.broadcast(Message{Event: EventActivity, Data: a}, "Admin")
	return a
}

// BroadcastAnnouncement goes to every connection regardless of role.
func (h *Hub) BroadcastAnnouncement(data interface{}) {
	h.broadcast(Message{Event: EventAnnouncement, Data: data}, "")
}

// Recent returns up to n activities, newest first. n <= 0 means all kept.
func (h *Hub) Recent(n int) []Activity {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if n <= 0 || n > len(h.recent) {
		n = len(h.recent)
	}
	out := make([]Activity, n)
	copy(out, h.recent[:n])
	return out
}

// broadcast sends msg to clients with the given role, or to all when role is empty.
func (h *Hub) broadcast(msg Message, role string) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("marshal %s message: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if role != "" && c.role != role {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("websocket write to user %s: %v", c.userID, err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
