package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-booking/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

// Client is one websocket subscriber. An empty table set means every table.
type Client struct {
	ID     string
	UserID string
	Role   string
	Send   chan []byte

	mu     sync.RWMutex
	tables map[string]bool
}

func NewClient(userID, role string) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, sendBuffer),
		tables: make(map[string]bool),
	}
}

func (c *Client) Subscribe(tables ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tables {
		c.tables[t] = true
	}
}

func (c *Client) Unsubscribe(tables ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tables {
		delete(c.tables, t)
	}
}

func (c *Client) Wants(table string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tables) == 0 || table == "" {
		return true
	}
	return c.tables[table]
}

// Hub holds the connected clients. Sends never block: a slow client loses messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends to every client subscribed to msg.Table.
func (h *Hub) Broadcast(msg Message) {
	h.deliver(msg, nil)
}

// SendToUsers sends only to clients logged in as one of userIDs.
func (h *Hub) SendToUsers(msg Message, userIDs ...string) {
	targets := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}
	h.deliver(msg, targets)
}

func (h *Hub) deliver(msg Message, users map[string]bool) {
	if msg.At.IsZero() {
		msg.At = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if users != nil && !users[client.UserID] {
			continue
		}
		if !client.Wants(msg.Table) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			utils.ErrorLogger.Printf("drop %s for client %s", msg.Event, client.ID)
		}
	}
}

type SubscribeMessage struct {
	Action string   `json:"action" validate:"required,oneof=subscribe unsubscribe"`
	Tables []string `json:"tables" validate:"required,min=1,dive,oneof=bookings messages"`
}

func ParseSubscribe(data []byte) (SubscribeMessage, error) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, err
	}
	if fields := utils.ValidateStruct(msg); fields != nil {
		return SubscribeMessage{}, errors.New(utils.FormatValidationErrors(fields))
	}
	return msg, nil
}

// Serve pumps messages between conn and client until either side closes.
// The client is unregistered and the connection closed on return.
func (h *Hub) Serve(conn *websocket.Conn, client *Client) {
	h.Register(client)
	defer func() {
		h.Unregister(client)
		conn.Close()
	}()

	go writePump(conn, client)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		sub, err := ParseSubscribe(data)
		if err != nil {
			utils.InfoLogger.Printf("ignoring client message from %s: %v", client.ID, err)
			continue
		}
		if sub.Action == "subscribe" {
			client.Subscribe(sub.Tables...)
		} else {
			client.Unsubscribe(sub.Tables...)
		}
	}
}

func writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				utils.ErrorLogger.Printf("Error sending message to client %s: %v", client.ID, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
