package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/logging"
)

// EventType определяет типы событий
type EventType string

const (
	TypePing EventType = "ping"

	TypeStatsUpdated        EventType = "stats_updated"
	TypeGameProgressUpdated EventType = "game_progress_updated"
	TypeNoteSaved           EventType = "note_saved"
)

type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub fans events out to every open connection of a user. A user may have
// several tabs open, each is its own Client.
type Hub struct {
	userClients map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log logging.Logger

	pingInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(log logging.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		userClients:  make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		log:          log,
		pingInterval: 30 * time.Second,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.userClients {
		for _, client := range clients {
			close(client.Send)
			if client.Conn != nil {
				client.Conn.Close()
			}
		}
		delete(h.userClients, userID)
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) error {
	if h.ctx.Err() != nil {
		return ErrHubStopped
	}
	select {
	case h.register <- client:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
	}
	h.userClients[client.UserID][client.ID] = client

	h.log.Debug(h.ctx, "websocket client registered", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client.ID]; !ok {
		return
	}

	delete(clients, client.ID)
	if len(clients) == 0 {
		delete(h.userClients, client.UserID)
	}
	close(client.Send)

	h.log.Debug(h.ctx, "websocket client unregistered", "client_id", client.ID, "user_id", client.UserID)
}

// Publish sends an event to all connections of userID. Slow clients lose
// the event instead of blocking the caller.
func (h *Hub) Publish(userID uuid.UUID, eventType EventType, data interface{}) {
	msg, err := encodeEvent(eventType, data)
	if err != nil {
		h.log.Error(h.ctx, "encode websocket event", "type", eventType, "err", err)
		return
	}
	h.SendToUser(userID, msg)
}

// SendToUser отправляет сообщение пользователю
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- message:
		default:
			h.log.Warn(h.ctx, "websocket send channel full", "client_id", client.ID)
		}
	}
}

func (h *Hub) ping() {
	msg, err := encodeEvent(TypePing, nil)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.userClients {
		for _, client := range clients {
			select {
			case client.Send <- msg:
			default:
			}
		}
	}
}

// ConnectionCount returns the number of open connections of userID.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID])
}

func encodeEvent(eventType EventType, data interface{}) ([]byte, error) {
	ev := Event{Type: eventType, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		ev.Data = raw
	}
	return json.Marshal(ev)
}
