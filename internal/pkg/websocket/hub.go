package websocket

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to connected dashboards
const (
	EventSubmissionCreated = "submission.created"
	EventSubmissionMerged  = "submission.merged"
	EventReviewUpdated     = "review.updated"
)

// Recipient addresses one signed-in user
type Recipient struct {
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
}

// Key identifies the recipient's connection set
func (r Recipient) Key() string {
	return r.Role + ":" + strconv.FormatInt(r.UserID, 10)
}

// Event is a review-workflow notification delivered over the live feed
type Event struct {
	Type      string    `json:"type"`
	Kind      string    `json:"kind"`
	RecordID  int64     `json:"recordId"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Credits   *float64  `json:"credits,omitempty"`
	Recipient Recipient `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and routes events to their recipients
type Hub struct {
	// Registered clients keyed by Recipient.Key
	clients map[string]map[*Client]bool

	publish    chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// closed when Run returns
	done chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		publish:    make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run handles registrations and deliveries until ctx is done. It must be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.publish:
			h.deliver(event)
		}
	}
}

// join hands client to the running hub. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave detaches client; after shutdown closeAll has already released it
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := client.recipient.Key()
	if _, ok := h.clients[key]; !ok {
		h.clients[key] = make(map[*Client]bool)
	}
	h.clients[key][client] = true

	h.logger.Info().
		Str("recipient", key).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	key := client.recipient.Key()
	set, ok := h.clients[key]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, key)
	}
	h.logger.Info().
		Str("recipient", key).
		Msg("Client unregistered")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// deliver sends an event to every connection of its recipient. Slow clients are dropped.
func (h *Hub) deliver(event *Event) {
	key := event.Recipient.Key()

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[key]
	if !ok {
		h.logger.Debug().Str("recipient", key).Str("type", event.Type).Msg("No connected clients for event")
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("recipient", key).Msg("Failed to marshal event")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

// Publish queues an event for delivery. It never blocks; a full queue drops the event.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.publish <- &event:
	default:
		h.logger.Warn().Str("type", event.Type).Str("recipient", event.Recipient.Key()).Msg("Event queue full, dropping event")
	}
}

// ClientCount returns the number of open connections for a recipient
func (h *Hub) ClientCount(r Recipient) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[r.Key()])
}
