package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket subscriptions keyed by topic. A client picks its
// topic filter at connect time; publishers fan a change event out to every
// subscriber of that topic.
type Hub struct {
	// topic -> connection set
	subscribers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	publish    chan *publication
}

// Connection represents one subscribed WebSocket client
type Connection struct {
	Topic string
	Send  chan []byte
	Hub   *Hub
}

type publication struct {
	topic   string
	message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		subscribers: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		publish:     make(chan *publication, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.subscribers[conn.Topic] == nil {
				h.subscribers[conn.Topic] = make(map[*Connection]bool)
			}
			h.subscribers[conn.Topic][conn] = true
			h.mu.Unlock()
			log.Printf("Subscriber joined topic %s", conn.Topic)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.subscribers[conn.Topic]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.subscribers, conn.Topic)
				}
				log.Printf("Subscriber left topic %s", conn.Topic)
			}
			h.mu.Unlock()

		case pub := <-h.publish:
			h.mu.RLock()
			data, _ := json.Marshal(pub.message)
			for conn := range h.subscribers[pub.topic] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a subscription
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a subscription
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends a change event to every subscriber of a topic
// (implements service.Broadcaster)
func (h *Hub) Publish(topic string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.publish <- &publication{
		topic: topic,
		message: &Message{
			Type:    MessageType(msgType),
			Topic:   topic,
			Payload: data,
		},
	}
}
