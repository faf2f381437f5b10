package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"inventory-system/pkg/metrics"
)

// Hub держит подключенных клиентов и рассылает им ленту активности.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	Register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
	now        func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		now:        time.Now,
	}
}

// Run обслуживает каналы хаба до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.reportClients()
			h.mu.Unlock()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.reportClients()
			h.mu.Unlock()
			h.logger.Debug("Клиент ленты подключен", zap.String("actor", client.Actor))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("Клиент ленты отключен", zap.String("actor", client.Actor))
			}
			h.reportClients()
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// медленный клиент
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.reportClients()
			h.mu.Unlock()
		}
	}
}

// Broadcast упаковывает payload в Envelope и ставит его в очередь рассылки.
func (h *Hub) Broadcast(ctx context.Context, messageType string, payload interface{}) error {
	messageBytes, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: h.now().UTC(),
	})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- messageBytes:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Welcome ставит приветствие в очередь одного клиента.
func (h *Hub) Welcome(client *Client) {
	messageBytes, err := json.Marshal(Envelope{
		Type:      MessageWelcome,
		Payload:   map[string]string{"actor": client.Actor},
		Timestamp: h.now().UTC(),
	})
	if err != nil {
		return
	}
	select {
	case client.Send <- messageBytes:
	default:
	}
}

// вызывается под h.mu
func (h *Hub) reportClients() {
	metrics.ActivityClients.Set(float64(len(h.clients)))
}

// ClientCount - число активных подключений.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
