package websocket

import (
	"sync"

	clog "github.com/charmbracelet/log"
)

// Hub tracks the websocket connection of each logged-in player and pushes
// matchmaking events to them. Delivery is best-effort: players without a
// live connection are simply skipped, email invitations cover them.
type Hub struct {
	clients    map[string]*Client // playerID -> client
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
	sendOne    chan sendReq
	quit       chan struct{}
	mu         sync.RWMutex
}

type broadcastReq struct {
	PlayerIDs []string
	Message   OutgoingMessage
}

type sendReq struct {
	PlayerID string
	Message  OutgoingMessage
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq),
		sendOne:    make(chan sendReq),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[c.PlayerID]; ok {
				close(old.Send)
			}
			h.clients[c.PlayerID] = c
			clog.Debug("ws register", "player", c.PlayerID, "connected", len(h.clients))
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[c.PlayerID]; ok && cur == c {
				delete(h.clients, c.PlayerID)
				close(c.Send)
				clog.Debug("ws unregister", "player", c.PlayerID, "connected", len(h.clients))
			}
			h.mu.Unlock()

		case req := <-h.broadcast:
			h.mu.RLock()
			for _, id := range req.PlayerIDs {
				if client, ok := h.clients[id]; ok {
					select {
					case client.Send <- req.Message:
					default:
						// slow consumer, drop rather than block the hub
					}
				}
			}
			h.mu.RUnlock()

		case req := <-h.sendOne:
			h.mu.RLock()
			if client, ok := h.clients[req.PlayerID]; ok {
				select {
				case client.Send <- req.Message:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.quit:
			h.mu.Lock()
			for _, c := range h.clients {
				close(c.Send)
			}
			h.clients = make(map[string]*Client)
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastToPlayers pushes msg to every listed player with a live connection.
func (h *Hub) BroadcastToPlayers(playerIDs []string, msg OutgoingMessage) {
	h.broadcast <- broadcastReq{PlayerIDs: playerIDs, Message: msg}
}

// SendToPlayer pushes msg to a single player.
func (h *Hub) SendToPlayer(playerID string, msg OutgoingMessage) {
	h.sendOne <- sendReq{PlayerID: playerID, Message: msg}
}

func (h *Hub) Close() {
	close(h.quit)
}
