package ws

import (
	"sync"

	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
)

// Hub ведёт учёт подключённых клиентов: по одному соединению на игрока,
// новое соединение вытесняет старое
type Hub struct {
	clients   map[int64]*Client         // playerID -> client
	listeners map[string]*EventListener // sessionID -> ws-слушатель контроллера
	mu        sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[int64]*Client),
		listeners: make(map[string]*EventListener),
	}
}

// Register привязывает клиента к сессии: вешает слушателя событий
// движка на контроллер (один на сессию, при реконнекте канал
// перенацеливается) и вытесняет предыдущее соединение игрока
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old, exists := h.clients[c.Session.PlayerID]
	h.clients[c.Session.PlayerID] = c

	listener, attached := h.listeners[c.Session.ID]
	if attached {
		listener.Retarget(c.Send)
	} else {
		listener = NewEventListener(c.Send)
		h.listeners[c.Session.ID] = listener
	}
	h.mu.Unlock()

	if exists && old != c {
		logger.Info("игрок переподключился, старое соединение закрывается",
			"player_id", c.Session.PlayerID)
		_ = old.Conn.Close()
	}

	if !attached {
		_ = c.Session.Do(func(ctrl *game.Controller) error {
			ctrl.RegisterListener(listener)
			return nil
		})
	}

	logger.Debug("клиент зарегистрирован", "player_id", c.Session.PlayerID,
		"session_id", c.Session.ID)
}

// Remove снимает ws-слушателя закрытой сессии; сам контроллер
// умирает вместе с ней
func (h *Hub) Remove(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.listeners, sessionID)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if current, ok := h.clients[c.Session.PlayerID]; ok && current == c {
		delete(h.clients, c.Session.PlayerID)
	}
}

// возвращает число подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
