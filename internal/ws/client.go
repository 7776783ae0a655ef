package ws

import (
	"encoding/json"
	"time"

	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// intentFrame - входящий кадр с интентом игрока
type intentFrame struct {
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	// параметры resize / настроек
	XSize    int    `json:"x_size"`
	YSize    int    `json:"y_size"`
	Mines    int    `json:"mines"`
	PerCell  int    `json:"per_cell"`
	Lives    int    `json:"lives"`
	FlagOnly bool   `json:"flag_only"`
	Enabled  bool   `json:"enabled"`
	Mode     string `json:"mode"`
}

// Client - одно ws-соединение, привязанное к игровой сессии.
// Читающая горутина применяет интенты по одному, что сериализует
// доступ к движку со стороны этого соединения
type Client struct {
	Session *service.Session
	Conn    *websocket.Conn
	Send    chan []byte

	Hub  *Hub
	Done chan struct{}
}

func NewClient(session *service.Session, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Session: session,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Hub:     hub,
		Done:    make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()

	// хендшейк: клиент сразу получает полное состояние партии
	c.sendState()

	c.Hub.Register(c)
	c.readPump()
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		close(c.Done)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ошибка чтения ws", "player_id", c.Session.PlayerID, "error", err)
			}
			break
		}
		c.handleIntent(msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// применяет один интент к сессии; ошибки уходят клиенту кадром error
func (c *Client) handleIntent(msg []byte) {
	var frame intentFrame
	if err := json.Unmarshal(msg, &frame); err != nil {
		c.sendError("некорректный кадр")
		return
	}

	err := c.Session.Do(func(ctrl *game.Controller) error {
		switch frame.Action {
		case "new_game":
			return ctrl.NewGame()
		case "restart":
			return ctrl.RestartGame()
		case "select":
			return ctrl.SelectCell(game.Coord{X: frame.X, Y: frame.Y})
		case "flag":
			return ctrl.FlagCell(game.Coord{X: frame.X, Y: frame.Y}, frame.FlagOnly)
		case "unflag":
			return ctrl.RemoveCellFlags(game.Coord{X: frame.X, Y: frame.Y})
		case "chord":
			return ctrl.ChordOnCell(game.Coord{X: frame.X, Y: frame.Y})
		case "resize":
			return ctrl.ResizeBoard(frame.XSize, frame.YSize, frame.Mines)
		case "set_first_success":
			return ctrl.SetFirstSuccess(frame.Enabled)
		case "set_per_cell":
			return ctrl.SetPerCell(frame.PerCell)
		case "set_lives":
			return ctrl.SetLives(frame.Lives)
		case "switch_mode":
			return ctrl.SwitchMode(game.UIMode(frame.Mode))
		case "state":
			return nil
		default:
			c.sendError("неизвестный интент: " + frame.Action)
			return nil
		}
	})
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if frame.Action == "state" {
		c.sendState()
	}
}

// полный снимок партии: сводка и доска построчно
func (c *Client) sendState() {
	var info game.GameInfo
	var rows [][]string
	_ = c.Session.Do(func(ctrl *game.Controller) error {
		info = ctrl.GameInfo()
		if info.Ended != nil {
			ended := sanitizeEnded(*info.Ended)
			info.Ended = &ended
		}
		board := ctrl.Board()
		rows = make([][]string, board.YSize())
		for y := 0; y < board.YSize(); y++ {
			row := make([]string, board.XSize())
			for x := 0; x < board.XSize(); x++ {
				row[x] = board.Get(game.Coord{X: x, Y: y}).String()
			}
			rows[y] = row
		}
		return nil
	})

	data, err := json.Marshal(map[string]any{"type": "state", "info": info, "board": rows})
	if err != nil {
		logger.Error("не удалось сериализовать состояние", "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) sendError(text string) {
	data, _ := json.Marshal(map[string]any{"type": "error", "error": text})
	select {
	case c.Send <- data:
	default:
	}
}
