package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mines_webapp/internal/domain"
	"mines_webapp/internal/game"
	"mines_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// тело интентов с координатой
type coordRequest struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	FlagOnly bool `json:"flag_only"`
}

// session возвращает сессию игрока, создавая её с сохранёнными
// настройками при первом обращении
func (h *Handler) session(c *gin.Context) (*service.Session, bool) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}

	// сохранённые настройки подхватываем только при создании сессии,
	// любая ошибка базы означает дефолты
	opts := h.defaultOpts()
	if saved, err := h.Settings.Get(c.Request.Context(), playerID); err == nil {
		opts = game.GameOpts{
			XSize:        saved.XSize,
			YSize:        saved.YSize,
			Mines:        saved.Mines,
			PerCell:      saved.PerCell,
			Lives:        saved.Lives,
			FirstSuccess: saved.FirstSuccess,
			DragSelect:   saved.DragSelect,
		}
	}

	session, err := h.Sessions.GetOrCreate(playerID, getPlayerName(c), &opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return nil, false
	}
	return session, true
}

func (h *Handler) defaultOpts() game.GameOpts {
	return game.GameOpts{
		XSize:        h.Cfg.DefaultXSize,
		YSize:        h.Cfg.DefaultYSize,
		Mines:        h.Cfg.DefaultMines,
		PerCell:      h.Cfg.DefaultPerCell,
		Lives:        h.Cfg.DefaultLives,
		FirstSuccess: h.Cfg.DefaultFirstSuccess,
	}
}

// выполняет интент и отвечает свежей сводкой партии
func (h *Handler) doIntent(c *gin.Context, fn func(*game.Controller) error) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var info game.GameInfo
	err := session.Do(func(ctrl *game.Controller) error {
		if err := fn(ctrl); err != nil {
			return err
		}
		info = ctrl.GameInfo()
		return nil
	})
	if err != nil {
		if errors.Is(err, game.ErrInvalidArgument) || errors.Is(err, game.ErrInvalidFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "game error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"info": info})
}

func (h *Handler) NewGame(c *gin.Context) {
	h.doIntent(c, func(ctrl *game.Controller) error { return ctrl.NewGame() })
}

func (h *Handler) RestartGame(c *gin.Context) {
	h.doIntent(c, func(ctrl *game.Controller) error { return ctrl.RestartGame() })
}

func (h *Handler) SelectCell(c *gin.Context) {
	var req coordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.SelectCell(game.Coord{X: req.X, Y: req.Y})
	})
}

func (h *Handler) FlagCell(c *gin.Context) {
	var req coordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.FlagCell(game.Coord{X: req.X, Y: req.Y}, req.FlagOnly)
	})
}

func (h *Handler) RemoveCellFlags(c *gin.Context) {
	var req coordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.RemoveCellFlags(game.Coord{X: req.X, Y: req.Y})
	})
}

func (h *Handler) ChordOnCell(c *gin.Context) {
	var req coordRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.ChordOnCell(game.Coord{X: req.X, Y: req.Y})
	})
}

func (h *Handler) ResizeBoard(c *gin.Context) {
	var req struct {
		XSize int `json:"x_size"`
		YSize int `json:"y_size"`
		Mines int `json:"mines"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.ResizeBoard(req.XSize, req.YSize, req.Mines)
	})
}

func (h *Handler) SetFirstSuccess(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.SetFirstSuccess(req.Enabled)
	})
}

func (h *Handler) SetPerCell(c *gin.Context) {
	var req struct {
		PerCell int `json:"per_cell"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.SetPerCell(req.PerCell)
	})
}

func (h *Handler) SetLives(c *gin.Context) {
	var req struct {
		Lives int `json:"lives"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.SetLives(req.Lives)
	})
}

func (h *Handler) SwitchMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	h.doIntent(c, func(ctrl *game.Controller) error {
		return ctrl.SwitchMode(game.UIMode(req.Mode))
	})
}

// GameState отдаёт сводку и доску текущей партии
func (h *Handler) GameState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var info game.GameInfo
	var rows [][]string
	_ = session.Do(func(ctrl *game.Controller) error {
		info = ctrl.GameInfo()
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

	c.JSON(http.StatusOK, gin.H{"info": info, "board": rows})
}

// ExportMinefield отдаёт раскладку текущей партии, а в режиме
// создания - собранное вручную поле. До первого клика поля ещё нет
func (h *Handler) ExportMinefield(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var mf *game.Minefield
	err := session.Do(func(ctrl *game.Controller) error {
		if cc := ctrl.CreateMode(); cc != nil {
			extracted, err := cc.ExtractMinefield()
			if err != nil {
				return err
			}
			mf = extracted
			return nil
		}
		if gc := ctrl.GamePlay(); gc != nil {
			mf = gc.CurrentMinefield()
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if mf == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "minefield not created yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"minefield": mf})
}

// ImportMinefield начинает партию на присланной раскладке
func (h *Handler) ImportMinefield(c *gin.Context) {
	var req struct {
		Minefield json.RawMessage `json:"minefield"`
	}
	if err := c.BindJSON(&req); err != nil || len(req.Minefield) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	mf, err := game.MinefieldFromJSON(req.Minefield)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.doIntent(c, func(ctrl *game.Controller) error {
		if ctrl.GamePlay() == nil {
			if err := ctrl.SwitchMode(game.ModeGame); err != nil {
				return err
			}
		}
		return ctrl.GamePlay().LoadMinefield(mf)
	})
}

// GetSettings возвращает сохранённые настройки игрока или дефолты
func (h *Handler) GetSettings(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saved, err := h.Settings.Get(c.Request.Context(), playerID)
	if err != nil {
		opts := h.defaultOpts()
		c.JSON(http.StatusOK, gin.H{"settings": opts, "saved": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": saved, "saved": true})
}

// SaveSettings сохраняет настройки игрока для будущих сессий
func (h *Handler) SaveSettings(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var opts game.GameOpts
	if err := c.BindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if err := opts.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := &domain.Settings{
		PlayerID:     playerID,
		XSize:        opts.XSize,
		YSize:        opts.YSize,
		Mines:        opts.Mines,
		PerCell:      opts.PerCell,
		Lives:        opts.Lives,
		FirstSuccess: opts.FirstSuccess,
		DragSelect:   opts.DragSelect,
	}
	if err := h.Settings.Upsert(c.Request.Context(), s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
