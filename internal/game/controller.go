package game

import (
	"fmt"
)

// intentHandler - общий набор интентов для обоих режимов контроллера,
// чтобы фасад переключал режимы прозрачно для вызывающего
type intentHandler interface {
	NewGame() error
	RestartGame() error
	SelectCell(c Coord) error
	FlagCell(c Coord, flagOnly bool) error
	RemoveCellFlags(c Coord) error
	ChordOnCell(c Coord) error
	ResizeBoard(xSize, ySize, mines int) error
	SetFirstSuccess(v bool) error
	SetPerCell(n int) error
	SetLives(n int) error
	Board() *Board
	GameInfo() GameInfo
}

// ---------------------------------------------------------------------------
// игровой контроллер
// ---------------------------------------------------------------------------

// GameController переводит внешние интенты в операции партии и
// рассылает слушателям только изменившиеся части состояния
type GameController struct {
	opts GameOpts
	game *Game
	ntf  *notifier

	// последнее разосланное состояние для вычисления дельты
	sentMinesRemaining int
	sentState          GameState
}

func NewGameController(opts GameOpts, ntf *notifier) (*GameController, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	g, err := NewGame(opts)
	if err != nil {
		return nil, err
	}
	return &GameController{
		opts:               opts,
		game:               g,
		ntf:                ntf,
		sentMinesRemaining: g.MinesRemaining(),
		sentState:          g.State(),
	}, nil
}

func (gc *GameController) Board() *Board  { return gc.game.Board() }
func (gc *GameController) Game() *Game    { return gc.game }
func (gc *GameController) Opts() GameOpts { return gc.opts }

// CurrentMinefield - поле текущей партии (nil до первого клика)
func (gc *GameController) CurrentMinefield() *Minefield { return gc.game.Minefield() }

// NewGame начинает свежую партию с теми же настройками.
// Лишние мины после смены per_cell урезаются до вместимости поля
func (gc *GameController) NewGame() error {
	maxMines := gc.opts.PerCell * (gc.opts.XSize*gc.opts.YSize - 1)
	if gc.opts.Mines > maxMines {
		gc.opts.Mines = maxMines
		gc.ntf.SetMines(gc.opts.Mines)
	}
	g, err := NewGame(gc.opts)
	if err != nil {
		return err
	}
	gc.game = g
	gc.ntf.Reset()
	gc.syncAfterReset()
	return nil
}

// RestartGame переигрывает ту же раскладку мин; до первого клика
// поля ещё нет и рестарт эквивалентен new_game
func (gc *GameController) RestartGame() error {
	mf := gc.game.Minefield()
	if mf == nil {
		return gc.NewGame()
	}
	g, err := NewGameFromMinefield(mf, gc.opts.Lives)
	if err != nil {
		return err
	}
	gc.game = g
	gc.ntf.Reset()
	gc.syncAfterReset()
	return nil
}

func (gc *GameController) SelectCell(c Coord) error {
	updates, err := gc.game.SelectCell(c)
	if err != nil {
		return err
	}
	gc.dispatch(updates)
	return nil
}

// FlagCell циклически переключает флаги: пусто -> 1 -> ... -> per_cell
// -> пусто; flag_only останавливает цикл на максимуме
func (gc *GameController) FlagCell(c Coord, flagOnly bool) error {
	if !gc.game.Board().Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	cell := gc.game.Board().Get(c)
	var next int
	switch {
	case cell.Kind == KindUnclicked:
		next = 1
	case cell.Kind == KindFlag && cell.Num < gc.opts.PerCell:
		next = cell.Num + 1
	case cell.Kind == KindFlag:
		if flagOnly {
			return nil
		}
		next = 0
	default:
		return nil
	}
	updates, err := gc.game.SetCellFlags(c, next)
	if err != nil {
		return err
	}
	gc.dispatch(updates)
	return nil
}

func (gc *GameController) RemoveCellFlags(c Coord) error {
	if !gc.game.Board().Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	if gc.game.Board().Get(c).Kind != KindFlag {
		return nil
	}
	updates, err := gc.game.SetCellFlags(c, 0)
	if err != nil {
		return err
	}
	gc.dispatch(updates)
	return nil
}

func (gc *GameController) ChordOnCell(c Coord) error {
	updates, err := gc.game.ChordOnCell(c)
	if err != nil {
		return err
	}
	gc.dispatch(updates)
	return nil
}

// ResizeBoard меняет размеры и число мин; без фактических изменений
// эквивалентен new_game
func (gc *GameController) ResizeBoard(xSize, ySize, mines int) error {
	if xSize == gc.opts.XSize && ySize == gc.opts.YSize && mines == gc.opts.Mines {
		return gc.NewGame()
	}
	opts := gc.opts
	opts.XSize, opts.YSize, opts.Mines = xSize, ySize, mines
	if err := opts.Validate(); err != nil {
		return err
	}
	g, err := NewGame(opts)
	if err != nil {
		return err
	}
	gc.opts = opts
	gc.game = g
	gc.ntf.ResizeMinefield(xSize, ySize)
	gc.ntf.SetMines(mines)
	gc.ntf.Reset()
	gc.syncAfterReset()
	return nil
}

// SetFirstSuccess действует со следующей партии; если текущая ещё не
// начата и поле не создано - сразу и на неё
func (gc *GameController) SetFirstSuccess(v bool) error {
	gc.opts.FirstSuccess = v
	if gc.game.State() == StateReady && gc.game.Minefield() == nil {
		gc.game.firstSuccess = v
	}
	return nil
}

// SetPerCell в неначатой партии пересоздаёт её, иначе действует со
// следующей
func (gc *GameController) SetPerCell(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: per_cell %d должен быть не меньше 1", ErrInvalidArgument, n)
	}
	if n == gc.opts.PerCell {
		return nil
	}
	gc.opts.PerCell = n
	if gc.game.State() == StateReady {
		return gc.NewGame()
	}
	return nil
}

func (gc *GameController) SetLives(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: число жизней %d должно быть не меньше 1", ErrInvalidArgument, n)
	}
	if n == gc.opts.Lives {
		return nil
	}
	gc.opts.Lives = n
	if gc.game.State() == StateReady {
		return gc.NewGame()
	}
	return nil
}

// LoadMinefield начинает партию на заранее известном поле
// (например, нарисованном в режиме создания)
func (gc *GameController) LoadMinefield(mf *Minefield) error {
	if mf == nil {
		return fmt.Errorf("%w: минное поле не задано", ErrInvalidArgument)
	}
	g, err := NewGameFromMinefield(mf, gc.opts.Lives)
	if err != nil {
		return err
	}
	resized := mf.XSize() != gc.opts.XSize || mf.YSize() != gc.opts.YSize
	gc.opts.XSize, gc.opts.YSize = mf.XSize(), mf.YSize()
	gc.opts.Mines = mf.Mines()
	gc.opts.PerCell = mf.PerCell()
	gc.game = g
	if resized {
		gc.ntf.ResizeMinefield(gc.opts.XSize, gc.opts.YSize)
	}
	gc.ntf.SetMines(gc.opts.Mines)
	gc.ntf.Reset()
	gc.syncAfterReset()
	return nil
}

func (gc *GameController) GameInfo() GameInfo {
	info := GameInfo{
		GameState:      gc.game.State(),
		XSize:          gc.opts.XSize,
		YSize:          gc.opts.YSize,
		Mines:          gc.opts.Mines,
		Difficulty:     gc.game.Difficulty(),
		PerCell:        gc.opts.PerCell,
		FirstSuccess:   gc.opts.FirstSuccess,
		DragSelect:     gc.opts.DragSelect,
		MinesRemaining: gc.game.MinesRemaining(),
		LivesRemaining: gc.game.LivesRemaining(),
	}
	if gc.game.State().Finished() {
		ended := gc.endedInfo()
		info.Ended = &ended
	}
	return info
}

func (gc *GameController) endedInfo() EndedGameInfo {
	elapsed, _ := gc.game.Elapsed()
	bbbvps, _ := gc.game.Bbbvps()
	prop, _ := gc.game.PropComplete()
	return EndedGameInfo{
		GameState:      gc.game.State(),
		Difficulty:     gc.game.Difficulty(),
		PerCell:        gc.game.PerCell(),
		StartTime:      float64(gc.game.StartTime().UnixMilli()) / 1000,
		ElapsedSecs:    elapsed.Seconds(),
		Bbbv:           gc.game.Minefield().Bbbv(),
		Bbbvps:         bbbvps,
		PropComplete:   prop,
		PropFlagging:   gc.game.FlagProportion(),
		MinefieldKnown: gc.game.MinefieldKnown(),
	}
}

// рассылает минимальную дельту после хода; no-op ход не порождает
// ни одного события
func (gc *GameController) dispatch(updates map[Coord]CellContents) {
	gc.ntf.UpdateCells(updates)
	if mr := gc.game.MinesRemaining(); mr != gc.sentMinesRemaining {
		gc.sentMinesRemaining = mr
		gc.ntf.UpdateMinesRemaining(mr)
	}
	if st := gc.game.State(); st != gc.sentState {
		gc.sentState = st
		gc.ntf.UpdateGameState(st)
		if st.Finished() {
			gc.ntf.HandleFinishedGame(gc.endedInfo())
		}
	}
}

func (gc *GameController) syncAfterReset() {
	gc.sentMinesRemaining = gc.game.MinesRemaining()
	gc.sentState = gc.game.State()
	gc.ntf.UpdateMinesRemaining(gc.sentMinesRemaining)
	gc.ntf.UpdateGameState(gc.sentState)
}

// ---------------------------------------------------------------------------
// контроллер режима создания поля
// ---------------------------------------------------------------------------

// CreateController даёт вручную рисовать раскладку мин без семантики
// партии: клики меняют содержимое ячеек напрямую
type CreateController struct {
	opts  GameOpts
	board *Board
	mines int
	ntf   *notifier
}

func NewCreateController(opts GameOpts, ntf *notifier) (*CreateController, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(opts.XSize, opts.YSize)
	if err != nil {
		return nil, err
	}
	return &CreateController{opts: opts, board: board, ntf: ntf}, nil
}

func (cc *CreateController) Board() *Board  { return cc.board }
func (cc *CreateController) Opts() GameOpts { return cc.opts }
func (cc *CreateController) Mines() int     { return cc.mines }

func (cc *CreateController) NewGame() error {
	board, err := NewBoard(cc.opts.XSize, cc.opts.YSize)
	if err != nil {
		return err
	}
	cc.board = board
	cc.mines = 0
	cc.ntf.Reset()
	cc.ntf.UpdateMinesRemaining(0)
	return nil
}

// RestartGame в режиме создания просто очищает холст
func (cc *CreateController) RestartGame() error { return cc.NewGame() }

// SelectCell циклически повышает число в ячейке: пусто -> 0 -> 1 -> ...
func (cc *CreateController) SelectCell(c Coord) error {
	if !cc.board.Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	cell := cc.board.Get(c)
	var next CellContents
	switch {
	case cell.Kind == KindUnclicked:
		next = Num(0)
	case cell.Kind == KindNum && cell.Num < 8*cc.opts.PerCell:
		next = Num(cell.Num + 1)
	default:
		return nil
	}
	cc.board.Set(c, next)
	cc.ntf.UpdateCells(map[Coord]CellContents{c: next})
	return nil
}

// FlagCell циклически наращивает стопку мин в ячейке
func (cc *CreateController) FlagCell(c Coord, flagOnly bool) error {
	if !cc.board.Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	cell := cc.board.Get(c)
	var next CellContents
	switch {
	case cell.Kind == KindUnclicked:
		next = Mine(1)
		cc.mines++
	case cell.Kind == KindMine && cell.Num < cc.opts.PerCell:
		next = Mine(cell.Num + 1)
		cc.mines++
	case cell.Kind == KindMine:
		if flagOnly {
			return nil
		}
		next = Unclicked()
		cc.mines -= cell.Num
	default:
		return nil
	}
	cc.board.Set(c, next)
	cc.ntf.UpdateCells(map[Coord]CellContents{c: next})
	cc.ntf.UpdateMinesRemaining(cc.mines)
	return nil
}

func (cc *CreateController) RemoveCellFlags(c Coord) error {
	if !cc.board.Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	cell := cc.board.Get(c)
	if cell.Kind != KindMine {
		return nil
	}
	cc.mines -= cell.Num
	cc.board.Set(c, Unclicked())
	cc.ntf.UpdateCells(map[Coord]CellContents{c: Unclicked()})
	cc.ntf.UpdateMinesRemaining(cc.mines)
	return nil
}

// ChordOnCell в режиме создания смысла не имеет
func (cc *CreateController) ChordOnCell(c Coord) error {
	if !cc.board.Contains(c) {
		return fmt.Errorf("%w: координата %s вне поля", ErrInvalidArgument, c)
	}
	return nil
}

func (cc *CreateController) ResizeBoard(xSize, ySize, mines int) error {
	opts := cc.opts
	opts.XSize, opts.YSize, opts.Mines = xSize, ySize, mines
	if err := opts.Validate(); err != nil {
		return err
	}
	resized := xSize != cc.opts.XSize || ySize != cc.opts.YSize
	cc.opts = opts
	if resized {
		cc.ntf.ResizeMinefield(xSize, ySize)
	}
	return cc.NewGame()
}

func (cc *CreateController) SetFirstSuccess(v bool) error {
	cc.opts.FirstSuccess = v
	return nil
}

func (cc *CreateController) SetPerCell(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: per_cell %d должен быть не меньше 1", ErrInvalidArgument, n)
	}
	if n == cc.opts.PerCell {
		return nil
	}
	cc.opts.PerCell = n
	return cc.NewGame()
}

func (cc *CreateController) SetLives(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: число жизней %d должно быть не меньше 1", ErrInvalidArgument, n)
	}
	cc.opts.Lives = n
	return nil
}

// ExtractMinefield собирает нарисованную раскладку в минное поле.
// Пустой холст даёт поле без мин
func (cc *CreateController) ExtractMinefield() (*Minefield, error) {
	var coords []Coord
	for _, c := range cc.board.AllCoords() {
		if cell := cc.board.Get(c); cell.Kind == KindMine {
			for i := 0; i < cell.Num; i++ {
				coords = append(coords, c)
			}
		}
	}
	return MinefieldFromCoords(cc.opts.XSize, cc.opts.YSize, coords, cc.opts.PerCell)
}

func (cc *CreateController) GameInfo() GameInfo {
	return GameInfo{
		GameState:      StateReady,
		XSize:          cc.opts.XSize,
		YSize:          cc.opts.YSize,
		Mines:          cc.mines,
		Difficulty:     DifficultyFrom(cc.opts.XSize, cc.opts.YSize, cc.mines),
		PerCell:        cc.opts.PerCell,
		FirstSuccess:   cc.opts.FirstSuccess,
		DragSelect:     cc.opts.DragSelect,
		MinesRemaining: cc.mines,
		LivesRemaining: cc.opts.Lives,
	}
}

// ---------------------------------------------------------------------------
// фасад с переключением режимов
// ---------------------------------------------------------------------------

// Controller - единая точка входа: держит активный режим и общий
// список слушателей, так что переключение режима для вызывающего
// прозрачно
type Controller struct {
	mode   UIMode
	ntf    *notifier
	active intentHandler
}

func NewController(opts GameOpts) (*Controller, error) {
	ntf := &notifier{}
	gc, err := NewGameController(opts, ntf)
	if err != nil {
		return nil, err
	}
	return &Controller{mode: ModeGame, ntf: ntf, active: gc}, nil
}

func (ct *Controller) RegisterListener(l Listener) { ct.ntf.Register(l) }

func (ct *Controller) Mode() UIMode { return ct.mode }

// SwitchMode пересоздаёт контроллер в новом режиме с текущими
// настройками; одинаковый режим - no-op
func (ct *Controller) SwitchMode(mode UIMode) error {
	if mode == ct.mode {
		return nil
	}
	opts := ct.activeOpts()
	switch mode {
	case ModeGame:
		gc, err := NewGameController(opts, ct.ntf)
		if err != nil {
			return err
		}
		ct.active = gc
	case ModeCreate:
		cc, err := NewCreateController(opts, ct.ntf)
		if err != nil {
			return err
		}
		ct.active = cc
	default:
		return fmt.Errorf("%w: неизвестный режим %q", ErrInvalidArgument, mode)
	}
	ct.mode = mode
	ct.ntf.Reset()
	info := ct.active.GameInfo()
	ct.ntf.UpdateMinesRemaining(info.MinesRemaining)
	ct.ntf.UpdateGameState(info.GameState)
	return nil
}

func (ct *Controller) activeOpts() GameOpts {
	switch a := ct.active.(type) {
	case *GameController:
		return a.Opts()
	case *CreateController:
		return a.Opts()
	}
	return DefaultOpts()
}

// GamePlay - доступ к игровому контроллеру (nil в режиме создания)
func (ct *Controller) GamePlay() *GameController {
	gc, _ := ct.active.(*GameController)
	return gc
}

// CreateMode - доступ к контроллеру создания (nil в игровом режиме)
func (ct *Controller) CreateMode() *CreateController {
	cc, _ := ct.active.(*CreateController)
	return cc
}

func (ct *Controller) Board() *Board      { return ct.active.Board() }
func (ct *Controller) GameInfo() GameInfo { return ct.active.GameInfo() }

func (ct *Controller) NewGame() error             { return ct.active.NewGame() }
func (ct *Controller) RestartGame() error         { return ct.active.RestartGame() }
func (ct *Controller) SelectCell(c Coord) error   { return ct.active.SelectCell(c) }
func (ct *Controller) ChordOnCell(c Coord) error  { return ct.active.ChordOnCell(c) }
func (ct *Controller) RemoveCellFlags(c Coord) error {
	return ct.active.RemoveCellFlags(c)
}
func (ct *Controller) FlagCell(c Coord, flagOnly bool) error {
	return ct.active.FlagCell(c, flagOnly)
}
func (ct *Controller) ResizeBoard(xSize, ySize, mines int) error {
	return ct.active.ResizeBoard(xSize, ySize, mines)
}
func (ct *Controller) SetFirstSuccess(v bool) error { return ct.active.SetFirstSuccess(v) }
func (ct *Controller) SetPerCell(n int) error       { return ct.active.SetPerCell(n) }
func (ct *Controller) SetLives(n int) error         { return ct.active.SetLives(n) }
