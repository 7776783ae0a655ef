package game

import (
	"fmt"
	"math"
	"time"
)

// Game ведёт одну партию: минное поле как истина, доска как
// видимое игроку состояние, плюс таймер и жизни.
// Все мутирующие методы возвращают карту изменённых ячеек;
// недопустимые ходы - не ошибки, а пустая карта (no-op)
type Game struct {
	xSize        int
	ySize        int
	mines        int
	perCell      int
	lives        int
	firstSuccess bool

	mf    *Minefield // nil до первого клика, если поле не задано заранее
	board *Board

	state          GameState
	startTime      time.Time
	endTime        time.Time
	livesRemaining int
	minesRemaining int

	// флаги, выставленные самим игроком; автофлаговка при победе
	// сюда не входит
	flagsPlaced int

	// поле было известно до начала игры (загружено или переигрывается);
	// такие партии не попадают в рекорды
	minefieldKnown bool

	// источник времени, подменяется в тестах
	now func() time.Time
}

// NewGame создаёт партию без минного поля: оно будет построено
// при первом клике с учётом first_success
func NewGame(opts GameOpts) (*Game, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(opts.XSize, opts.YSize)
	if err != nil {
		return nil, err
	}
	return &Game{
		xSize:          opts.XSize,
		ySize:          opts.YSize,
		mines:          opts.Mines,
		perCell:        opts.PerCell,
		lives:          opts.Lives,
		firstSuccess:   opts.FirstSuccess,
		board:          board,
		state:          StateReady,
		livesRemaining: opts.Lives,
		minesRemaining: opts.Mines,
		now:            time.Now,
	}, nil
}

// NewGameFromMinefield создаёт партию на уже известном поле
// (рестарт той же раскладки или загрузка)
func NewGameFromMinefield(mf *Minefield, lives int) (*Game, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: минное поле не задано", ErrInvalidArgument)
	}
	if lives < 1 {
		lives = 1
	}
	board, err := NewBoard(mf.XSize(), mf.YSize())
	if err != nil {
		return nil, err
	}
	return &Game{
		xSize:          mf.XSize(),
		ySize:          mf.YSize(),
		mines:          mf.Mines(),
		perCell:        mf.PerCell(),
		lives:          lives,
		mf:             mf,
		board:          board,
		state:          StateReady,
		livesRemaining: lives,
		minesRemaining: mf.Mines(),
		minefieldKnown: true,
		now:            time.Now,
	}, nil
}

func (g *Game) XSize() int            { return g.xSize }
func (g *Game) YSize() int            { return g.ySize }
func (g *Game) Mines() int            { return g.mines }
func (g *Game) PerCell() int          { return g.perCell }
func (g *Game) Lives() int            { return g.lives }
func (g *Game) FirstSuccess() bool    { return g.firstSuccess }
func (g *Game) State() GameState      { return g.state }
func (g *Game) Board() *Board         { return g.board }
func (g *Game) Minefield() *Minefield { return g.mf }
func (g *Game) MinesRemaining() int   { return g.minesRemaining }
func (g *Game) LivesRemaining() int   { return g.livesRemaining }
func (g *Game) MinefieldKnown() bool  { return g.minefieldKnown }
func (g *Game) StartTime() time.Time  { return g.startTime }
func (g *Game) EndTime() time.Time    { return g.endTime }

func (g *Game) Difficulty() Difficulty {
	return DifficultyFrom(g.xSize, g.ySize, g.mines)
}

// SelectCell открывает ячейку. Первый клик создаёт минное поле,
// запускает таймер и переводит игру в active
func (g *Game) SelectCell(c Coord) (map[Coord]CellContents, error) {
	if !g.board.Contains(c) {
		return nil, fmt.Errorf("%w: координата %s вне поля %dx%d",
			ErrInvalidArgument, c, g.xSize, g.ySize)
	}
	if !g.state.InProgress() || g.board.Get(c) != Unclicked() {
		return map[Coord]CellContents{}, nil
	}
	if g.state == StateReady {
		if err := g.start(c); err != nil {
			return nil, err
		}
	}
	updates := make(map[Coord]CellContents)
	g.revealMove([]Coord{c}, updates)
	return updates, nil
}

// ChordOnCell открывает всех неотмеченных соседей числа, если
// количество флагов вокруг совпадает с ним. Несовпадение - no-op
func (g *Game) ChordOnCell(c Coord) (map[Coord]CellContents, error) {
	if !g.board.Contains(c) {
		return nil, fmt.Errorf("%w: координата %s вне поля %dx%d",
			ErrInvalidArgument, c, g.xSize, g.ySize)
	}
	if g.state != StateActive || g.board.Get(c).Kind != KindNum {
		return map[Coord]CellContents{}, nil
	}

	flagged := 0
	var targets []Coord
	for _, nb := range g.board.Nbrs(c, false) {
		switch g.board.Get(nb).Kind {
		case KindFlag:
			flagged += g.board.Get(nb).Num
		case KindUnclicked:
			targets = append(targets, nb)
		}
	}
	if flagged != g.board.Get(c).Num || len(targets) == 0 {
		return map[Coord]CellContents{}, nil
	}

	updates := make(map[Coord]CellContents)
	g.revealMove(targets, updates)
	return updates, nil
}

// SetCellFlags выставляет ровно n флагов на закрытую ячейку
// (n == 0 снимает флаги)
func (g *Game) SetCellFlags(c Coord, n int) (map[Coord]CellContents, error) {
	if !g.board.Contains(c) {
		return nil, fmt.Errorf("%w: координата %s вне поля %dx%d",
			ErrInvalidArgument, c, g.xSize, g.ySize)
	}
	if n < 0 || n > g.perCell {
		return nil, fmt.Errorf("%w: число флагов %d вне диапазона 0-%d",
			ErrInvalidArgument, n, g.perCell)
	}
	if !g.state.InProgress() {
		return map[Coord]CellContents{}, nil
	}
	cell := g.board.Get(c)
	if cell.Kind != KindUnclicked && cell.Kind != KindFlag {
		return map[Coord]CellContents{}, nil
	}

	old := 0
	if cell.Kind == KindFlag {
		old = cell.Num
	}
	if old == n {
		return map[Coord]CellContents{}, nil
	}
	next := Unclicked()
	if n > 0 {
		next = Flag(n)
	}
	g.board.Set(c, next)
	g.minesRemaining += old - n
	g.flagsPlaced += n - old
	return map[Coord]CellContents{c: next}, nil
}

// один логический ход: открыть набор ячеек, разлить проёмы,
// обработать подрывы и проверить победу
func (g *Game) revealMove(targets []Coord, updates map[Coord]CellContents) {
	hitCells := 0
	hitMines := 0
	for _, c := range targets {
		if g.board.Get(c) != Unclicked() {
			continue
		}
		if g.mf.HasMine(c) {
			n := g.mf.MineCount(c)
			g.setCell(c, HitMine(n), updates)
			hitCells++
			hitMines += n
			continue
		}
		g.revealSafe(c, updates)
	}

	if hitCells > 0 {
		g.livesRemaining -= hitCells
		if g.livesRemaining <= 0 {
			g.livesRemaining = 0
			g.finalizeLoss(updates)
			return
		}
		g.minesRemaining -= hitMines
	}
	if g.isAllSafeRevealed() {
		g.finalizeWin(updates)
	}
}

// открывает безопасную ячейку; нулевая запускает итеративную
// заливку своего проёма через явную очередь
func (g *Game) revealSafe(start Coord, updates map[Coord]CellContents) {
	completed := g.mf.CompletedBoard()
	g.setCell(start, completed.Get(start), updates)
	if completed.Get(start) != Num(0) {
		return
	}
	frontier := []Coord{start}
	for len(frontier) > 0 {
		c := frontier[0]
		frontier = frontier[1:]
		for _, nb := range g.board.Nbrs(c, false) {
			if g.board.Get(nb) != Unclicked() {
				continue
			}
			g.setCell(nb, completed.Get(nb), updates)
			if completed.Get(nb) == Num(0) {
				frontier = append(frontier, nb)
			}
		}
	}
}

func (g *Game) setCell(c Coord, v CellContents, updates map[Coord]CellContents) {
	g.board.Set(c, v)
	updates[c] = v
}

func (g *Game) isAllSafeRevealed() bool {
	for _, c := range g.board.AllCoords() {
		if !g.mf.HasMine(c) && g.board.Get(c).Kind != KindNum {
			return false
		}
	}
	return true
}

// создаёт минное поле под первый клик и запускает таймер
func (g *Game) start(first Coord) error {
	if g.mf == nil {
		var safe []Coord
		if g.firstSuccess {
			// пытаемся освободить всю окрестность, чтобы первый клик
			// открыл проём; при нехватке места - только саму ячейку
			area := g.board.Nbrs(first, true)
			if g.mines <= g.perCell*(g.xSize*g.ySize-len(area)) {
				safe = area
			} else {
				safe = []Coord{first}
			}
		}
		mf, err := NewMinefield(g.xSize, g.ySize, g.mines, g.perCell, safe)
		if err != nil {
			return err
		}
		g.mf = mf
	}
	g.state = StateActive
	g.startTime = g.now()
	return nil
}

// проигрыш: показать оставшиеся мины, пометить неверные флаги
func (g *Game) finalizeLoss(updates map[Coord]CellContents) {
	g.state = StateLost
	g.endTime = g.now()
	for _, c := range g.board.AllCoords() {
		cell := g.board.Get(c)
		if g.mf.HasMine(c) {
			if cell == Unclicked() {
				g.setCell(c, Mine(g.mf.MineCount(c)), updates)
			}
			continue
		}
		if cell.Kind == KindFlag {
			g.setCell(c, WrongFlag(cell.Num), updates)
		}
	}
}

// победа: все мины автоматически флагуются по их реальному числу
func (g *Game) finalizeWin(updates map[Coord]CellContents) {
	g.state = StateWon
	g.endTime = g.now()
	for _, c := range g.board.AllCoords() {
		if !g.mf.HasMine(c) {
			continue
		}
		if want := Flag(g.mf.MineCount(c)); g.board.Get(c) != want {
			g.setCell(c, want, updates)
		}
	}
	g.minesRemaining = 0
}

// ---------------------------------------------------------------------------
// производные метрики (только чтение, состояние не меняют)
// ---------------------------------------------------------------------------

// Elapsed - время партии; для активной игры считается от текущего момента
func (g *Game) Elapsed() (time.Duration, error) {
	if g.startTime.IsZero() {
		return 0, ErrGameNotStarted
	}
	if !g.endTime.IsZero() {
		return g.endTime.Sub(g.startTime), nil
	}
	return g.now().Sub(g.startTime), nil
}

// Bbbvps - скорость в 3bv/сек; мгновенная победа даёт +Inf
func (g *Game) Bbbvps() (float64, error) {
	elapsed, err := g.Elapsed()
	if err != nil {
		return 0, err
	}
	if g.mf == nil {
		return 0, ErrGameNotStarted
	}
	if elapsed <= 0 {
		return math.Inf(1), nil
	}
	return float64(g.mf.Bbbv()) / elapsed.Seconds(), nil
}

// FlagProportion - доля флагов, выставленных игроком, от общего числа
// мин. Автофлаговка при победе не считается; может превышать 1 при
// перефлаговке, флаги на поле без мин дают +Inf
func (g *Game) FlagProportion() float64 {
	if g.mines == 0 {
		if g.flagsPlaced == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return float64(g.flagsPlaced) / float64(g.mines)
}

// RemBbbv - сколько 3bv ещё предстоит заработать: 3bv неоткрытой части
// доски (частично залитый, но заблокированный проём всё ещё стоит клика)
func (g *Game) RemBbbv() (int, error) {
	if g.mf == nil {
		return 0, ErrGameNotStarted
	}
	switch g.state {
	case StateWon:
		return 0, nil
	case StateReady:
		return g.mf.Bbbv(), nil
	}

	completed := g.mf.CompletedBoard()
	unrevealed := func(c Coord) bool {
		return !g.mf.HasMine(c) && g.board.Get(c).Kind != KindNum
	}

	// связные компоненты неоткрытых нулей плюс потреблённые ими числа
	visited := make(map[Coord]bool)
	consumed := make(map[Coord]bool)
	rem := 0
	for _, start := range g.board.AllCoords() {
		if visited[start] || !unrevealed(start) || completed.Get(start) != Num(0) {
			continue
		}
		rem++
		visited[start] = true
		frontier := []Coord{start}
		for len(frontier) > 0 {
			c := frontier[0]
			frontier = frontier[1:]
			consumed[c] = true
			for _, nb := range g.board.Nbrs(c, false) {
				if visited[nb] || !unrevealed(nb) {
					continue
				}
				consumed[nb] = true
				if completed.Get(nb) == Num(0) {
					visited[nb] = true
					frontier = append(frontier, nb)
				}
			}
		}
	}
	for _, c := range g.board.AllCoords() {
		if unrevealed(c) && !consumed[c] {
			rem++
		}
	}
	return rem, nil
}

// PropComplete - заработанная доля 3bv (0 для свежей игры, 1 для победы)
func (g *Game) PropComplete() (float64, error) {
	rem, err := g.RemBbbv()
	if err != nil {
		return 0, err
	}
	bbbv := g.mf.Bbbv()
	if bbbv == 0 {
		return 1, nil
	}
	return float64(bbbv-rem) / float64(bbbv), nil
}
