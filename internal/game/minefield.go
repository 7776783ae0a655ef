package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Minefield - неизменяемая после создания раскладка мин.
// Справочная доска, проёмы и 3bv считаются один раз при создании
type Minefield struct {
	xSize   int
	ySize   int
	perCell int

	counts    *Grid[int] // число мин в каждой ячейке (0..perCell)
	mines     int        // суммарное число мин
	completed *Board
	openings  [][]Coord
	bbbv      int
}

// NewMinefield размещает mines мин случайно, не затрагивая safeCoords.
// Если safeCoords пуст, одна случайная ячейка всё равно остаётся свободной,
// чтобы поле гарантированно было решаемым
func NewMinefield(xSize, ySize, mines, perCell int, safeCoords []Coord) (*Minefield, error) {
	counts, err := NewGrid(xSize, ySize, 0)
	if err != nil {
		return nil, err
	}
	if perCell < 1 {
		return nil, fmt.Errorf("%w: per_cell должен быть не меньше 1, получено %d",
			ErrInvalidArgument, perCell)
	}
	if mines < 0 {
		return nil, fmt.Errorf("%w: отрицательное число мин: %d", ErrInvalidArgument, mines)
	}

	safe := make(map[Coord]bool, len(safeCoords))
	for _, c := range safeCoords {
		if !counts.Contains(c) {
			return nil, fmt.Errorf("%w: безопасная координата %s вне поля %dx%d",
				ErrInvalidArgument, c, xSize, ySize)
		}
		safe[c] = true
	}

	total := xSize * ySize
	reserved := len(safe)
	if reserved == 0 {
		reserved = 1
	}
	if mines > perCell*(total-reserved) {
		return nil, fmt.Errorf("%w: %d мин не помещается на поле %dx%d с %d безопасными ячейками (per_cell=%d)",
			ErrInvalidArgument, mines, xSize, ySize, len(safe), perCell)
	}

	// доступные для мин ячейки; при отсутствии явных безопасных координат
	// резервируем одну случайную
	available := make([]Coord, 0, total)
	for _, c := range counts.AllCoords() {
		if !safe[c] {
			available = append(available, c)
		}
	}
	if len(safe) == 0 {
		i := rand.Intn(len(available))
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
	}

	// повторные случайные выборки; заполненные до per_cell ячейки выбывают
	for placed := 0; placed < mines; placed++ {
		i := rand.Intn(len(available))
		c := available[i]
		counts.Set(c, counts.Get(c)+1)
		if counts.Get(c) == perCell {
			available[i] = available[len(available)-1]
			available = available[:len(available)-1]
		}
	}

	return finishMinefield(counts, mines, perCell)
}

// MinefieldFromCoords размещает мины по явному списку координат
// (координата повторяется по числу мин в ячейке); используется
// в тестах и при воспроизведении сохранённых полей
func MinefieldFromCoords(xSize, ySize int, coords []Coord, perCell int) (*Minefield, error) {
	counts, err := NewGrid(xSize, ySize, 0)
	if err != nil {
		return nil, err
	}
	if perCell < 1 {
		return nil, fmt.Errorf("%w: per_cell должен быть не меньше 1, получено %d",
			ErrInvalidArgument, perCell)
	}
	for _, c := range coords {
		if !counts.Contains(c) {
			return nil, fmt.Errorf("%w: координата мины %s вне поля %dx%d",
				ErrInvalidArgument, c, xSize, ySize)
		}
		counts.Set(c, counts.Get(c)+1)
		if counts.Get(c) > perCell {
			return nil, fmt.Errorf("%w: в ячейке %s больше %d мин",
				ErrInvalidArgument, c, perCell)
		}
	}
	return finishMinefield(counts, len(coords), perCell)
}

// MinefieldFromRows строит поле из массива счётчиков мин по строкам
func MinefieldFromRows(rows [][]int, perCell int) (*Minefield, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: пустое описание минного поля", ErrInvalidFormat)
	}
	var coords []Coord
	for y, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: строка %d имеет длину %d, ожидалось %d",
				ErrInvalidFormat, y, len(row), len(rows[0]))
		}
		for x, n := range row {
			if n < 0 {
				return nil, fmt.Errorf("%w: отрицательный счётчик мин в ячейке (%d,%d)",
					ErrInvalidFormat, x, y)
			}
			for i := 0; i < n; i++ {
				coords = append(coords, Coord{x, y})
			}
		}
	}
	return MinefieldFromCoords(len(rows[0]), len(rows), coords, perCell)
}

// достраивает кэшируемые производные: справочную доску, проёмы и 3bv
func finishMinefield(counts *Grid[int], mines, perCell int) (*Minefield, error) {
	m := &Minefield{
		xSize:   counts.XSize,
		ySize:   counts.YSize,
		perCell: perCell,
		counts:  counts,
		mines:   mines,
	}

	board, err := NewBoard(m.xSize, m.ySize)
	if err != nil {
		return nil, err
	}
	for _, c := range counts.AllCoords() {
		if n := counts.Get(c); n > 0 {
			board.Set(c, Mine(n))
			continue
		}
		sum := 0
		for _, nb := range counts.Nbrs(c, false) {
			sum += counts.Get(nb)
		}
		board.Set(c, Num(sum))
	}
	m.completed = board

	m.openings = m.findOpenings()
	m.bbbv = m.computeBbbv()
	return m, nil
}

// проёмы: максимальные связные области нулевых ячеек вместе
// с окаймляющими их числами
func (m *Minefield) findOpenings() [][]Coord {
	var openings [][]Coord
	visited := make(map[Coord]bool)

	for _, start := range m.completed.AllCoords() {
		if visited[start] || m.completed.Get(start) != Num(0) {
			continue
		}
		inOpening := make(map[Coord]bool)
		frontier := []Coord{start}
		visited[start] = true
		inOpening[start] = true
		for len(frontier) > 0 {
			c := frontier[0]
			frontier = frontier[1:]
			for _, nb := range m.completed.Nbrs(c, false) {
				if inOpening[nb] {
					continue
				}
				inOpening[nb] = true
				if m.completed.Get(nb) == Num(0) {
					visited[nb] = true
					frontier = append(frontier, nb)
				}
			}
		}
		opening := make([]Coord, 0, len(inOpening))
		for c := range inOpening {
			opening = append(opening, c)
		}
		openings = append(openings, opening)
	}
	return openings
}

// 3bv: по клику на каждый проём плюс по клику на каждое число,
// не открываемое проёмом бесплатно; мины кликов не требуют
func (m *Minefield) computeBbbv() int {
	consumed := make(map[Coord]bool)
	for _, opening := range m.openings {
		for _, c := range opening {
			consumed[c] = true
		}
	}
	bbbv := len(m.openings)
	for _, c := range m.counts.AllCoords() {
		if m.counts.Get(c) == 0 && !consumed[c] {
			bbbv++
		}
	}
	return bbbv
}

func (m *Minefield) XSize() int   { return m.xSize }
func (m *Minefield) YSize() int   { return m.ySize }
func (m *Minefield) PerCell() int { return m.perCell }

// Mines возвращает суммарное число мин на поле
func (m *Minefield) Mines() int { return m.mines }

// MineCount возвращает число мин в ячейке
func (m *Minefield) MineCount(c Coord) int { return m.counts.Get(c) }

func (m *Minefield) HasMine(c Coord) bool { return m.counts.Get(c) > 0 }

func (m *Minefield) Contains(c Coord) bool { return m.counts.Contains(c) }

// CompletedBoard - полностью решённая справочная доска:
// числа на безопасных ячейках, Mine(n) на минах
func (m *Minefield) CompletedBoard() *Board { return m.completed }

func (m *Minefield) Openings() [][]Coord { return m.openings }

// Bbbv - минимальное число кликов идеального игрока
func (m *Minefield) Bbbv() int { return m.bbbv }

// MineCoords возвращает координаты мин с повторами по числу мин в ячейке
func (m *Minefield) MineCoords() []Coord {
	coords := make([]Coord, 0, m.mines)
	for _, c := range m.counts.AllCoords() {
		for i := 0; i < m.counts.Get(c); i++ {
			coords = append(coords, c)
		}
	}
	return coords
}

// Equal сравнивает раскладки мин
func (m *Minefield) Equal(other *Minefield) bool {
	return other != nil && m.perCell == other.perCell && m.counts.Equal(other.counts)
}

// сериализация минного поля; хранение - забота внешних коллабораторов
type minefieldJSON struct {
	XSize      int      `json:"x_size"`
	YSize      int      `json:"y_size"`
	MineCoords [][2]int `json:"mine_coords"`
	PerCell    int      `json:"per_cell"`
}

func (m *Minefield) MarshalJSON() ([]byte, error) {
	mj := minefieldJSON{
		XSize:   m.xSize,
		YSize:   m.ySize,
		PerCell: m.perCell,
	}
	for _, c := range m.MineCoords() {
		mj.MineCoords = append(mj.MineCoords, [2]int{c.X, c.Y})
	}
	return json.Marshal(mj)
}

// MinefieldFromJSON восстанавливает поле из сериализованного вида
func MinefieldFromJSON(data []byte) (*Minefield, error) {
	var mj minefieldJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	coords := make([]Coord, 0, len(mj.MineCoords))
	for _, xy := range mj.MineCoords {
		coords = append(coords, Coord{xy[0], xy[1]})
	}
	return MinefieldFromCoords(mj.XSize, mj.YSize, coords, mj.PerCell)
}
