package game

import (
	"fmt"
	"strings"
)

// Board - видимая игроку доска: решётка, которая может содержать
// только значения CellContents
type Board struct {
	grid *Grid[CellContents]
}

// NewBoard создаёт доску, полностью заполненную закрытыми ячейками
func NewBoard(xSize, ySize int) (*Board, error) {
	g, err := NewGrid(xSize, ySize, Unclicked())
	if err != nil {
		return nil, err
	}
	return &Board{grid: g}, nil
}

func (b *Board) XSize() int                  { return b.grid.XSize }
func (b *Board) YSize() int                  { return b.grid.YSize }
func (b *Board) Contains(c Coord) bool       { return b.grid.Contains(c) }
func (b *Board) Get(c Coord) CellContents    { return b.grid.Get(c) }
func (b *Board) Set(c Coord, v CellContents) { b.grid.Set(c, v) }
func (b *Board) AllCoords() []Coord          { return b.grid.AllCoords() }

func (b *Board) Nbrs(c Coord, includeOrigin bool) []Coord {
	return b.grid.Nbrs(c, includeOrigin)
}

func (b *Board) Equal(other *Board) bool {
	return other != nil && b.grid.Equal(other.grid)
}

func (b *Board) Copy() *Board {
	return &Board{grid: b.grid.Copy()}
}

// BoardFromRows строит доску из текстового описания (по строкам, поячеечно,
// в представлении CellContents.String). Ошибка формата называет координату
func BoardFromRows(rows [][]string) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: пустое описание доски", ErrInvalidFormat)
	}
	b, err := NewBoard(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != b.XSize() {
			return nil, fmt.Errorf("%w: строка %d имеет длину %d, ожидалось %d",
				ErrInvalidFormat, y, len(row), b.XSize())
		}
		for x, token := range row {
			cell, err := ParseCellContents(token)
			if err != nil {
				return nil, fmt.Errorf("ячейка (%d,%d): %w", x, y, err)
			}
			b.Set(Coord{x, y}, cell)
		}
	}
	return b, nil
}

// String выводит доску построчно; нулевые числа показываются точкой
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.YSize(); y++ {
		for x := 0; x < b.XSize(); x++ {
			cell := b.Get(Coord{x, y})
			rep := cell.String()
			if cell == Num(0) {
				rep = "."
			}
			fmt.Fprintf(&sb, "%2s ", rep)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
