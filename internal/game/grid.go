package game

import "fmt"

// Coord - координата ячейки, 0 <= X < XSize, 0 <= Y < YSize
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Grid - прямоугольный 2D контейнер с перечислением соседей.
// Выход за границы - ошибка программирования, поэтому Get/Set паникуют;
// вызывающий код проверяет координаты через Contains
type Grid[T comparable] struct {
	XSize int
	YSize int
	cells []T
}

// NewGrid создаёт решётку xSize на ySize, заполненную значением fill
func NewGrid[T comparable](xSize, ySize int, fill T) (*Grid[T], error) {
	if xSize <= 0 || ySize <= 0 {
		return nil, fmt.Errorf("%w: размеры должны быть положительными, получено %dx%d",
			ErrInvalidArgument, xSize, ySize)
	}
	g := &Grid[T]{XSize: xSize, YSize: ySize, cells: make([]T, xSize*ySize)}
	for i := range g.cells {
		g.cells[i] = fill
	}
	return g, nil
}

func (g *Grid[T]) Contains(c Coord) bool {
	return c.X >= 0 && c.X < g.XSize && c.Y >= 0 && c.Y < g.YSize
}

func (g *Grid[T]) Get(c Coord) T {
	if !g.Contains(c) {
		panic(fmt.Sprintf("координата %s вне решётки %dx%d", c, g.XSize, g.YSize))
	}
	return g.cells[c.Y*g.XSize+c.X]
}

func (g *Grid[T]) Set(c Coord, v T) {
	if !g.Contains(c) {
		panic(fmt.Sprintf("координата %s вне решётки %dx%d", c, g.XSize, g.YSize))
	}
	g.cells[c.Y*g.XSize+c.X] = v
}

// Fill заполняет все ячейки одним значением
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// AllCoords возвращает все координаты решётки
func (g *Grid[T]) AllCoords() []Coord {
	coords := make([]Coord, 0, g.XSize*g.YSize)
	for y := 0; y < g.YSize; y++ {
		for x := 0; x < g.XSize; x++ {
			coords = append(coords, Coord{x, y})
		}
	}
	return coords
}

// Nbrs возвращает соседей в радиусе 1 по Чебышёву, обрезанных по границам.
// Сама координата включается только при includeOrigin
func (g *Grid[T]) Nbrs(c Coord, includeOrigin bool) []Coord {
	nbrs := make([]Coord, 0, 9)
	for x := max(0, c.X-1); x <= min(g.XSize-1, c.X+1); x++ {
		for y := max(0, c.Y-1); y <= min(g.YSize-1, c.Y+1); y++ {
			if !includeOrigin && x == c.X && y == c.Y {
				continue
			}
			nbrs = append(nbrs, Coord{x, y})
		}
	}
	return nbrs
}

// Equal сравнивает решётки поэлементно
func (g *Grid[T]) Equal(other *Grid[T]) bool {
	if other == nil || g.XSize != other.XSize || g.YSize != other.YSize {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Copy возвращает независимую копию решётки
func (g *Grid[T]) Copy() *Grid[T] {
	cp := &Grid[T]{XSize: g.XSize, YSize: g.YSize, cells: make([]T, len(g.cells))}
	copy(cp.cells, g.cells)
	return cp
}
