package game

import (
	"errors"
	"testing"
)

func TestNewGridValidatesDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {3, -1}, {0, 0}} {
		_, err := NewGrid(dims[0], dims[1], 0)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("размеры %dx%d: ожидалась ошибка ErrInvalidArgument, получено %v",
				dims[0], dims[1], err)
		}
	}
}

func TestGridFillAndGetSet(t *testing.T) {
	g, err := NewGrid(3, 2, 7)
	if err != nil {
		t.Fatalf("не удалось создать решётку: %v", err)
	}
	for _, c := range g.AllCoords() {
		if g.Get(c) != 7 {
			t.Fatalf("ячейка %s: ожидалось заполнение 7, получено %d", c, g.Get(c))
		}
	}
	g.Set(Coord{2, 1}, 42)
	if g.Get(Coord{2, 1}) != 42 {
		t.Errorf("ожидалось 42 после Set, получено %d", g.Get(Coord{2, 1}))
	}
	g.Fill(0)
	if g.Get(Coord{2, 1}) != 0 {
		t.Errorf("ожидалось 0 после Fill, получено %d", g.Get(Coord{2, 1}))
	}
}

func TestGridGetPanicsOutOfBounds(t *testing.T) {
	g, _ := NewGrid(2, 2, 0)
	defer func() {
		if recover() == nil {
			t.Errorf("ожидалась паника при выходе за границы")
		}
	}()
	g.Get(Coord{2, 0})
}

func TestGridContains(t *testing.T) {
	g, _ := NewGrid(4, 3, 0)
	for _, tc := range []struct {
		c    Coord
		want bool
	}{
		{Coord{0, 0}, true},
		{Coord{3, 2}, true},
		{Coord{4, 2}, false},
		{Coord{3, 3}, false},
		{Coord{-1, 0}, false},
		{Coord{0, -1}, false},
	} {
		if got := g.Contains(tc.c); got != tc.want {
			t.Errorf("Contains(%s): ожидалось %v, получено %v", tc.c, tc.want, got)
		}
	}
}

func TestGridAllCoordsRowMajor(t *testing.T) {
	g, _ := NewGrid(3, 2, 0)
	want := []Coord{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
	}
	got := g.AllCoords()
	if len(got) != len(want) {
		t.Fatalf("ожидалось %d координат, получено %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("координата %d: ожидалось %s, получено %s", i, want[i], got[i])
		}
	}
}

func TestGridNbrs(t *testing.T) {
	g, _ := NewGrid(4, 4, 0)
	for _, tc := range []struct {
		c             Coord
		includeOrigin bool
		want          int
	}{
		{Coord{0, 0}, false, 3}, // угол
		{Coord{1, 0}, false, 5}, // край
		{Coord{1, 1}, false, 8}, // центр
		{Coord{1, 1}, true, 9},  // центр вместе с собой
		{Coord{3, 3}, false, 3}, // противоположный угол
	} {
		got := g.Nbrs(tc.c, tc.includeOrigin)
		if len(got) != tc.want {
			t.Errorf("Nbrs(%s, %v): ожидалось %d соседей, получено %d",
				tc.c, tc.includeOrigin, tc.want, len(got))
		}
		for _, nb := range got {
			if !g.Contains(nb) {
				t.Errorf("Nbrs(%s): сосед %s вне решётки", tc.c, nb)
			}
			if !tc.includeOrigin && nb == tc.c {
				t.Errorf("Nbrs(%s): сама координата попала в соседей", tc.c)
			}
		}
	}
}

func TestGridCopyIndependent(t *testing.T) {
	g, _ := NewGrid(2, 2, 1)
	cp := g.Copy()
	if !g.Equal(cp) {
		t.Fatalf("копия должна быть равна оригиналу")
	}
	cp.Set(Coord{0, 0}, 99)
	if g.Get(Coord{0, 0}) == 99 {
		t.Errorf("изменение копии не должно затрагивать оригинал")
	}
	if g.Equal(cp) {
		t.Errorf("после изменения копии решётки не должны быть равны")
	}
}
