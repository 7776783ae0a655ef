package game

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCellContents(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want CellContents
	}{
		{"#", Unclicked()},
		{".", Num(0)},
		{"0", Num(0)},
		{"3", Num(3)},
		{"12", Num(12)}, // при per_cell > 1 числа могут превышать 8
		{"F1", Flag(1)},
		{"F3", Flag(3)},
		{"M2", Mine(2)},
		{"!1", HitMine(1)},
		{"X1", WrongFlag(1)},
	} {
		got, err := ParseCellContents(tc.in)
		if err != nil {
			t.Errorf("разбор %q: неожиданная ошибка %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("разбор %q: ожидалось %v, получено %v", tc.in, tc.want, got)
		}
	}
}

func TestParseCellContentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Z1", "F0", "F", "-1", "M-2", "мина"} {
		_, err := ParseCellContents(in)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("разбор %q: ожидалась ошибка ErrInvalidFormat, получено %v", in, err)
		}
	}
}

func TestCellContentsStringRoundTrip(t *testing.T) {
	for _, cell := range []CellContents{
		Unclicked(), Num(1), Num(8), Flag(2), Mine(1), HitMine(3), WrongFlag(1),
	} {
		got, err := ParseCellContents(cell.String())
		if err != nil {
			t.Fatalf("разбор %q: %v", cell.String(), err)
		}
		if got != cell {
			t.Errorf("круговой обход %v: получено %v", cell, got)
		}
	}
}

func TestNewBoardStartsUnclicked(t *testing.T) {
	b, err := NewBoard(3, 2)
	if err != nil {
		t.Fatalf("не удалось создать доску: %v", err)
	}
	for _, c := range b.AllCoords() {
		if b.Get(c) != Unclicked() {
			t.Fatalf("ячейка %s: ожидалась закрытая, получено %v", c, b.Get(c))
		}
	}
}

func TestBoardFromRows(t *testing.T) {
	b, err := BoardFromRows([][]string{
		{"#", "1", "F1"},
		{".", "2", "M1"},
	})
	if err != nil {
		t.Fatalf("не удалось построить доску: %v", err)
	}
	if b.XSize() != 3 || b.YSize() != 2 {
		t.Fatalf("ожидалась доска 3x2, получено %dx%d", b.XSize(), b.YSize())
	}
	for _, tc := range []struct {
		c    Coord
		want CellContents
	}{
		{Coord{0, 0}, Unclicked()},
		{Coord{1, 0}, Num(1)},
		{Coord{2, 0}, Flag(1)},
		{Coord{0, 1}, Num(0)},
		{Coord{1, 1}, Num(2)},
		{Coord{2, 1}, Mine(1)},
	} {
		if got := b.Get(tc.c); got != tc.want {
			t.Errorf("ячейка %s: ожидалось %v, получено %v", tc.c, tc.want, got)
		}
	}
}

func TestBoardFromRowsNamesBadCell(t *testing.T) {
	_, err := BoardFromRows([][]string{
		{"#", "#"},
		{"#", "ЫЫ"},
	})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("ожидалась ошибка ErrInvalidFormat, получено %v", err)
	}
	if !strings.Contains(err.Error(), "(1,1)") {
		t.Errorf("ошибка должна называть координату (1,1): %v", err)
	}
}

func TestBoardFromRowsRejectsRaggedRows(t *testing.T) {
	_, err := BoardFromRows([][]string{
		{"#", "#", "#"},
		{"#", "#"},
	})
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ожидалась ошибка ErrInvalidFormat для строк разной длины, получено %v", err)
	}
	_, err = BoardFromRows(nil)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ожидалась ошибка ErrInvalidFormat для пустого описания, получено %v", err)
	}
}

func TestBoardStringShowsZeroAsDot(t *testing.T) {
	b, _ := NewBoard(2, 1)
	b.Set(Coord{0, 0}, Num(0))
	b.Set(Coord{1, 0}, Num(3))
	out := b.String()
	if !strings.Contains(out, ".") {
		t.Errorf("нулевое число должно выводиться точкой: %q", out)
	}
	if !strings.Contains(out, "3") {
		t.Errorf("число должно присутствовать в выводе: %q", out)
	}
}

func TestBoardEqualAndCopy(t *testing.T) {
	b, _ := NewBoard(2, 2)
	cp := b.Copy()
	if !b.Equal(cp) {
		t.Fatalf("копия должна быть равна оригиналу")
	}
	cp.Set(Coord{1, 1}, Flag(1))
	if b.Equal(cp) {
		t.Errorf("после изменения копии доски не должны быть равны")
	}
	if b.Get(Coord{1, 1}) != Unclicked() {
		t.Errorf("изменение копии не должно затрагивать оригинал")
	}
}
