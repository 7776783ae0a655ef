package game

import (
	"fmt"
	"strconv"
)

// CellKind различает варианты содержимого ячейки
type CellKind int8

const (
	KindUnclicked CellKind = iota // закрытая ячейка (начальное состояние)
	KindNum                       // открытая ячейка с числом мин вокруг
	KindFlag                      // флаг игрока (1..per_cell)
	KindMine                      // открытая мина (показывается при конце игры)
	KindHitMine                   // мина, на которой подорвался игрок
	KindWrongFlag                 // флаг, не накрывший мину (показывается при проигрыше)
)

// CellContents - содержимое одной ячейки доски.
// Значимый тип: сравним через ==, что позволяет дёшево считать дельты
type CellContents struct {
	Kind CellKind
	Num  int
}

func Unclicked() CellContents      { return CellContents{Kind: KindUnclicked} }
func Num(n int) CellContents       { return CellContents{Kind: KindNum, Num: n} }
func Flag(n int) CellContents      { return CellContents{Kind: KindFlag, Num: n} }
func Mine(n int) CellContents      { return CellContents{Kind: KindMine, Num: n} }
func HitMine(n int) CellContents   { return CellContents{Kind: KindHitMine, Num: n} }
func WrongFlag(n int) CellContents { return CellContents{Kind: KindWrongFlag, Num: n} }

// ячейка содержит какой-либо вариант мины (мина, подрыв, неверный флаг)
func (c CellContents) IsMineKind() bool {
	return c.Kind == KindMine || c.Kind == KindHitMine || c.Kind == KindWrongFlag
}

// текстовое представление для импорта/экспорта досок:
// "#" - закрытая, "2" - число, "F1" - флаг, "M1" - мина, "!1" - подрыв, "X1" - неверный флаг
func (c CellContents) String() string {
	switch c.Kind {
	case KindUnclicked:
		return "#"
	case KindNum:
		return strconv.Itoa(c.Num)
	case KindFlag:
		return "F" + strconv.Itoa(c.Num)
	case KindMine:
		return "M" + strconv.Itoa(c.Num)
	case KindHitMine:
		return "!" + strconv.Itoa(c.Num)
	case KindWrongFlag:
		return "X" + strconv.Itoa(c.Num)
	default:
		return "?"
	}
}

// ParseCellContents разбирает текстовое представление ячейки (обратно к String)
func ParseCellContents(s string) (CellContents, error) {
	if s == "#" {
		return Unclicked(), nil
	}
	if s == "." {
		return Num(0), nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return CellContents{}, fmt.Errorf("%w: отрицательное число: %q", ErrInvalidFormat, s)
		}
		return Num(n), nil
	}
	if len(s) < 2 {
		return CellContents{}, fmt.Errorf("%w: неизвестное содержимое ячейки: %q", ErrInvalidFormat, s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return CellContents{}, fmt.Errorf("%w: некорректный счётчик в %q", ErrInvalidFormat, s)
	}
	switch s[0] {
	case 'F':
		return Flag(n), nil
	case 'M':
		return Mine(n), nil
	case '!':
		return HitMine(n), nil
	case 'X':
		return WrongFlag(n), nil
	default:
		return CellContents{}, fmt.Errorf("%w: неизвестное содержимое ячейки: %q", ErrInvalidFormat, s)
	}
}
