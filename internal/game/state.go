package game

import "fmt"

// GameState - стадия игровой сессии
type GameState string

const (
	StateReady  GameState = "ready"  // ни одна ячейка ещё не открыта
	StateActive GameState = "active" // первый ход сделан, таймер идёт
	StateWon    GameState = "won"
	StateLost   GameState = "lost"
)

// игра ещё не начата (минное поле может отсутствовать)
func (s GameState) Unstarted() bool { return s == StateReady }

// игра завершена и больше не принимает ходов
func (s GameState) Finished() bool { return s == StateWon || s == StateLost }

// игра принимает ходы
func (s GameState) InProgress() bool { return s == StateReady || s == StateActive }

// Difficulty - классификация поля по стандартным пресетам,
// используется только для табличек рекордов
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "B"
	DifficultyIntermediate Difficulty = "I"
	DifficultyExpert       Difficulty = "E"
	DifficultyMaster       Difficulty = "M"
	DifficultyCustom       Difficulty = "C"
)

// DifficultyFrom подбирает пресет по точному совпадению размеров и числа мин
func DifficultyFrom(xSize, ySize, mines int) Difficulty {
	switch {
	case xSize == 8 && ySize == 8 && mines == 10:
		return DifficultyBeginner
	case xSize == 16 && ySize == 16 && mines == 40:
		return DifficultyIntermediate
	case xSize == 30 && ySize == 16 && mines == 99:
		return DifficultyExpert
	case xSize == 30 && ySize == 30 && mines == 200:
		return DifficultyMaster
	default:
		return DifficultyCustom
	}
}

// UIMode - режим контроллера: обычная игра или ручное создание досок
type UIMode string

const (
	ModeGame   UIMode = "game"
	ModeCreate UIMode = "create"
)

// GameOpts - настройки сессии. Копируются в Game при создании
// и не меняются до следующей игры
type GameOpts struct {
	XSize        int  `json:"x_size"`
	YSize        int  `json:"y_size"`
	Mines        int  `json:"mines"`
	PerCell      int  `json:"per_cell"`
	Lives        int  `json:"lives"`
	FirstSuccess bool `json:"first_success"`
	// влияет только на то, как UI группирует клики; движок не трогает
	DragSelect bool `json:"drag_select"`
}

// DefaultOpts - настройки новичка: 8x8, 10 мин
func DefaultOpts() GameOpts {
	return GameOpts{
		XSize:   8,
		YSize:   8,
		Mines:   10,
		PerCell: 1,
		Lives:   1,
	}
}

// Validate проверяет, что настройки допустимы
func (o GameOpts) Validate() error {
	if o.XSize <= 0 || o.YSize <= 0 {
		return fmt.Errorf("%w: размеры должны быть положительными, получено %dx%d",
			ErrInvalidArgument, o.XSize, o.YSize)
	}
	if o.PerCell < 1 {
		return fmt.Errorf("%w: per_cell должен быть не меньше 1, получено %d",
			ErrInvalidArgument, o.PerCell)
	}
	if o.Lives < 1 {
		return fmt.Errorf("%w: число жизней должно быть не меньше 1, получено %d",
			ErrInvalidArgument, o.Lives)
	}
	if o.Mines < 0 || o.Mines > o.PerCell*(o.XSize*o.YSize-1) {
		return fmt.Errorf("%w: %d мин не помещается на поле %dx%d (per_cell=%d)",
			ErrInvalidArgument, o.Mines, o.XSize, o.YSize, o.PerCell)
	}
	return nil
}
