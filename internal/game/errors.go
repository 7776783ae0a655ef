package game

import "errors"

var (
	// ErrInvalidArgument - некорректные размеры, координаты или количество мин
	ErrInvalidArgument = errors.New("некорректный аргумент")
	// ErrInvalidFormat - не удалось разобрать текстовое описание доски/минного поля
	ErrInvalidFormat = errors.New("некорректный формат")
	// ErrGameNotStarted - метрика запрошена до первого хода
	ErrGameNotStarted = errors.New("игра ещё не начата")
)
