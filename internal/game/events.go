package game

// Listener получает инкрементальные события от контроллера.
// Вызовы идут из горутины вызвавшего ход; реализация сама
// отвечает за свою потокобезопасность
type Listener interface {
	// Reset - доска сброшена целиком, размеры прежние
	Reset()
	// ResizeMinefield - изменились размеры поля
	ResizeMinefield(xSize, ySize int)
	// SetMines - изменилось общее число мин
	SetMines(mines int)
	// UpdateCells - изменившиеся ячейки после хода (только дельта)
	UpdateCells(cells map[Coord]CellContents)
	// UpdateMinesRemaining - новое значение счётчика мин
	// (может быть отрицательным при перефлаговке)
	UpdateMinesRemaining(mines int)
	// UpdateGameState - смена фазы партии
	UpdateGameState(state GameState)
	// HandleFinishedGame - партия завершена, итоговая сводка
	HandleFinishedGame(info EndedGameInfo)
}

// GameInfo - текущая сводка партии для внешних потребителей
type GameInfo struct {
	GameState      GameState  `json:"game_state"`
	XSize          int        `json:"x_size"`
	YSize          int        `json:"y_size"`
	Mines          int        `json:"mines"`
	Difficulty     Difficulty `json:"difficulty"`
	PerCell        int        `json:"per_cell"`
	FirstSuccess   bool       `json:"first_success"`
	DragSelect     bool       `json:"drag_select"`
	MinesRemaining int        `json:"mines_remaining"`
	LivesRemaining int        `json:"lives_remaining"`

	// заполняется только для завершённых партий
	Ended *EndedGameInfo `json:"ended_info,omitempty"`
}

// EndedGameInfo - итог завершённой партии (для рекордов и статистики).
// Самодостаточен: уходит внешним клиентам одним кадром, без обратных
// запросов к контроллеру
type EndedGameInfo struct {
	GameState      GameState  `json:"state"`
	Difficulty     Difficulty `json:"difficulty"`
	PerCell        int        `json:"per_cell"`
	StartTime      float64    `json:"start_time"`
	ElapsedSecs    float64    `json:"elapsed"`
	Bbbv           int        `json:"bbbv"`
	Bbbvps         float64    `json:"bbbvps"`
	PropComplete   float64    `json:"prop_complete"`
	PropFlagging   float64    `json:"prop_flagging"`
	MinefieldKnown bool       `json:"minefield_known"`
}

// notifier рассылает события всем подписчикам в порядке регистрации
type notifier struct {
	listeners []Listener
}

func (n *notifier) Register(l Listener) {
	if l == nil {
		return
	}
	n.listeners = append(n.listeners, l)
}

func (n *notifier) Reset() {
	for _, l := range n.listeners {
		l.Reset()
	}
}

func (n *notifier) ResizeMinefield(xSize, ySize int) {
	for _, l := range n.listeners {
		l.ResizeMinefield(xSize, ySize)
	}
}

func (n *notifier) SetMines(mines int) {
	for _, l := range n.listeners {
		l.SetMines(mines)
	}
}

func (n *notifier) UpdateCells(cells map[Coord]CellContents) {
	if len(cells) == 0 {
		return
	}
	for _, l := range n.listeners {
		l.UpdateCells(cells)
	}
}

func (n *notifier) UpdateMinesRemaining(mines int) {
	for _, l := range n.listeners {
		l.UpdateMinesRemaining(mines)
	}
}

func (n *notifier) UpdateGameState(state GameState) {
	for _, l := range n.listeners {
		l.UpdateGameState(state)
	}
}

func (n *notifier) HandleFinishedGame(info EndedGameInfo) {
	for _, l := range n.listeners {
		l.HandleFinishedGame(info)
	}
}
