package game

import (
	"errors"
	"testing"
)

// recorder фиксирует события контроллера в порядке получения
type recorder struct {
	events []string
	cells  []map[Coord]CellContents
	mines  []int
	states []GameState
	infos  []EndedGameInfo
}

func (r *recorder) Reset()                   { r.events = append(r.events, "reset") }
func (r *recorder) ResizeMinefield(x, y int) { r.events = append(r.events, "resize") }
func (r *recorder) SetMines(mines int)       { r.events = append(r.events, "set_mines") }
func (r *recorder) UpdateCells(cells map[Coord]CellContents) {
	r.events = append(r.events, "update_cells")
	r.cells = append(r.cells, cells)
}
func (r *recorder) UpdateMinesRemaining(mines int) {
	r.events = append(r.events, "update_mines_remaining")
	r.mines = append(r.mines, mines)
}
func (r *recorder) UpdateGameState(state GameState) {
	r.events = append(r.events, "update_game_state")
	r.states = append(r.states, state)
}
func (r *recorder) HandleFinishedGame(info EndedGameInfo) {
	r.events = append(r.events, "handle_finished_game")
	r.infos = append(r.infos, info)
}

func (r *recorder) clear() {
	r.events = nil
	r.cells = nil
	r.mines = nil
	r.states = nil
	r.infos = nil
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func testController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	ct, err := NewController(GameOpts{XSize: 4, YSize: 4, Mines: 3, PerCell: 2, Lives: 1})
	if err != nil {
		t.Fatalf("не удалось создать контроллер: %v", err)
	}
	rec := &recorder{}
	ct.RegisterListener(rec)
	if err := ct.GamePlay().LoadMinefield(testMinefield(t)); err != nil {
		t.Fatalf("не удалось загрузить поле: %v", err)
	}
	rec.clear()
	return ct, rec
}

func TestControllerSelectSendsOnlyDelta(t *testing.T) {
	ct, rec := testController(t)
	if err := ct.SelectCell(Coord{0, 0}); err != nil {
		t.Fatalf("ход не прошёл: %v", err)
	}
	if rec.count("update_cells") != 1 {
		t.Fatalf("ожидалось одно событие update_cells, события: %v", rec.events)
	}
	if len(rec.cells[0]) != 12 {
		t.Errorf("ожидалась дельта из 12 ячеек, получено %d", len(rec.cells[0]))
	}
	// счётчик мин не менялся - события быть не должно
	if rec.count("update_mines_remaining") != 0 {
		t.Errorf("лишнее событие update_mines_remaining: %v", rec.events)
	}
	// переход ready -> active
	if rec.count("update_game_state") != 1 || rec.states[0] != StateActive {
		t.Errorf("ожидался переход в active, события: %v", rec.events)
	}
}

func TestControllerNoopSendsNothing(t *testing.T) {
	ct, rec := testController(t)
	if err := ct.SelectCell(Coord{0, 0}); err != nil {
		t.Fatalf("ход не прошёл: %v", err)
	}
	rec.clear()
	// повторный клик по открытой ячейке
	if err := ct.SelectCell(Coord{0, 0}); err != nil {
		t.Fatalf("повторный клик не должен быть ошибкой: %v", err)
	}
	// аккорд с несовпадающими флагами
	if err := ct.ChordOnCell(Coord{0, 2}); err != nil {
		t.Fatalf("аккорд не должен быть ошибкой: %v", err)
	}
	// снятие флагов с ячейки без флагов
	if err := ct.RemoveCellFlags(Coord{1, 3}); err != nil {
		t.Fatalf("снятие флагов не должно быть ошибкой: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("no-op интенты не должны порождать событий: %v", rec.events)
	}
}

func TestControllerFlagCycle(t *testing.T) {
	ct, rec := testController(t)
	c := Coord{0, 0}
	// пусто -> F1 -> F2 -> пусто (per_cell = 2)
	steps := []struct {
		want      CellContents
		remaining int
	}{
		{Flag(1), 2},
		{Flag(2), 1},
		{Unclicked(), 3},
	}
	for i, step := range steps {
		if err := ct.FlagCell(c, false); err != nil {
			t.Fatalf("шаг %d: флаг не прошёл: %v", i, err)
		}
		if got := ct.Board().Get(c); got != step.want {
			t.Errorf("шаг %d: ожидалось %v, получено %v", i, step.want, got)
		}
		if rec.mines[len(rec.mines)-1] != step.remaining {
			t.Errorf("шаг %d: ожидался счётчик %d, получено %d",
				i, step.remaining, rec.mines[len(rec.mines)-1])
		}
	}
}

func TestControllerFlagOnlyStopsAtMax(t *testing.T) {
	ct, rec := testController(t)
	c := Coord{0, 0}
	for i := 0; i < 5; i++ {
		if err := ct.FlagCell(c, true); err != nil {
			t.Fatalf("флаг не прошёл: %v", err)
		}
	}
	if got := ct.Board().Get(c); got != Flag(2) {
		t.Errorf("flag_only должен останавливаться на максимуме, получено %v", got)
	}
	// после достижения максимума события прекращаются
	if rec.count("update_cells") != 2 {
		t.Errorf("ожидалось два события update_cells, события: %v", rec.events)
	}
}

func TestControllerRemoveCellFlags(t *testing.T) {
	ct, rec := testController(t)
	c := Coord{1, 1}
	ct.FlagCell(c, false)
	ct.FlagCell(c, false)
	rec.clear()
	if err := ct.RemoveCellFlags(c); err != nil {
		t.Fatalf("снятие флагов не прошло: %v", err)
	}
	if ct.Board().Get(c) != Unclicked() {
		t.Errorf("флаги должны сняться целиком")
	}
	if len(rec.mines) != 1 || rec.mines[0] != 3 {
		t.Errorf("счётчик мин должен вернуться к 3: %v", rec.mines)
	}
}

func TestControllerFinishedGameEvent(t *testing.T) {
	ct, rec := testController(t)
	ct.SelectCell(Coord{0, 0})
	ct.SelectCell(Coord{1, 3})
	ct.SelectCell(Coord{2, 3})
	if rec.count("handle_finished_game") != 1 {
		t.Fatalf("ожидалось одно событие handle_finished_game, события: %v", rec.events)
	}
	info := rec.infos[0]
	if info.Bbbv != 3 {
		t.Errorf("ожидалось 3bv = 3, получено %d", info.Bbbv)
	}
	if info.PropComplete != 1 {
		t.Errorf("ожидалась доля 1, получено %v", info.PropComplete)
	}
	if !info.MinefieldKnown {
		t.Errorf("загруженное поле должно помечаться как known")
	}
	gi := ct.GameInfo()
	if gi.GameState != StateWon || gi.Ended == nil {
		t.Errorf("сводка должна содержать итог завершённой партии")
	}
	// после завершения ходы событий не порождают
	rec.clear()
	ct.SelectCell(Coord{0, 3})
	if len(rec.events) != 0 {
		t.Errorf("ходы после победы не должны порождать событий: %v", rec.events)
	}
}

func TestFinishedGameInfoIsSelfContained(t *testing.T) {
	ct, rec := testController(t)
	ct.SelectCell(Coord{0, 0})
	ct.SelectCell(Coord{1, 3})
	ct.SelectCell(Coord{2, 3})
	if rec.count("handle_finished_game") != 1 {
		t.Fatalf("ожидалось одно событие handle_finished_game, события: %v", rec.events)
	}
	// итог уходит внешним клиентам одним кадром и должен нести
	// состояние, классификацию и per_cell без обратных запросов
	info := rec.infos[0]
	if info.GameState != StateWon {
		t.Errorf("итог должен нести состояние won, получено %q", info.GameState)
	}
	if info.Difficulty != DifficultyCustom {
		t.Errorf("поле 4x4/3 должно классифицироваться как C, получено %q", info.Difficulty)
	}
	if info.PerCell != 2 {
		t.Errorf("итог должен нести per_cell = 2, получено %d", info.PerCell)
	}
	if info.PropFlagging != 0 {
		t.Errorf("победа без флагов должна давать долю флагов 0, получено %v", info.PropFlagging)
	}
}

func TestGameInfoCarriesDragSelect(t *testing.T) {
	ct, err := NewController(GameOpts{XSize: 4, YSize: 4, Mines: 3, PerCell: 1, Lives: 1, DragSelect: true})
	if err != nil {
		t.Fatalf("не удалось создать контроллер: %v", err)
	}
	if !ct.GameInfo().DragSelect {
		t.Errorf("drag_select из настроек должен попадать в сводку")
	}
	if err := ct.SwitchMode(ModeCreate); err != nil {
		t.Fatalf("не удалось переключить режим: %v", err)
	}
	if !ct.GameInfo().DragSelect {
		t.Errorf("drag_select должен сохраняться и в режиме создания")
	}
}

func TestControllerNewGameResets(t *testing.T) {
	ct, rec := testController(t)
	ct.SelectCell(Coord{0, 0})
	rec.clear()
	if err := ct.NewGame(); err != nil {
		t.Fatalf("new_game не прошёл: %v", err)
	}
	if rec.count("reset") != 1 {
		t.Errorf("ожидалось событие reset: %v", rec.events)
	}
	for _, c := range ct.Board().AllCoords() {
		if ct.Board().Get(c) != Unclicked() {
			t.Fatalf("доска после new_game должна быть чистой")
		}
	}
	// поле пересоздаётся при первом клике
	if ct.GamePlay().CurrentMinefield() != nil {
		t.Errorf("new_game должен сбрасывать минное поле")
	}
}

func TestControllerRestartReplaysSameMinefield(t *testing.T) {
	ct, rec := testController(t)
	mf := ct.GamePlay().CurrentMinefield()
	ct.SelectCell(Coord{0, 0})
	rec.clear()
	if err := ct.RestartGame(); err != nil {
		t.Fatalf("restart не прошёл: %v", err)
	}
	if rec.count("reset") != 1 {
		t.Errorf("ожидалось событие reset: %v", rec.events)
	}
	if !ct.GamePlay().CurrentMinefield().Equal(mf) {
		t.Errorf("restart должен сохранять раскладку мин")
	}
	if ct.GameInfo().GameState != StateReady {
		t.Errorf("после рестарта состояние ready")
	}
}

func TestControllerResizeBoard(t *testing.T) {
	ct, rec := testController(t)
	if err := ct.ResizeBoard(6, 5, 7); err != nil {
		t.Fatalf("resize не прошёл: %v", err)
	}
	for _, want := range []string{"resize", "set_mines", "reset"} {
		if rec.count(want) != 1 {
			t.Errorf("ожидалось событие %s: %v", want, rec.events)
		}
	}
	if ct.Board().XSize() != 6 || ct.Board().YSize() != 5 {
		t.Errorf("ожидалась доска 6x5, получено %dx%d", ct.Board().XSize(), ct.Board().YSize())
	}
	gi := ct.GameInfo()
	if gi.Mines != 7 || gi.MinesRemaining != 7 {
		t.Errorf("ожидалось 7 мин, получено %d/%d", gi.Mines, gi.MinesRemaining)
	}
	// resize без изменений эквивалентен new_game
	rec.clear()
	if err := ct.ResizeBoard(6, 5, 7); err != nil {
		t.Fatalf("повторный resize не прошёл: %v", err)
	}
	if rec.count("resize") != 0 || rec.count("reset") != 1 {
		t.Errorf("resize без изменений должен вести себя как new_game: %v", rec.events)
	}
	// некорректные размеры отклоняются
	if err := ct.ResizeBoard(0, 5, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ожидалась ошибка ErrInvalidArgument, получено %v", err)
	}
}

func TestControllerSetPerCellClampsMines(t *testing.T) {
	ct, err := NewController(GameOpts{XSize: 2, YSize: 2, Mines: 6, PerCell: 2, Lives: 1})
	if err != nil {
		t.Fatalf("не удалось создать контроллер: %v", err)
	}
	rec := &recorder{}
	ct.RegisterListener(rec)
	// per_cell = 1 урезает 6 мин до вместимости 3
	if err := ct.SetPerCell(1); err != nil {
		t.Fatalf("set_per_cell не прошёл: %v", err)
	}
	if rec.count("set_mines") != 1 {
		t.Fatalf("ожидалось событие set_mines: %v", rec.events)
	}
	gi := ct.GameInfo()
	if gi.Mines != 3 || gi.PerCell != 1 {
		t.Errorf("ожидалось 3 мины при per_cell=1, получено %d/%d", gi.Mines, gi.PerCell)
	}
	if err := ct.SetPerCell(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ожидалась ошибка для per_cell=0, получено %v", err)
	}
}

func TestControllerSetFirstSuccessAppliesToUnstartedGame(t *testing.T) {
	ct, err := NewController(GameOpts{XSize: 8, YSize: 8, Mines: 10, PerCell: 1, Lives: 1})
	if err != nil {
		t.Fatalf("не удалось создать контроллер: %v", err)
	}
	if err := ct.SetFirstSuccess(true); err != nil {
		t.Fatalf("set_first_success не прошёл: %v", err)
	}
	if err := ct.SelectCell(Coord{4, 4}); err != nil {
		t.Fatalf("ход не прошёл: %v", err)
	}
	if got := ct.Board().Get(Coord{4, 4}); got != Num(0) {
		t.Errorf("first_success должен применяться к неначатой партии, получено %v", got)
	}
}

func TestCreateModeDrawsBoard(t *testing.T) {
	ct, rec := testController(t)
	if err := ct.SwitchMode(ModeCreate); err != nil {
		t.Fatalf("переключение режима не прошло: %v", err)
	}
	if rec.count("reset") != 1 {
		t.Errorf("смена режима должна сбрасывать доску: %v", rec.events)
	}
	rec.clear()

	// клик циклит числа: пусто -> 0 -> 1
	ct.SelectCell(Coord{0, 0})
	if got := ct.Board().Get(Coord{0, 0}); got != Num(0) {
		t.Errorf("ожидалось Num(0), получено %v", got)
	}
	ct.SelectCell(Coord{0, 0})
	if got := ct.Board().Get(Coord{0, 0}); got != Num(1) {
		t.Errorf("ожидалось Num(1), получено %v", got)
	}

	// флаг рисует мины и двигает счётчик
	ct.FlagCell(Coord{3, 3}, false)
	ct.FlagCell(Coord{3, 3}, false)
	ct.FlagCell(Coord{0, 3}, false)
	if got := ct.Board().Get(Coord{3, 3}); got != Mine(2) {
		t.Errorf("ожидалось Mine(2), получено %v", got)
	}
	if rec.mines[len(rec.mines)-1] != 3 {
		t.Errorf("ожидался счётчик 3, получено %d", rec.mines[len(rec.mines)-1])
	}

	// аккорд в режиме создания - no-op
	rec.clear()
	if err := ct.ChordOnCell(Coord{0, 0}); err != nil {
		t.Fatalf("аккорд не должен быть ошибкой: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("аккорд в режиме создания не должен порождать событий: %v", rec.events)
	}
}

func TestCreateModeExtractMinefield(t *testing.T) {
	ct, _ := testController(t)
	if err := ct.SwitchMode(ModeCreate); err != nil {
		t.Fatalf("переключение режима не прошло: %v", err)
	}
	ct.FlagCell(Coord{0, 3}, false)
	ct.FlagCell(Coord{3, 3}, false)
	ct.FlagCell(Coord{3, 3}, false)
	mf, err := ct.CreateMode().ExtractMinefield()
	if err != nil {
		t.Fatalf("не удалось собрать поле: %v", err)
	}
	if !mf.Equal(testMinefield(t)) {
		t.Errorf("нарисованное поле должно совпадать с эталоном")
	}

	// нарисованное поле можно сыграть
	if err := ct.SwitchMode(ModeGame); err != nil {
		t.Fatalf("возврат в игровой режим не прошёл: %v", err)
	}
	if err := ct.GamePlay().LoadMinefield(mf); err != nil {
		t.Fatalf("не удалось загрузить нарисованное поле: %v", err)
	}
	if err := ct.SelectCell(Coord{0, 0}); err != nil {
		t.Fatalf("ход не прошёл: %v", err)
	}
	if ct.GameInfo().GameState != StateActive {
		t.Errorf("партия на нарисованном поле должна идти")
	}
}

func TestSwitchModeSameModeIsNoop(t *testing.T) {
	ct, rec := testController(t)
	if err := ct.SwitchMode(ModeGame); err != nil {
		t.Fatalf("переключение в тот же режим не должно быть ошибкой: %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("переключение в тот же режим не должно порождать событий: %v", rec.events)
	}
	if err := ct.SwitchMode(UIMode("чепуха")); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ожидалась ошибка для неизвестного режима, получено %v", err)
	}
}
