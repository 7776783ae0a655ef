package ws

import (
	"encoding/json"
	"math"
	"sync"

	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
)

// cellUpdate - одна изменившаяся ячейка в кадре update_cells
type cellUpdate struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Contents string `json:"contents"`
}

// EventListener транслирует события движка в JSON-кадры для клиента.
// Кадры уходят в Send канал клиента; переполненный канал роняет кадр,
// клиент восстановит состояние запросом state.
// Слушатель регистрируется на контроллере один раз за сессию,
// при реконнекте канал перенацеливается на новое соединение
type EventListener struct {
	mu   sync.Mutex
	send chan<- []byte
}

func NewEventListener(send chan<- []byte) *EventListener {
	return &EventListener{send: send}
}

// Retarget переключает слушателя на канал нового соединения
func (l *EventListener) Retarget(send chan<- []byte) {
	l.mu.Lock()
	l.send = send
	l.mu.Unlock()
}

func (l *EventListener) Reset() {
	l.push(map[string]any{"type": "reset"})
}

func (l *EventListener) ResizeMinefield(xSize, ySize int) {
	l.push(map[string]any{"type": "resize", "x_size": xSize, "y_size": ySize})
}

func (l *EventListener) SetMines(mines int) {
	l.push(map[string]any{"type": "set_mines", "mines": mines})
}

func (l *EventListener) UpdateCells(cells map[game.Coord]game.CellContents) {
	updates := make([]cellUpdate, 0, len(cells))
	for c, cell := range cells {
		updates = append(updates, cellUpdate{X: c.X, Y: c.Y, Contents: cell.String()})
	}
	l.push(map[string]any{"type": "update_cells", "cells": updates})
}

func (l *EventListener) UpdateMinesRemaining(mines int) {
	l.push(map[string]any{"type": "update_mines_remaining", "mines": mines})
}

func (l *EventListener) UpdateGameState(state game.GameState) {
	l.push(map[string]any{"type": "update_game_state", "state": state})
}

func (l *EventListener) HandleFinishedGame(info game.EndedGameInfo) {
	l.push(map[string]any{"type": "finished", "info": sanitizeEnded(info)})
}

// JSON не умеет Inf: мгновенные победы и флаги на пустом поле
func sanitizeEnded(info game.EndedGameInfo) game.EndedGameInfo {
	if math.IsInf(info.Bbbvps, 0) {
		info.Bbbvps = 0
	}
	if math.IsInf(info.PropFlagging, 0) {
		info.PropFlagging = 0
	}
	return info
}

func (l *EventListener) push(frame map[string]any) {
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("не удалось сериализовать кадр", "error", err)
		return
	}
	l.mu.Lock()
	send := l.send
	l.mu.Unlock()
	select {
	case send <- data:
	default:
		logger.Warn("канал клиента переполнен, кадр потерян", "type", frame["type"])
	}
}
