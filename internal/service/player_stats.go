package service

import (
	"context"
	"time"

	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/repository"
)

// playerStats - слушатель движка, пишущий исход партии в профиль игрока
type playerStats struct {
	players  *repository.PlayerRepository
	playerID int64
	info     func() game.GameInfo
}

func newPlayerStats(players *repository.PlayerRepository, playerID int64, info func() game.GameInfo) *playerStats {
	return &playerStats{players: players, playerID: playerID, info: info}
}

func (p *playerStats) Reset()                                             {}
func (p *playerStats) ResizeMinefield(xSize, ySize int)                   {}
func (p *playerStats) SetMines(mines int)                                 {}
func (p *playerStats) UpdateCells(cells map[game.Coord]game.CellContents) {}
func (p *playerStats) UpdateMinesRemaining(mines int)                     {}
func (p *playerStats) UpdateGameState(state game.GameState)               {}

func (p *playerStats) HandleFinishedGame(ended game.EndedGameInfo) {
	won := p.info().GameState == game.StateWon
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.players.RecordResult(ctx, p.playerID, won); err != nil {
			logger.Warn("не удалось обновить статистику игрока", "player_id", p.playerID, "error", err)
		}
	}()
}
