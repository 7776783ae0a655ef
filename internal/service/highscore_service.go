package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"mines_webapp/internal/domain"
	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/repository"

	"github.com/redis/go-redis/v9"
)

var ErrScoreNotEligible = errors.New("результат не попадает в рекорды")

const leaderboardCacheTTL = 30 * time.Second

// записывает рекорды и отдаёт таблицы лидеров с кэшом в Redis
type HighscoreService struct {
	repo     *repository.HighscoreRepository
	redis    *redis.Client
	onRecord func(*domain.Highscore)
}

func NewHighscoreService(repo *repository.HighscoreRepository, rdb *redis.Client) *HighscoreService {
	return &HighscoreService{repo: repo, redis: rdb}
}

// SetRecordCallback задаёт обработчик нового рекорда (анонс в чаты)
func (s *HighscoreService) SetRecordCallback(fn func(*domain.Highscore)) {
	s.onRecord = fn
}

// Record сохраняет итог победной партии. Партии на заранее известном
// поле и на произвольных размерах в рекорды не попадают
func (s *HighscoreService) Record(ctx context.Context, playerID int64, playerName string, info game.GameInfo) (*domain.Highscore, error) {
	if info.GameState != game.StateWon || info.Ended == nil {
		return nil, ErrScoreNotEligible
	}
	if info.Difficulty == game.DifficultyCustom {
		return nil, ErrScoreNotEligible
	}
	ended := info.Ended
	if ended.MinefieldKnown {
		// переигровки и загруженные поля не ранжируются
		return nil, ErrScoreNotEligible
	}
	if math.IsInf(ended.Bbbvps, 1) {
		// мгновенные победы на вырожденных полях не ранжируются
		return nil, ErrScoreNotEligible
	}

	hs := &domain.Highscore{
		PlayerID:   playerID,
		PlayerName: playerName,
		Difficulty: string(info.Difficulty),
		PerCell:    info.PerCell,
		DragSelect: info.DragSelect,
		Timestamp:  time.Unix(int64(ended.StartTime), 0),
		ElapsedS:   ended.ElapsedSecs,
		Bbbv:       ended.Bbbv,
		Bbbvps:     ended.Bbbvps,
		FlaggingP:  ended.PropFlagging,
	}
	if err := s.repo.Create(ctx, hs); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, hs.Difficulty, hs.PerCell)
	logger.Info("записан рекорд", "player_id", playerID, "difficulty", hs.Difficulty,
		"elapsed", hs.ElapsedS, "bbbv", hs.Bbbv)

	if s.onRecord != nil {
		go s.onRecord(hs)
	}
	return hs, nil
}

// GetTop возвращает таблицу лидеров, кэшируя её на короткое время
func (s *HighscoreService) GetTop(ctx context.Context, difficulty string, perCell int, order domain.HighscoreOrder, limit int) ([]*domain.Highscore, error) {
	key := s.cacheKey(difficulty, perCell, order, limit)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Bytes(); err == nil {
			var top []*domain.Highscore
			if json.Unmarshal(cached, &top) == nil {
				return top, nil
			}
		}
	}

	top, err := s.repo.GetTop(ctx, difficulty, perCell, order, limit)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(top); err == nil {
			_ = s.redis.Set(ctx, key, data, leaderboardCacheTTL).Err()
		}
	}
	return top, nil
}

// GetPlayerBests возвращает лучшие результаты игрока по сложностям
func (s *HighscoreService) GetPlayerBests(ctx context.Context, playerID int64) ([]*domain.Highscore, error) {
	return s.repo.GetPlayerBests(ctx, playerID)
}

func (s *HighscoreService) cacheKey(difficulty string, perCell int, order domain.HighscoreOrder, limit int) string {
	return fmt.Sprintf("hs:top:%s:%d:%s:%d", difficulty, perCell, order, limit)
}

// highscoreRecorder - слушатель движка, записывающий победы в рекорды
type highscoreRecorder struct {
	highscores *HighscoreService
	playerID   int64
	playerName string
	info       func() game.GameInfo
}

func newHighscoreRecorder(hs *HighscoreService, playerID int64, playerName string, info func() game.GameInfo) *highscoreRecorder {
	return &highscoreRecorder{highscores: hs, playerID: playerID, playerName: playerName, info: info}
}

func (r *highscoreRecorder) Reset()                                             {}
func (r *highscoreRecorder) ResizeMinefield(xSize, ySize int)                   {}
func (r *highscoreRecorder) SetMines(mines int)                                 {}
func (r *highscoreRecorder) UpdateCells(cells map[game.Coord]game.CellContents) {}
func (r *highscoreRecorder) UpdateMinesRemaining(mines int)                     {}
func (r *highscoreRecorder) UpdateGameState(state game.GameState)               {}

func (r *highscoreRecorder) HandleFinishedGame(ended game.EndedGameInfo) {
	info := r.info()
	if info.GameState != game.StateWon {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := r.highscores.Record(ctx, r.playerID, r.playerName, info)
		if err != nil && !errors.Is(err, ErrScoreNotEligible) {
			logger.Warn("не удалось записать рекорд", "player_id", r.playerID, "error", err)
		}
	}()
}

func (s *HighscoreService) invalidateCache(ctx context.Context, difficulty string, perCell int) {
	if s.redis == nil {
		return
	}
	pattern := fmt.Sprintf("hs:top:%s:%d:*", difficulty, perCell)
	iter := s.redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = s.redis.Del(ctx, iter.Val()).Err()
	}
}
