package service

import (
	"mines_webapp/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// счётчики и гистограммы партий; отдаются через /metrics
var (
	gamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mines_games_started_total",
		Help: "Число начатых партий",
	})
	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mines_games_finished_total",
		Help: "Число завершённых партий по исходу и сложности",
	}, []string{"state", "difficulty"})
	gameElapsed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mines_game_elapsed_seconds",
		Help:    "Длительность победных партий",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"difficulty"})
	gameBbbvps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mines_game_bbbvps",
		Help:    "Скорость победных партий в 3bv/с",
		Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8},
	})
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mines_active_sessions",
		Help: "Число активных игровых сессий",
	})
)

// Metrics - слушатель движка, транслирующий события партий в Prometheus.
// Регистрируется на каждый контроллер рядом с ws-слушателем
type Metrics struct {
	info func() game.GameInfo
}

func NewMetrics(info func() game.GameInfo) *Metrics {
	return &Metrics{info: info}
}

func (m *Metrics) Reset()                                             {}
func (m *Metrics) ResizeMinefield(xSize, ySize int)                   {}
func (m *Metrics) SetMines(mines int)                                 {}
func (m *Metrics) UpdateCells(cells map[game.Coord]game.CellContents) {}
func (m *Metrics) UpdateMinesRemaining(mines int)                     {}

func (m *Metrics) UpdateGameState(state game.GameState) {
	if state == game.StateActive {
		gamesStarted.Inc()
	}
}

func (m *Metrics) HandleFinishedGame(ended game.EndedGameInfo) {
	info := m.info()
	diff := string(info.Difficulty)
	gamesFinished.WithLabelValues(string(info.GameState), diff).Inc()
	if info.GameState == game.StateWon {
		gameElapsed.WithLabelValues(diff).Observe(ended.ElapsedSecs)
		gameBbbvps.Observe(ended.Bbbvps)
	}
}

// SetActiveSessions обновляет датчик активных сессий
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
