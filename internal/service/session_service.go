package service

import (
	"errors"
	"sync"
	"time"

	"mines_webapp/internal/game"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/repository"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("нет активной сессии")

// Session - одна игровая сессия: контроллер и его слушатели.
// Движок однопоточный, поэтому все интенты сессии идут под одним мьютексом
type Session struct {
	ID         string
	PlayerID   int64
	PlayerName string
	Controller *game.Controller
	CreatedAt  time.Time

	mu       sync.Mutex
	lastUsed time.Time
}

// Do выполняет интент, сериализуя доступ к контроллеру
func (s *Session) Do(fn func(*game.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.Controller)
}

// управляет активными сессиями игроков
type SessionService struct {
	sessions map[int64]*Session // playerID -> session
	mu       sync.RWMutex
	defaults game.GameOpts
	players  *repository.PlayerRepository // nil, если статистика не ведётся
	scores   *HighscoreService            // nil, если рекорды не пишутся
	onClose  func(sessionID string)       // уборка привязанных к сессии ресурсов
}

// создает новый сервис сессий; заброшенные сессии убираются фоновой горутиной
func NewSessionService(defaults game.GameOpts, players *repository.PlayerRepository, scores *HighscoreService) *SessionService {
	s := &SessionService{
		sessions: make(map[int64]*Session),
		defaults: defaults,
		players:  players,
		scores:   scores,
	}

	go s.cleanupExpiredSessions()

	return s
}

// SetCloseCallback задаёт обработчик закрытия сессии (вызывается и при
// явном Close, и при удалении по таймауту)
func (s *SessionService) SetCloseCallback(fn func(sessionID string)) {
	s.onClose = fn
}

// возвращает сессию игрока, создавая её при первом обращении
func (s *SessionService) GetOrCreate(playerID int64, playerName string, opts *game.GameOpts) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[playerID]; ok {
		return existing, nil
	}

	sessionOpts := s.defaults
	if opts != nil {
		sessionOpts = *opts
	}
	ctrl, err := game.NewController(sessionOpts)
	if err != nil {
		return nil, err
	}
	ctrl.RegisterListener(NewMetrics(ctrl.GameInfo))
	if s.players != nil {
		ctrl.RegisterListener(newPlayerStats(s.players, playerID, ctrl.GameInfo))
	}
	if s.scores != nil {
		ctrl.RegisterListener(newHighscoreRecorder(s.scores, playerID, playerName, ctrl.GameInfo))
	}

	session := &Session{
		ID:         uuid.New().String()[:8],
		PlayerID:   playerID,
		PlayerName: playerName,
		Controller: ctrl,
		CreatedAt:  time.Now(),
		lastUsed:   time.Now(),
	}
	s.sessions[playerID] = session
	SetActiveSessions(len(s.sessions))
	logger.Info("создана игровая сессия", "session_id", session.ID, "player_id", playerID)
	return session, nil
}

// возвращает активную сессию игрока
func (s *SessionService) Get(playerID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	return session, nil
}

// закрывает сессию игрока
func (s *SessionService) Close(playerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[playerID]
	if !ok {
		return
	}
	delete(s.sessions, playerID)
	SetActiveSessions(len(s.sessions))
	if s.onClose != nil {
		s.onClose(session.ID)
	}
}

// удаляет сессии, к которым не обращались больше часа
func (s *SessionService) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for playerID, session := range s.sessions {
			session.mu.Lock()
			idle := now.Sub(session.lastUsed)
			session.mu.Unlock()
			if idle > time.Hour {
				delete(s.sessions, playerID)
				if s.onClose != nil {
					s.onClose(session.ID)
				}
				logger.Debug("сессия удалена по таймауту", "session_id", session.ID, "player_id", playerID)
			}
		}
		SetActiveSessions(len(s.sessions))
		s.mu.Unlock()
	}
}

// возвращает количество активных сессий
func (s *SessionService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
