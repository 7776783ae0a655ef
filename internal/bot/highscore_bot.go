package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"mines_webapp/internal/domain"
	"mines_webapp/internal/logger"
	"mines_webapp/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HighscoreBot отвечает на команды с таблицами рекордов и публикует
// новые рекорды в настроенные чаты
type HighscoreBot struct {
	bot        *tgbotapi.BotAPI
	highscores *service.HighscoreService
	chatIDs    []int64 // чаты для анонсов новых рекордов
	stopCh     chan struct{}
	wg         sync.WaitGroup
	log        *slog.Logger
}

func NewHighscoreBot(token string, highscores *service.HighscoreService, chatIDs []int64) (*HighscoreBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "highscore_bot")
	log.Info("highscore bot authorized", "username", api.Self.UserName)

	return &HighscoreBot{
		bot:        api,
		highscores: highscores,
		chatIDs:    chatIDs,
		stopCh:     make(chan struct{}),
		log:        log,
	}, nil
}

// Start запускает прослушивание команд
func (b *HighscoreBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}

			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleCommand(msg)
			}(update.Message)
		}
	}
}

// Stop плавно останавливает бота
func (b *HighscoreBot) Stop() {
	b.log.Info("stopping highscore bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("highscore bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("highscore bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *HighscoreBot) handleCommand(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var response string

	switch msg.Command() {
	case "start", "help":
		response = b.helpMessage()

	case "highscores":
		response = b.handleHighscores(ctx, msg.CommandArguments())

	case "best":
		response = b.handleBest(ctx, msg.From.ID)

	default:
		response = "Неизвестная команда. Используйте /help для списка команд."
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	reply.ReplyToMessageID = msg.MessageID

	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("error sending message", "error", err)
	}
}

func (b *HighscoreBot) helpMessage() string {
	return `<b>Команды бота рекордов</b>

/highscores [сложность] [лимит] - Таблица рекордов
  сложность: B (новичок), I (средний), E (эксперт), M (мастер)
/best - Ваши лучшие результаты по каждой сложности

Примеры:
/highscores E - топ-10 эксперта
/highscores B 25 - топ-25 новичка`
}

// handleHighscores разбирает "/highscores [B|I|E|M] [лимит] [bbbvps]"
func (b *HighscoreBot) handleHighscores(ctx context.Context, args string) string {
	difficulty := "B"
	limit := 10
	order := domain.OrderByTime

	for _, part := range strings.Fields(args) {
		upper := strings.ToUpper(part)
		switch {
		case upper == "B" || upper == "I" || upper == "E" || upper == "M":
			difficulty = upper
		case strings.EqualFold(part, "bbbvps"):
			order = domain.OrderByBbbvps
		default:
			if n, err := strconv.Atoi(part); err == nil && n > 0 && n <= 50 {
				limit = n
			}
		}
	}

	scores, err := b.highscores.GetTop(ctx, difficulty, 1, order, limit)
	if err != nil {
		return fmt.Sprintf("Ошибка: %v", err)
	}
	if len(scores) == 0 {
		return fmt.Sprintf("Пока нет рекордов на сложности %s", difficulty)
	}

	return FormatLeaderboard(difficulty, order, scores)
}

func (b *HighscoreBot) handleBest(ctx context.Context, tgID int64) string {
	scores, err := b.highscores.GetPlayerBests(ctx, tgID)
	if err != nil {
		return fmt.Sprintf("Ошибка: %v", err)
	}
	if len(scores) == 0 {
		return "У вас пока нет рекордов. Выиграйте партию!"
	}

	var sb strings.Builder
	sb.WriteString("<b>Ваши лучшие результаты</b>\n\n")
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%s: %s | 3bv %d | %.2f 3bv/с\n",
			difficultyName(s.Difficulty), formatElapsed(s.ElapsedS), s.Bbbv, s.Bbbvps))
	}
	return sb.String()
}

// AnnounceHighscore публикует новый рекорд во все настроенные чаты
func (b *HighscoreBot) AnnounceHighscore(hs *domain.Highscore) {
	if len(b.chatIDs) == 0 {
		return
	}

	name := hs.PlayerName
	if name == "" {
		name = fmt.Sprintf("id:%d", hs.PlayerID)
	}

	message := fmt.Sprintf(`<b>Новый рекорд!</b>

Игрок: %s
Сложность: %s
Время: %s
3bv: %d (%.2f 3bv/с)`,
		name, difficultyName(hs.Difficulty), formatElapsed(hs.ElapsedS), hs.Bbbv, hs.Bbbvps)

	for _, chatID := range b.chatIDs {
		msg := tgbotapi.NewMessage(chatID, message)
		msg.ParseMode = "HTML"
		if _, err := b.bot.Send(msg); err != nil {
			b.log.Error("не удалось опубликовать рекорд", "chat_id", chatID, "error", err)
		}
	}
}
