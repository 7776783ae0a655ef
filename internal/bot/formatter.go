package bot

import (
	"fmt"
	"strings"

	"mines_webapp/internal/domain"
)

// FormatLeaderboard рендерит таблицу рекордов в plain-text для Telegram
func FormatLeaderboard(difficulty string, order domain.HighscoreOrder, scores []*domain.Highscore) string {
	var sb strings.Builder

	metric := "по времени"
	if order == domain.OrderByBbbvps {
		metric = "по 3bv/с"
	}
	sb.WriteString(fmt.Sprintf("<b>Рекорды: %s (%s)</b>\n\n", difficultyName(difficulty), metric))

	for i, s := range scores {
		name := s.PlayerName
		if name == "" {
			name = fmt.Sprintf("id:%d", s.PlayerID)
		}
		sb.WriteString(fmt.Sprintf("%2d. %s — %s | %.2f 3bv/с\n",
			i+1, name, formatElapsed(s.ElapsedS), s.Bbbvps))
	}

	return sb.String()
}

func difficultyName(d string) string {
	switch d {
	case "B":
		return "Новичок"
	case "I":
		return "Средний"
	case "E":
		return "Эксперт"
	case "M":
		return "Мастер"
	}
	return d
}

// formatElapsed показывает секунды с сотыми, минуты для долгих партий
func formatElapsed(secs float64) string {
	if secs < 60 {
		return fmt.Sprintf("%.2fс", secs)
	}
	m := int(secs) / 60
	return fmt.Sprintf("%dм %.2fс", m, secs-float64(m*60))
}
