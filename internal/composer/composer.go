// Package composer renders picks and match results into channel posts.
package composer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/icebet20/Ironhockeybot/internal/pkg/models"
)

// Composer renders announcement texts. Times are shown in a fixed-offset
// display zone (Moscow by default), not in the server zone.
type Composer struct {
	tzOffset time.Duration
}

func New(tzOffsetHours int) Composer {
	return Composer{tzOffset: time.Duration(tzOffsetHours) * time.Hour}
}

// Pick renders the announcement for a selected wager (Telegram Markdown).
func (c Composer) Pick(cand models.Candidate) string {
	var sel string
	switch {
	case cand.Market == models.MarketH2H && cand.Selection == cand.Home:
		sel = "Победа " + cand.Home
	case cand.Market == models.MarketH2H && cand.Selection == cand.Away:
		sel = "Победа " + cand.Away
	case cand.Market == models.MarketH2H:
		sel = "Исход: " + cand.Selection
	default:
		sign := "Больше"
		if strings.ToLower(cand.Selection) == "under" {
			sign = "Меньше"
		}
		if cand.Line != nil {
			sel = fmt.Sprintf("Тотал: %s (%s)", sign, formatLine(*cand.Line))
		} else {
			sel = "Тотал: " + sign
		}
	}

	var b strings.Builder
	b.WriteString("🏒 *ЖЕЛЕЗНЫЙ ХОККЕЙ*\n")
	fmt.Fprintf(&b, "%s — %s\n", cand.Home, cand.Away)
	fmt.Fprintf(&b, "🕒 %s (МСК)\n\n", c.formatTime(cand.CommenceTime))
	fmt.Fprintf(&b, "**Прогноз:** %s\n", sel)
	fmt.Fprintf(&b, "**Коэффициент:** %.2f\n", cand.Price)
	fmt.Fprintf(&b, "Букмекер: %s\n\n", cand.Bookmaker)
	b.WriteString("📌 Учитываем форму, свежесть составов и динамику тоталов за последние игры.\n")
	b.WriteString("⚠️ Ставки на спорт — это риск. Контент носит информационный характер.\n")
	return b.String()
}

// Result renders the follow-up for a completed match. Both team scores must
// be resolvable by name in the score list, otherwise there is nothing to
// announce and ok is false.
func (c Composer) Result(rec models.ScoreRecord) (string, bool) {
	var home, away string
	var haveHome, haveAway bool
	for _, ts := range rec.Scores {
		switch ts.Name {
		case rec.HomeTeam:
			home, haveHome = ts.Score, ts.Score != ""
		case rec.AwayTeam:
			away, haveAway = ts.Score, ts.Score != ""
		}
	}
	if !haveHome || !haveAway {
		return "", false
	}

	var b strings.Builder
	b.WriteString("✅ *ИТОГ МАТЧА*\n")
	fmt.Fprintf(&b, "%s — %s\n", rec.HomeTeam, rec.AwayTeam)
	fmt.Fprintf(&b, "Счёт: %s:%s\n\n", home, away)
	b.WriteString("**Если ставка зашла** — двигаемся дальше и закрепляем плюс.\n")
	b.WriteString("**Если не зашла** — сохраняем холодную голову: на дистанции мы в плюсе.\n")
	b.WriteString("Следующий прогноз — в ближайшее время.")
	return b.String(), true
}

func (c Composer) formatTime(t time.Time) string {
	return t.UTC().Add(c.tzOffset).Format("02.01 15:04")
}

func formatLine(line float64) string {
	return strconv.FormatFloat(line, 'g', -1, 64)
}
