package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"healthbot/pkg/clock"
)

// StatusUpdater is the part of discordgo.Session used to set the presence.
type StatusUpdater interface {
	UpdateStatusComplex(usd discordgo.UpdateStatusData) (err error)
}

var presenceByTimeOfDay = map[string]struct {
	text  string
	emoji string
}{
	"morning":   {"Breakfast time. Snap your plate!", "🍳"},
	"afternoon": {"Stretch break? Try a short walk", "🚶"},
	"evening":   {"How was your day? Log your mood", "🧠"},
	"night":     {"Sleep is part of the plan", "😴"},
}

func presenceFor(t time.Time) discordgo.UpdateStatusData {
	p := presenceByTimeOfDay[clock.TimeOfDay(t)]
	return discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name:  "Health tips",
				Type:  discordgo.ActivityTypeCustom,
				State: p.text,
				Emoji: discordgo.Emoji{Name: p.emoji},
			},
		},
		Status: "online",
	}
}

// RunPresence keeps the bot status in step with the time of day until ctx is
// done.
func RunPresence(ctx context.Context, s StatusUpdater, c clock.Clock, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.UpdateStatusComplex(presenceFor(c.Now())); err != nil {
			logger.Warn("update status", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
