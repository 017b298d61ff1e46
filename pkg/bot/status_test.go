package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStatusUpdater struct {
	updates []discordgo.UpdateStatusData
	err     error
	cancel  context.CancelFunc
}

func (m *mockStatusUpdater) UpdateStatusComplex(usd discordgo.UpdateStatusData) error {
	m.updates = append(m.updates, usd)
	if m.cancel != nil {
		m.cancel()
	}
	return m.err
}

func TestPresenceFor(t *testing.T) {
	morning := presenceFor(time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC))
	night := presenceFor(time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC))

	require.Len(t, morning.Activities, 1)
	assert.Equal(t, "🍳", morning.Activities[0].Emoji.Name)
	assert.Equal(t, "😴", night.Activities[0].Emoji.Name)
	assert.Equal(t, "online", night.Status)
}

func TestRunPresenceStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &mockStatusUpdater{cancel: cancel, err: errors.New("gateway closed")}
	clk := fixedClock{t: time.Date(2026, 10, 15, 19, 30, 0, 0, time.UTC)}

	RunPresence(ctx, s, clk, time.Hour, zap.NewNop())

	require.Len(t, s.updates, 1)
	assert.Equal(t, "🧠", s.updates[0].Activities[0].Emoji.Name)
}
