package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"healthbot/pkg/llm"
	"healthbot/pkg/record"
)

// Session abstracts discordgo.Session for testing
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) (err error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Generator is the generative backend. Implemented by llm.Client.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (string, error)
}

// RecordStore is implemented by record.Store.
type RecordStore interface {
	Lock(id string) func()
	Load(ctx context.Context, id string) (*record.UserRecord, error)
	Save(ctx context.Context, rec *record.UserRecord) error
}

// TurnHandler processes one inbound event. Implemented by Handler.
type TurnHandler interface {
	Handle(ctx context.Context, ev Event) ([]Reply, error)
}

// Event is one inbound message from a user.
type Event struct {
	UserID      string
	DisplayName string
	Text        string
	Photo       []byte
}

// Keyboard is an ordered grid of button labels.
type Keyboard struct {
	Rows [][]string
}

// Reply is one outbound message. Buttons belong to the message they are sent
// with, so a nil Keyboard means the message has none.
type Reply struct {
	Text     string
	Keyboard *Keyboard
}
