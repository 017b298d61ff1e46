package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	maxPhotoBytes = 8 * 1024 * 1024
	// Discord rejects messages longer than this.
	maxMessageLength = 2000
	maxButtonsPerRow = 5
	maxButtonRows    = 5
)

const msgTurnFailed = "Something went wrong on my side, please try again in a minute."

var attachmentHosts = map[string]bool{
	"cdn.discordapp.com":   true,
	"media.discordapp.net": true,
}

// PhotoFetcher downloads attachment bytes.
type PhotoFetcher func(ctx context.Context, rawURL string) ([]byte, error)

// Transport connects Discord to a TurnHandler. Messages from DMs and messages
// that mention the bot become events; button presses and slash commands are
// fed back in as the text of the button or command.
type Transport struct {
	handler TurnHandler
	log     *zap.Logger
	botID   string
	fetch   PhotoFetcher
	timeout time.Duration
}

func NewTransport(h TurnHandler, logger *zap.Logger, turnTimeout time.Duration) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if turnTimeout <= 0 {
		turnTimeout = 2 * time.Minute
	}
	return &Transport{
		handler: h,
		log:     logger,
		fetch:   newAttachmentFetcher(&http.Client{Timeout: 30 * time.Second}),
		timeout: turnTimeout,
	}
}

func (tr *Transport) SetBotID(id string) {
	tr.botID = id
}

// MessageCreate is registered with discordgo.Session.AddHandler.
func (tr *Transport) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	tr.HandleMessage(s, m)
}

func (tr *Transport) HandleMessage(s Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == tr.botID {
		return
	}
	if m.GuildID != "" && !tr.mentioned(m.Message) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), tr.timeout)
	defer cancel()

	ev := Event{
		UserID:      m.Author.ID,
		DisplayName: displayName(m.Author),
		Text:        strings.TrimSpace(tr.stripMention(m.Content)),
	}
	if a := firstImage(m.Attachments); a != nil {
		data, err := tr.fetch(ctx, a.URL)
		if err != nil {
			tr.log.Warn("attachment download failed", zap.String("user_id", ev.UserID), zap.Error(err))
		} else {
			ev.Photo = data
		}
	}
	if ev.Text == "" && len(ev.Photo) == 0 {
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		tr.log.Debug("typing indicator", zap.Error(err))
	}

	replies := tr.run(ctx, ev)
	for _, r := range replies {
		tr.send(s, m.ChannelID, r)
	}
}

// InteractionCreate is registered with discordgo.Session.AddHandler.
func (tr *Transport) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	tr.HandleInteraction(s, i)
}

func (tr *Transport) HandleInteraction(s Session, i *discordgo.InteractionCreate) {
	userID, userName, err := getUserFromInteraction(i)
	if err != nil {
		tr.log.Warn("interaction without user", zap.Error(err))
		return
	}

	var text string
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		text = i.MessageComponentData().CustomID
	case discordgo.InteractionApplicationCommand:
		text = slashCommandText(i.ApplicationCommandData().Name)
	default:
		return
	}
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), tr.timeout)
	defer cancel()

	replies := tr.run(ctx, Event{UserID: userID, DisplayName: userName, Text: text})
	if len(replies) == 0 {
		replies = []Reply{{Text: msgMainMenu}}
	}

	first := replies[0]
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    truncate(first.Text),
			Components: components(first.Keyboard),
		},
	})
	if err != nil {
		tr.log.Error("interaction respond", zap.String("user_id", userID), zap.Error(err))
		return
	}
	for _, r := range replies[1:] {
		tr.send(s, i.ChannelID, r)
	}
}

// run executes a turn. A store failure becomes a generic apology; the error
// itself has already been logged by the handler.
func (tr *Transport) run(ctx context.Context, ev Event) []Reply {
	replies, err := tr.handler.Handle(ctx, ev)
	if err != nil {
		tr.log.Error("turn aborted", zap.String("user_id", ev.UserID), zap.Error(err))
		return []Reply{{Text: msgTurnFailed}}
	}
	return replies
}

func (tr *Transport) send(s Session, channelID string, r Reply) {
	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    truncate(r.Text),
		Components: components(r.Keyboard),
	})
	if err != nil {
		tr.log.Error("send message", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (tr *Transport) mentioned(m *discordgo.Message) bool {
	for _, u := range m.Mentions {
		if u.ID == tr.botID {
			return true
		}
	}
	return false
}

func (tr *Transport) stripMention(content string) string {
	if tr.botID == "" {
		return content
	}
	content = strings.ReplaceAll(content, "<@"+tr.botID+">", "")
	return strings.ReplaceAll(content, "<@!"+tr.botID+">", "")
}

// components renders a keyboard as rows of buttons. The custom id of a button
// is its label, so a press comes back as the same text a user could type.
func components(kb *Keyboard) []discordgo.MessageComponent {
	if kb == nil {
		return nil
	}
	var out []discordgo.MessageComponent
	for _, row := range kb.Rows {
		if len(out) == maxButtonRows {
			break
		}
		var buttons []discordgo.MessageComponent
		for _, label := range row {
			if len(buttons) == maxButtonsPerRow {
				break
			}
			style := discordgo.SecondaryButton
			if label == labelCancel {
				style = discordgo.DangerButton
			}
			buttons = append(buttons, discordgo.Button{
				Label:    label,
				Style:    style,
				CustomID: label,
			})
		}
		if len(buttons) > 0 {
			out = append(out, discordgo.ActionsRow{Components: buttons})
		}
	}
	return out
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxMessageLength {
		return s
	}
	return string(r[:maxMessageLength-1]) + "…"
}

// getUserFromInteraction handles both guild (Member) and DM (User) contexts.
func getUserFromInteraction(i *discordgo.InteractionCreate) (string, string, error) {
	u := i.User
	if i.Member != nil && i.Member.User != nil {
		u = i.Member.User
	}
	if u == nil {
		return "", "", fmt.Errorf("could not determine user from interaction")
	}
	return u.ID, displayName(u), nil
}

func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func firstImage(attachments []*discordgo.MessageAttachment) *discordgo.MessageAttachment {
	for _, a := range attachments {
		if a.Size > maxPhotoBytes {
			continue
		}
		if strings.HasPrefix(a.ContentType, "image/") {
			return a
		}
		lower := strings.ToLower(a.Filename)
		if strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
			return a
		}
	}
	return nil
}

// newAttachmentFetcher only downloads from Discord's CDN.
func newAttachmentFetcher(client *http.Client) PhotoFetcher {
	return func(ctx context.Context, rawURL string) ([]byte, error) {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse attachment url: %w", err)
		}
		if u.Scheme != "https" || !attachmentHosts[u.Hostname()] {
			return nil, fmt.Errorf("attachment host %q not allowed", u.Hostname())
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("attachment download: status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes+1))
		if err != nil {
			return nil, err
		}
		if len(data) > maxPhotoBytes {
			return nil, fmt.Errorf("attachment larger than %d bytes", maxPhotoBytes)
		}
		return data, nil
	}
}
