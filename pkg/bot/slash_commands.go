package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// SlashCommands defines all available slash commands
var SlashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "start",
		Description: "Open the main menu",
	},
	{
		Name:        "profile",
		Description: "Fill in or update your health profile",
	},
	{
		Name:        "score",
		Description: "Show your score",
	},
	{
		Name:        "workout_done",
		Description: "Log today's workout",
	},
}

// slashCommandText maps a command name to the text it stands for. Commands
// run through the same router as typed text.
func slashCommandText(name string) string {
	for _, cmd := range SlashCommands {
		if cmd.Name == name {
			return "/" + name
		}
	}
	return ""
}

// CommandRegistrar is the part of discordgo.Session used to manage commands.
type CommandRegistrar interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// RegisterSlashCommands registers all slash commands with Discord. An empty
// guildID registers them globally.
func RegisterSlashCommands(s CommandRegistrar, appID, guildID string, logger *zap.Logger) ([]*discordgo.ApplicationCommand, error) {
	registered := make([]*discordgo.ApplicationCommand, 0, len(SlashCommands))
	for _, cmd := range SlashCommands {
		created, err := s.ApplicationCommandCreate(appID, guildID, cmd)
		if err != nil {
			logger.Error("cannot create command", zap.String("command", cmd.Name), zap.Error(err))
			return registered, err
		}
		registered = append(registered, created)
		logger.Debug("registered command", zap.String("command", cmd.Name))
	}
	return registered, nil
}

// UnregisterSlashCommands removes previously registered commands.
func UnregisterSlashCommands(s CommandRegistrar, appID, guildID string, commands []*discordgo.ApplicationCommand, logger *zap.Logger) error {
	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("cannot delete command", zap.String("command", cmd.Name), zap.Error(err))
			return err
		}
	}
	return nil
}
