package command

import (
	"fmt"
	"strings"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

const historyPreviewLimit = 15

type HistoryCommand struct {
	Bot bot.MusicBot
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recently played tracks" }
func (c *HistoryCommand) Aliases() []string   { return []string{} }
func (c *HistoryCommand) Category() string    { return "🎵 Music" }
func (c *HistoryCommand) RequireAdmin() bool  { return false }
func (c *HistoryCommand) RequireOwner() bool  { return false }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HistoryCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	history, err := slash.Storage.FetchTrackHistory(e.GuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch track history: %w", err)
	}
	if len(history) == 0 {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "Nothing has been played yet.",
		})
	}

	// newest first
	var lines []string
	for i := len(history) - 1; i >= 0; i-- {
		if len(lines) == historyPreviewLimit {
			lines = append(lines, fmt.Sprintf("...and %d more", len(history)-historyPreviewLimit))
			break
		}
		rec := history[i]
		line := rec.Title
		if rec.URL != "" {
			line = fmt.Sprintf("[%s](%s)", rec.Title, rec.URL)
		}
		lines = append(lines, fmt.Sprintf("%d. %s", len(lines)+1, line))
	}

	msg := embed.NewEmbed().
		SetColor(bot.EmbedColor).
		SetTitle("🕰️ Play History").
		SetDescription(strings.Join(lines, "\n"))

	return bot.RespondEmbed(s, e, msg.MessageEmbed)
}
