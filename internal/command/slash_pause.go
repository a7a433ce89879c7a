package command

import (
	"errors"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type PauseCommand struct {
	Bot bot.MusicBot
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause the current track" }
func (c *PauseCommand) Aliases() []string   { return []string{} }
func (c *PauseCommand) Category() string    { return "🎵 Music" }
func (c *PauseCommand) RequireAdmin() bool  { return false }
func (c *PauseCommand) RequireOwner() bool  { return false }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PauseCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	if err := p.Pause(); err != nil {
		if errors.Is(err, player.ErrNoTrackPlaying) {
			return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "Nothing to pause.",
			})
		}
		return err
	}

	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: player.StatusPaused.StringEmoji() + " Paused.",
	})
}
