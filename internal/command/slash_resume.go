package command

import (
	"errors"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type ResumeCommand struct {
	Bot bot.MusicBot
}

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume a paused track" }
func (c *ResumeCommand) Aliases() []string   { return []string{} }
func (c *ResumeCommand) Category() string    { return "🎵 Music" }
func (c *ResumeCommand) RequireAdmin() bool  { return false }
func (c *ResumeCommand) RequireOwner() bool  { return false }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ResumeCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	if err := p.Resume(); err != nil {
		switch {
		case errors.Is(err, player.ErrNotPaused):
			return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "Playback is not paused.",
			})
		case errors.Is(err, player.ErrNoTrackPlaying):
			return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "Nothing to resume.",
			})
		}
		return err
	}

	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: player.StatusResumed.StringEmoji() + " Resumed.",
	})
}
