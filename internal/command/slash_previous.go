package command

import (
	"errors"
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type PreviousCommand struct {
	Bot bot.MusicBot
}

func (c *PreviousCommand) Name() string        { return "previous" }
func (c *PreviousCommand) Description() string { return "Replay the previous track" }
func (c *PreviousCommand) Aliases() []string   { return []string{"prev"} }
func (c *PreviousCommand) Category() string    { return "🎵 Music" }
func (c *PreviousCommand) RequireAdmin() bool  { return false }
func (c *PreviousCommand) RequireOwner() bool  { return false }

func (c *PreviousCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PreviousCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	if err := p.Previous(); err != nil {
		if errors.Is(err, player.ErrNoHistory) {
			bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "No previously played tracks.",
			})
			return nil
		}
		bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "🎵 Playback Error",
			Description: fmt.Sprintf("%v", err),
		})
		return nil
	}

	if track, err := p.CurrentTrack(); err == nil {
		bot.FollowupEmbed(s, e, &discordgo.MessageEmbed{
			Title:       player.StatusPlaying.StringEmoji() + " Now Playing",
			Description: "🎶 " + trackLine(*track),
		})
	}
	return nil
}
