package command

import (
	"errors"
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type SkipCommand struct {
	Bot bot.MusicBot
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip to the next track" }
func (c *SkipCommand) Aliases() []string   { return []string{"next"} }
func (c *SkipCommand) Category() string    { return "🎵 Music" }
func (c *SkipCommand) RequireAdmin() bool  { return false }
func (c *SkipCommand) RequireOwner() bool  { return false }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	if err := p.Skip(); err != nil {
		if errors.Is(err, player.ErrNoTrackPlaying) {
			bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "Nothing is playing.",
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
		return nil
	}

	bot.FollowupEmbed(s, e, &discordgo.MessageEmbed{
		Description: player.StatusQueueEnd.StringEmoji() + " Queue finished.",
	})
	return nil
}
