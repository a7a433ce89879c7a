package command

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type PlayCommand struct {
	Bot bot.MusicBot
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a track, playlist or stream" }
func (c *PlayCommand) Aliases() []string   { return []string{} }
func (c *PlayCommand) Category() string    { return "🎵 Music" }
func (c *PlayCommand) RequireAdmin() bool  { return false }
func (c *PlayCommand) RequireOwner() bool  { return false }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "input",
				Description: "Link or search query",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "source",
				Description: "Specify a source if a search query is used",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "YouTube", Value: "youtube"},
					{Name: "Spotify", Value: "spotify"},
					{Name: "Stream", Value: "stream"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "parser",
				Description: "Override autodetect parser",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "ytdlp pipe", Value: "ytdlp-pipe"},
					{Name: "ytdlp link", Value: "ytdlp-link"},
					{Name: "kkdai pipe", Value: "kkdai-pipe"},
					{Name: "kkdai link", Value: "kkdai-link"},
					{Name: "ffmpeg direct link", Value: "ffmpeg-link"},
				},
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	var input, source, parser string
	for _, opt := range e.ApplicationCommandData().Options {
		switch opt.Name {
		case "input":
			input = opt.StringValue()
		case "source":
			source = opt.StringValue()
		case "parser":
			parser = opt.StringValue()
		}
	}
	if input == "" {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "🎵 Error",
			Description: "Input is required.",
		})
	}

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	voiceState, ok := userVoiceState(slash)
	if !ok {
		return nil
	}

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	added, err := p.Enqueue(input, source, parser, e.Member.User.ID)
	if err != nil {
		bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "🎵 Error",
			Description: fmt.Sprintf("Failed to resolve track: %v", err),
		})
		return nil
	}

	if !p.IsPlaying() {
		if err := p.PlayNext(voiceState.ChannelID); err != nil {
			bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Title:       "🎵 Playback Error",
				Description: fmt.Sprintf("%v", err),
			})
			return nil
		}
		track, err := p.CurrentTrack()
		if err != nil {
			bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: "⚠️ Failed to get current track",
			})
			return nil
		}
		bot.FollowupEmbed(s, e, &discordgo.MessageEmbed{
			Title:       player.StatusPlaying.StringEmoji() + " Now Playing",
			Description: "🎶 " + trackLine(*track),
		})
		return nil
	}

	bot.FollowupEmbed(s, e, &discordgo.MessageEmbed{
		Title:       player.StatusAdded.StringEmoji() + " Track(s) Added",
		Description: fmt.Sprintf("Added %d track(s) to the queue", added),
	})
	return nil
}
