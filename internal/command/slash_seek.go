package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type SeekCommand struct {
	Bot bot.MusicBot
}

func (c *SeekCommand) Name() string        { return "seek" }
func (c *SeekCommand) Description() string { return "Jump to a position in the current track" }
func (c *SeekCommand) Aliases() []string   { return []string{} }
func (c *SeekCommand) Category() string    { return "🎵 Music" }
func (c *SeekCommand) RequireAdmin() bool  { return false }
func (c *SeekCommand) RequireOwner() bool  { return false }

func (c *SeekCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "position",
				Description: "Position like 1:30, 90 or 1m30s",
				Required:    true,
			},
		},
	}
}

func (c *SeekCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	raw := e.ApplicationCommandData().Options[0].StringValue()
	offset, err := parsePosition(raw)
	if err != nil {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Can't read position %q: %v", raw, err),
		})
	}

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	if err := p.Seek(offset); err != nil {
		bot.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "🎵 Seek Error",
			Description: fmt.Sprintf("%v", err),
		})
		return nil
	}

	bot.FollowupEmbed(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("⏩ Jumped to %s.", fmtDuration(offset)),
	})
	return nil
}

// parsePosition accepts "m:ss" / "h:mm:ss", plain seconds, or Go duration
// syntax like "1m30s".
func parsePosition(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("too many colon-separated fields")
		}
		var total time.Duration
		for _, part := range parts {
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid field %q", part)
			}
			total = total*60 + time.Duration(n)*time.Second
		}
		return total, nil
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("position can't be negative")
		}
		return time.Duration(n) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("position can't be negative")
	}
	return d, nil
}
