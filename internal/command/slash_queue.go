package command

import (
	"fmt"
	"strings"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

const queuePreviewLimit = 10

type QueueCommand struct {
	Bot bot.MusicBot
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the current queue" }
func (c *QueueCommand) Aliases() []string   { return []string{"q"} }
func (c *QueueCommand) Category() string    { return "🎵 Music" }
func (c *QueueCommand) RequireAdmin() bool  { return false }
func (c *QueueCommand) RequireOwner() bool  { return false }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)

	msg := embed.NewEmbed().SetColor(bot.EmbedColor).SetTitle("🎶 Queue")

	if track, err := p.CurrentTrack(); err == nil {
		state := "▶️"
		if p.IsPaused() {
			state = "⏸"
		}
		position := fmtDuration(p.Elapsed())
		if track.Duration > 0 {
			position += " / " + fmtDuration(track.Duration)
		}
		msg.AddField("Now Playing", fmt.Sprintf("%s %s `%s`", state, trackLine(*track), position))
	}

	queue := p.Queue()
	if len(queue) == 0 {
		msg.SetDescription("The queue is empty.")
		return bot.RespondEmbed(s, e, msg.MessageEmbed)
	}

	var lines []string
	for i, track := range queue {
		if i == queuePreviewLimit {
			lines = append(lines, fmt.Sprintf("...and %d more", len(queue)-queuePreviewLimit))
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, trackLine(track)))
	}
	msg.AddField(fmt.Sprintf("Up Next (%d)", len(queue)), strings.Join(lines, "\n"))

	return bot.RespondEmbed(s, e, msg.MessageEmbed)
}
