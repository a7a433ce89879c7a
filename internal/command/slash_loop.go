package command

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

type LoopCommand struct {
	Bot bot.MusicBot
}

func (c *LoopCommand) Name() string        { return "loop" }
func (c *LoopCommand) Description() string { return "Show or change the loop mode" }
func (c *LoopCommand) Aliases() []string   { return []string{} }
func (c *LoopCommand) Category() string    { return "🎵 Music" }
func (c *LoopCommand) RequireAdmin() bool  { return false }
func (c *LoopCommand) RequireOwner() bool  { return false }

func (c *LoopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "Loop mode (omit to show the current one)",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Off", Value: string(player.LoopOff)},
					{Name: "Track", Value: string(player.LoopTrack)},
					{Name: "Queue", Value: string(player.LoopQueue)},
				},
			},
		},
	}
}

func (c *LoopCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)

	opts := e.ApplicationCommandData().Options
	if len(opts) == 0 {
		return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("🔁 Loop mode is `%s`.", p.LoopMode()),
		})
	}

	mode := player.LoopMode(opts[0].StringValue())
	p.SetLoopMode(mode)
	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("🔁 Loop mode set to `%s`.", mode),
	})
}
