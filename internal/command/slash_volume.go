package command

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/stream"

	"github.com/bwmarrin/discordgo"
)

type VolumeCommand struct {
	Bot bot.MusicBot
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or change the playback volume" }
func (c *VolumeCommand) Aliases() []string   { return []string{} }
func (c *VolumeCommand) Category() string    { return "🎵 Music" }
func (c *VolumeCommand) RequireAdmin() bool  { return false }
func (c *VolumeCommand) RequireOwner() bool  { return false }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minLevel := float64(stream.MinVolume)
	maxLevel := float64(stream.MaxVolume)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: fmt.Sprintf("Volume in percent (%d-%d, omit to show)", stream.MinVolume, stream.MaxVolume),
				MinValue:    &minLevel,
				MaxValue:    maxLevel,
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)

	opts := e.ApplicationCommandData().Options
	if len(opts) == 0 {
		return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("🔊 Volume is %d%%.", p.Volume()),
		})
	}

	level := p.SetVolume(int(opts[0].IntValue()))
	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("🔊 Volume set to %d%%.", level),
	})
}
