package command

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type ResyncCommand struct {
	Bot bot.MusicBot
}

func (c *ResyncCommand) Name() string        { return "resync" }
func (c *ResyncCommand) Description() string { return "Re-sync slash commands for this server" }
func (c *ResyncCommand) Aliases() []string   { return []string{} }
func (c *ResyncCommand) Category() string    { return "🛠️ Maintenance" }
func (c *ResyncCommand) RequireAdmin() bool  { return true }
func (c *ResyncCommand) RequireOwner() bool  { return false }

func (c *ResyncCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "target",
				Description: "A command name, or 'all' (default)",
			},
		},
	}
}

func (c *ResyncCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	target := "all"
	if opts := e.ApplicationCommandData().Options; len(opts) > 0 {
		target = opts[0].StringValue()
	}

	bot.PublishSystemEvent(bot.SystemEvent{
		Type:    bot.SystemEventRefreshCommands,
		GuildID: e.GuildID,
		Target:  target,
	})

	return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("🔄 Re-sync queued for `%s`.", target),
	})
}
