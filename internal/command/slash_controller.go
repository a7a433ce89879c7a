package command

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type ControllerCommand struct {
	Bot bot.MusicBot
}

func (c *ControllerCommand) Name() string { return "controller" }
func (c *ControllerCommand) Description() string {
	return "Manage the persistent player controller in this channel"
}
func (c *ControllerCommand) Aliases() []string  { return []string{} }
func (c *ControllerCommand) Category() string   { return "🎵 Music" }
func (c *ControllerCommand) RequireAdmin() bool { return true }
func (c *ControllerCommand) RequireOwner() bool { return false }

func (c *ControllerCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setup",
				Description: "Bind the player controller to this channel",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove the player controller from this server",
			},
		},
	}
}

func (c *ControllerCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	if len(e.ApplicationCommandData().Options) == 0 {
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "Missing subcommand.",
		})
	}

	switch sub := e.ApplicationCommandData().Options[0]; sub.Name {
	case "setup":
		if err := c.Bot.SetupController(e.GuildID, e.ChannelID); err != nil {
			return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Failed to set up the controller: %v", err),
			})
		}
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "🎛️ Controller bound to this channel. Messages posted here are treated as play requests.",
		})

	case "remove":
		if err := c.Bot.RemoveController(e.GuildID); err != nil {
			return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Failed to remove the controller: %v", err),
			})
		}
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: "🎛️ Controller removed.",
		})

	default:
		return bot.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Unknown subcommand: %s", sub.Name),
		})
	}
}
