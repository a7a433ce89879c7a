package command

import (
	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type AutoplayCommand struct {
	Bot bot.MusicBot
}

func (c *AutoplayCommand) Name() string { return "autoplay" }
func (c *AutoplayCommand) Description() string {
	return "Toggle playing related tracks when the queue ends"
}
func (c *AutoplayCommand) Aliases() []string  { return []string{} }
func (c *AutoplayCommand) Category() string   { return "🎵 Music" }
func (c *AutoplayCommand) RequireAdmin() bool { return false }
func (c *AutoplayCommand) RequireOwner() bool { return false }

func (c *AutoplayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *AutoplayCommand) Run(ctx interface{}) error {
	slash, err := mustSlash(ctx)
	if err != nil {
		return err
	}
	s, e := slash.Session, slash.Event

	p := c.Bot.GetOrCreatePlayer(e.GuildID)
	enabled := !p.Autoplay()
	p.SetAutoplay(enabled)

	desc := "♾️ Autoplay is now off."
	if enabled {
		desc = "♾️ Autoplay is now on."
	}
	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{Description: desc})
}
