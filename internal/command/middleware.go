package command

import (
	"log"

	"github.com/auroramusic/aurora/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type Middleware func(Command) Command

type wrappedCommand struct {
	Command
	wrap func(ctx interface{}) error
}

func (w *wrappedCommand) Run(ctx interface{}) error {
	if w.wrap != nil {
		return w.wrap(ctx)
	}
	return w.Command.Run(ctx)
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithGuildOnly silently drops invocations outside a guild (DMs).
func WithGuildOnly() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				if v, ok := ctx.(*SlashInteractionContext); ok && v.Event.GuildID == "" {
					return bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
						Description: "This command only works inside a server.",
					})
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithAccessCheck enforces the command's RequireAdmin/RequireOwner flags.
// ownerID comes from configuration and short-circuits every check.
func WithAccessCheck(ownerID string) Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				v, ok := ctx.(*SlashInteractionContext)
				if !ok {
					return cmd.Run(ctx)
				}
				member := v.Event.Member
				if member == nil {
					return cmd.Run(ctx)
				}
				userID := member.User.ID

				if cmd.RequireOwner() && userID != ownerID {
					return bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
						Description: "Only the bot owner can use this command.",
					})
				}
				if cmd.RequireAdmin() && userID != ownerID && !isAdministrator(v.Session, v.Event.GuildID, member) {
					return bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
						Description: "You need administrator permissions to use this command.",
					})
				}
				return cmd.Run(ctx)
			},
		}
	}
}

// WithCommandLogger logs every invocation after it runs.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(ctx interface{}) error {
				err := cmd.Run(ctx)

				if v, ok := ctx.(*SlashInteractionContext); ok && v.Event.Member != nil {
					log.Printf("[INFO] /%s by %s in guild %s", cmd.Name(), v.Event.Member.User.Username, v.Event.GuildID)
				}
				return err
			},
		}
	}
}

func isAdministrator(s *discordgo.Session, guildID string, member *discordgo.Member) bool {
	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return false
		}
	}
	if member.User.ID == guild.OwnerID {
		return true
	}
	for _, r := range member.Roles {
		role, _ := s.State.Role(guildID, r)
		if role != nil && role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}
