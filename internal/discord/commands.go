package discord

import (
	"github.com/auroramusic/aurora/internal/command"
)

// registerAllCommands populates the command registry with the bot injected.
func (b *Bot) registerAllCommands() {
	mws := []command.Middleware{
		command.WithGuildOnly(),
		command.WithAccessCheck(b.cfg.OwnerID),
		command.WithCommandLogger(),
	}

	command.Register(&command.PlayCommand{Bot: b}, mws...)
	command.Register(&command.SkipCommand{Bot: b}, mws...)
	command.Register(&command.StopCommand{Bot: b}, mws...)
	command.Register(&command.PauseCommand{Bot: b}, mws...)
	command.Register(&command.ResumeCommand{Bot: b}, mws...)
	command.Register(&command.PreviousCommand{Bot: b}, mws...)
	command.Register(&command.SeekCommand{Bot: b}, mws...)
	command.Register(&command.QueueCommand{Bot: b}, mws...)
	command.Register(&command.HistoryCommand{Bot: b}, mws...)
	command.Register(&command.ShuffleCommand{Bot: b}, mws...)
	command.Register(&command.LoopCommand{Bot: b}, mws...)
	command.Register(&command.VolumeCommand{Bot: b}, mws...)
	command.Register(&command.AutoplayCommand{Bot: b}, mws...)
	command.Register(&command.ControllerCommand{Bot: b}, mws...)
	command.Register(&command.ResyncCommand{Bot: b}, mws...)
	command.Register(&command.AboutCommand{}, mws...)
	command.Register(&command.PingCommand{}, mws...)
}
