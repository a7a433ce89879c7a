package bot

// SystemEventType identifies an out-of-band event for the running bot.
type SystemEventType int

const (
	SystemEventRefreshCommands SystemEventType = iota
)

// SystemEvent asks the bot to perform maintenance work, e.g. re-syncing
// slash commands after a definition change.
type SystemEvent struct {
	Type    SystemEventType
	GuildID string
	Target  string // "all" or a specific command name
}

var systemEvents = make(chan SystemEvent, 32)

// PublishSystemEvent queues an event, dropping it if the channel is full.
func PublishSystemEvent(ev SystemEvent) {
	select {
	case systemEvents <- ev:
	default:
	}
}

// SystemEvents returns the event stream the bot consumes.
func SystemEvents() <-chan SystemEvent {
	return systemEvents
}
