package bot

import "github.com/auroramusic/aurora/internal/music/player"

// MusicBot is the surface commands use to reach the running bot without
// importing the discord package directly (avoids import cycles).
type MusicBot interface {
	GetOrCreatePlayer(guildID string) *player.Player
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
	SetupController(guildID, channelID string) error
	RemoveController(guildID string) error
}

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}
