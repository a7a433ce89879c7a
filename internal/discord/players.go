package discord

import (
	"fmt"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"
)

// GetOrCreatePlayer returns the guild's player, creating and wiring it on
// first use.
func (b *Bot) GetOrCreatePlayer(guildID string) *player.Player {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.players[guildID]; ok {
		return p
	}

	p := player.New(b.dg, guildID, b.storage, b.resolver, b.cache.Lookup)
	b.players[guildID] = p

	b.cache.Watch(guildID, p)
	go b.watchPlayerEvents(guildID, p)

	return p
}

// watchPlayerEvents keeps the controller embed in step with playback.
func (b *Bot) watchPlayerEvents(guildID string, p *player.Player) {
	for range p.Events {
		b.controller.Refresh(guildID)
	}
}

// FindUserVoiceState finds the voice channel a user currently sits in.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return &bot.VoiceState{
				ChannelID: vs.ChannelID,
				UserID:    vs.UserID,
			}, nil
		}
	}
	return nil, fmt.Errorf("user is not in any voice channel")
}

// SetupController binds the player controller to a channel.
func (b *Bot) SetupController(guildID, channelID string) error {
	return b.controller.Setup(guildID, channelID)
}

// RemoveController removes the guild's player controller.
func (b *Bot) RemoveController(guildID string) error {
	return b.controller.Remove(guildID)
}
