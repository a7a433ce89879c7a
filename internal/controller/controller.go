// Package controller manages a per-guild persistent player message: one
// pinned embed with buttons, bound to a text channel. Plain messages posted
// in the bound channel are treated as play requests.
package controller

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"
	"github.com/auroramusic/aurora/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Button custom IDs. Everything under the prefix routes here.
const (
	customIDPrefix = "aurora_"

	IDPrevious   = "aurora_previous"
	IDPlayPause  = "aurora_play_pause"
	IDSkip       = "aurora_skip"
	IDStop       = "aurora_stop"
	IDVolumeDown = "aurora_volume_down"
	IDVolumeUp   = "aurora_volume_up"
	IDLoop       = "aurora_loop"
	IDShuffle    = "aurora_shuffle"
	IDAutoplay   = "aurora_autoplay"
)

const (
	// buttonCooldown is the minimum spacing between button presses per user.
	buttonCooldown = time.Second

	// refreshDelay coalesces bursts of state changes into one embed edit.
	refreshDelay = time.Second

	volumeStep       = 10
	upNextLimit      = 5
	noticeTTL        = 10 * time.Second
	embedTitle       = "🎛️ Aurora Player"
	embedIdleMessage = "Nothing is playing. Post a link or a search query in this channel to start."
)

// MusicAccess is what the controller needs from the running bot.
type MusicAccess interface {
	GetOrCreatePlayer(guildID string) *player.Player
	FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error)
}

// Manager owns every guild's controller message.
type Manager struct {
	dg    *discordgo.Session
	store *storage.Storage
	music MusicAccess

	mu        sync.Mutex
	cooldowns map[string]time.Time   // key = guildID:userID
	pending   map[string]*time.Timer // guildID -> scheduled refresh
}

func NewManager(dg *discordgo.Session, store *storage.Storage, music MusicAccess) *Manager {
	return &Manager{
		dg:        dg,
		store:     store,
		music:     music,
		cooldowns: make(map[string]time.Time),
		pending:   make(map[string]*time.Timer),
	}
}

// Setup binds the controller to a channel, replacing any previous one.
func (m *Manager) Setup(guildID, channelID string) error {
	if prev, err := m.store.GetController(guildID); err == nil && prev != nil {
		m.dg.ChannelMessageDelete(prev.ChannelID, prev.MessageID)
	}

	p := m.music.GetOrCreatePlayer(guildID)
	msg, err := m.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{m.buildEmbed(p)},
		Components: buildComponents(p),
	})
	if err != nil {
		return fmt.Errorf("failed to send controller message: %w", err)
	}

	if err := m.store.SetController(guildID, storage.Controller{
		ChannelID: channelID,
		MessageID: msg.ID,
	}); err != nil {
		return fmt.Errorf("failed to persist controller binding: %w", err)
	}
	return nil
}

// Remove deletes the controller message and forgets the binding.
func (m *Manager) Remove(guildID string) error {
	ctrl, err := m.store.GetController(guildID)
	if err != nil {
		return err
	}
	if ctrl == nil {
		return fmt.Errorf("no controller is set up for this server")
	}

	if err := m.dg.ChannelMessageDelete(ctrl.ChannelID, ctrl.MessageID); err != nil {
		log.Printf("[WARN] Failed to delete controller message for guild %s: %v", guildID, err)
	}
	return m.store.ClearController(guildID)
}

// BoundChannel returns the channel the controller lives in, if any.
func (m *Manager) BoundChannel(guildID string) (string, bool) {
	ctrl, err := m.store.GetController(guildID)
	if err != nil || ctrl == nil {
		return "", false
	}
	return ctrl.ChannelID, true
}

// Refresh schedules an embed update, coalescing bursts into one edit.
func (m *Manager) Refresh(guildID string) {
	if _, ok := m.BoundChannel(guildID); !ok {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, scheduled := m.pending[guildID]; scheduled {
		return
	}
	m.pending[guildID] = time.AfterFunc(refreshDelay, func() {
		m.mu.Lock()
		delete(m.pending, guildID)
		m.mu.Unlock()
		m.render(guildID)
	})
}

// render rebuilds the controller message from current player state. A
// deleted message is re-created in place.
func (m *Manager) render(guildID string) {
	ctrl, err := m.store.GetController(guildID)
	if err != nil || ctrl == nil {
		return
	}

	p := m.music.GetOrCreatePlayer(guildID)
	embeds := []*discordgo.MessageEmbed{m.buildEmbed(p)}
	components := buildComponents(p)

	_, err = m.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    ctrl.ChannelID,
		ID:         ctrl.MessageID,
		Embeds:     &embeds,
		Components: &components,
	})
	if err == nil {
		return
	}

	// Someone deleted the message; put a fresh one back.
	msg, sendErr := m.dg.ChannelMessageSendComplex(ctrl.ChannelID, &discordgo.MessageSend{
		Embeds:     embeds,
		Components: components,
	})
	if sendErr != nil {
		log.Printf("[WARN] Failed to restore controller message for guild %s: %v", guildID, sendErr)
		return
	}
	if err := m.store.SetController(guildID, storage.Controller{
		ChannelID: ctrl.ChannelID,
		MessageID: msg.ID,
	}); err != nil {
		log.Printf("[WARN] Failed to persist restored controller for guild %s: %v", guildID, err)
	}
}

// onCooldown enforces the per-user button rate limit.
func (m *Manager) onCooldown(guildID, userID string) bool {
	key := guildID + ":" + userID
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.cooldowns[key]; ok && now.Sub(last) < buttonCooldown {
		return true
	}
	m.cooldowns[key] = now
	return false
}

// IsControllerComponent reports whether a component custom ID belongs to
// the controller.
func IsControllerComponent(customID string) bool {
	return strings.HasPrefix(customID, customIDPrefix)
}
