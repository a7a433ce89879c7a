package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
)

// HandleComponent processes a controller button press. Returns false when
// the interaction belongs to someone else.
func (m *Manager) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	customID := i.MessageComponentData().CustomID
	if !IsControllerComponent(customID) {
		return false
	}

	member := i.Member
	if member == nil {
		return true
	}

	if m.onCooldown(i.GuildID, member.User.ID) {
		bot.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
			Description: "Easy there. Try again in a second.",
		})
		return true
	}

	if err := bot.RespondDeferredUpdate(s, i); err != nil {
		log.Printf("[WARN] Failed to ack controller button %s: %v", customID, err)
	}

	p := m.music.GetOrCreatePlayer(i.GuildID)

	switch customID {
	case IDPrevious:
		if err := p.Previous(); err != nil && !errors.Is(err, player.ErrNoHistory) {
			log.Printf("[WARN] Controller previous failed in guild %s: %v", i.GuildID, err)
		}
	case IDPlayPause:
		m.togglePlayPause(p, i.GuildID, member.User.ID)
	case IDSkip:
		if err := p.Skip(); err != nil && !errors.Is(err, player.ErrNoTrackPlaying) {
			log.Printf("[WARN] Controller skip failed in guild %s: %v", i.GuildID, err)
		}
	case IDStop:
		go p.Stop(true)
	case IDVolumeDown:
		p.AdjustVolume(-volumeStep)
	case IDVolumeUp:
		p.AdjustVolume(volumeStep)
	case IDLoop:
		p.SetLoopMode(player.NextLoopMode(p.LoopMode()))
	case IDShuffle:
		p.Shuffle()
	case IDAutoplay:
		p.SetAutoplay(!p.Autoplay())
	default:
		log.Printf("[WARN] Unknown controller button: %s", customID)
	}

	m.Refresh(i.GuildID)
	return true
}

// togglePlayPause also restarts a stopped player if the queue has tracks
// and the pressing user sits in a voice channel.
func (m *Manager) togglePlayPause(p *player.Player, guildID, userID string) {
	if p.IsPlaying() || p.IsPaused() {
		if _, err := p.TogglePause(); err != nil {
			log.Printf("[WARN] Controller play/pause failed in guild %s: %v", guildID, err)
		}
		return
	}

	vs, err := m.music.FindUserVoiceState(guildID, userID)
	if err != nil {
		return
	}
	if err := p.PlayNext(vs.ChannelID); err != nil && !errors.Is(err, player.ErrNoTracksInQueue) {
		log.Printf("[WARN] Controller restart failed in guild %s: %v", guildID, err)
	}
}

// HandleMessage treats a plain message in the bound channel as a play
// request and removes it afterwards. Returns false when the message is not
// the controller's business.
func (m *Manager) HandleMessage(s *discordgo.Session, msg *discordgo.MessageCreate) bool {
	channelID, ok := m.BoundChannel(msg.GuildID)
	if !ok || msg.ChannelID != channelID {
		return false
	}

	input := strings.TrimSpace(msg.Content)
	defer func() {
		if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			log.Printf("[WARN] Failed to delete play request message: %v", err)
		}
	}()

	if input == "" {
		return true
	}

	vs, err := m.music.FindUserVoiceState(msg.GuildID, msg.Author.ID)
	if err != nil {
		m.notice(msg.ChannelID, fmt.Sprintf("%s, join a voice channel first.", msg.Author.Mention()))
		return true
	}

	p := m.music.GetOrCreatePlayer(msg.GuildID)
	if _, err := p.Enqueue(input, "", "", msg.Author.ID); err != nil {
		m.notice(msg.ChannelID, fmt.Sprintf("Couldn't resolve %q: %v", input, err))
		return true
	}

	if !p.IsPlaying() {
		if err := p.PlayNext(vs.ChannelID); err != nil {
			m.notice(msg.ChannelID, fmt.Sprintf("Playback failed: %v", err))
			return true
		}
	}

	m.Refresh(msg.GuildID)
	return true
}

// notice posts a short-lived message in the controller channel.
func (m *Manager) notice(channelID, content string) {
	msg, err := m.dg.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Description: content,
		Color:       bot.EmbedColor,
	})
	if err != nil {
		return
	}
	time.AfterFunc(noticeTTL, func() {
		m.dg.ChannelMessageDelete(channelID, msg.ID)
	})
}
