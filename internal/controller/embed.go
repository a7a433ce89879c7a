package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/parsers"
	"github.com/auroramusic/aurora/internal/music/player"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

func (m *Manager) buildEmbed(p *player.Player) *discordgo.MessageEmbed {
	msg := embed.NewEmbed().SetColor(bot.EmbedColor).SetTitle(embedTitle)

	track, err := p.CurrentTrack()
	if err != nil {
		msg.SetDescription(embedIdleMessage)
	} else {
		state := "▶️"
		if p.IsPaused() {
			state = "⏸"
		}
		position := fmtDuration(p.Elapsed())
		if track.Duration > 0 {
			position += " / " + fmtDuration(track.Duration)
		}
		desc := fmt.Sprintf("%s %s\n`%s`", state, trackLink(*track), position)
		if detail := trackDetail(*track); detail != "" {
			desc += "\n" + detail
		}
		msg.SetDescription(desc)
	}

	if queue := p.Queue(); len(queue) > 0 {
		var lines []string
		for i, t := range queue {
			if i == upNextLimit {
				lines = append(lines, fmt.Sprintf("...and %d more", len(queue)-upNextLimit))
				break
			}
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, trackLink(t)))
		}
		msg.AddField("Up Next", strings.Join(lines, "\n"))
	}

	msg.SetFooter(fmt.Sprintf("Volume %d%% · Loop %s · Autoplay %s",
		p.Volume(), p.LoopMode(), onOff(p.Autoplay())))

	return msg.MessageEmbed
}

func buildComponents(p *player.Player) []discordgo.MessageComponent {
	playPause := "▶️"
	if p.IsPlaying() && !p.IsPaused() {
		playPause = "⏸"
	}

	loopStyle := discordgo.SecondaryButton
	if p.LoopMode() != player.LoopOff {
		loopStyle = discordgo.PrimaryButton
	}
	autoplayStyle := discordgo.SecondaryButton
	if p.Autoplay() {
		autoplayStyle = discordgo.PrimaryButton
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				button(IDPrevious, "⏮", discordgo.SecondaryButton),
				button(IDPlayPause, playPause, discordgo.PrimaryButton),
				button(IDSkip, "⏭", discordgo.SecondaryButton),
				button(IDStop, "⏹", discordgo.DangerButton),
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				button(IDVolumeDown, "🔉", discordgo.SecondaryButton),
				button(IDVolumeUp, "🔊", discordgo.SecondaryButton),
				button(IDLoop, "🔁", loopStyle),
				button(IDShuffle, "🔀", discordgo.SecondaryButton),
				button(IDAutoplay, "♾️", autoplayStyle),
			},
		},
	}
}

func button(id, emoji string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		CustomID: id,
		Style:    style,
		Emoji:    &discordgo.ComponentEmoji{Name: emoji},
	}
}

func trackLink(t parsers.Track) string {
	title := t.Title
	if t.Artist != "" {
		title = t.Artist + " - " + t.Title
	}
	switch {
	case title != "" && t.URL != "":
		return fmt.Sprintf("[%s](%s)", title, t.URL)
	case title != "":
		return title
	case t.URL != "":
		return t.URL
	default:
		return "Unknown track"
	}
}

func trackDetail(t parsers.Track) string {
	var parts []string
	if t.SourceInfo.SourceName != "" {
		parts = append(parts, t.SourceInfo.SourceName)
	}
	if t.Requester != "" {
		parts = append(parts, "requested by <@"+t.Requester+">")
	}
	return strings.Join(parts, " · ")
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
