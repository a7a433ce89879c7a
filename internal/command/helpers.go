package command

import (
	"fmt"
	"time"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/music/parsers"

	"github.com/bwmarrin/discordgo"
)

// mustSlash unwraps the generic context handed to Run.
func mustSlash(ctx interface{}) (*SlashInteractionContext, error) {
	slash, ok := ctx.(*SlashInteractionContext)
	if !ok {
		return nil, fmt.Errorf("wrong context type")
	}
	return slash, nil
}

// userVoiceState resolves the invoking user's voice channel, replying
// ephemerally when the user is not connected.
func userVoiceState(c *SlashInteractionContext) (*bot.VoiceState, bool) {
	vs, err := c.Bot.FindUserVoiceState(c.Event.GuildID, c.Event.Member.User.ID)
	if err != nil {
		bot.FollowupEmbedEphemeral(c.Session, c.Event, &discordgo.MessageEmbed{
			Title:       "🎵 Voice Error",
			Description: "Join a voice channel first.",
		})
		return nil, false
	}
	return vs, true
}

// fmtDuration renders m:ss, or h:mm:ss past the hour.
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

// trackLine renders a track as a markdown link when a URL is known.
func trackLine(t parsers.Track) string {
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
