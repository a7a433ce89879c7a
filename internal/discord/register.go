package discord

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/auroramusic/aurora/internal/command"
	"github.com/auroramusic/aurora/pkg/adaptive"

	"github.com/bwmarrin/discordgo"
)

// registerCommands brings a guild's slash commands in line with the
// registry. Definitions are hashed and compared against a per-guild cache
// so unchanged commands never hit the API.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.appID()
	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	localHashes := loadGuildCommandHashes(guildID)

	var wanted []*discordgo.ApplicationCommand
	wantedHashes := make(map[string]string)
	for _, cmd := range command.All() {
		def := normalizeDefinition(cmd)
		if def == nil {
			continue
		}
		wanted = append(wanted, def)
		wantedHashes[def.Name] = hashDefinition(def)

		// Aliases register as their own slash commands; interaction
		// dispatch resolves them back to the same handler.
		for _, alias := range cmd.Aliases() {
			aliased := aliasDefinition(def, alias)
			wanted = append(wanted, aliased)
			wantedHashes[aliased.Name] = hashDefinition(aliased)
		}
	}

	// Delete obsolete
	for _, old := range existing {
		if _, ok := wantedHashes[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
			delete(localHashes, old.Name)
		}
	}

	// A command present locally but missing remotely must be re-created
	// even when its hash is unchanged.
	remote := make(map[string]bool, len(existing))
	for _, ex := range existing {
		remote[ex.Name] = true
	}

	var changed []*discordgo.ApplicationCommand
	for _, cmd := range wanted {
		if localHashes[cmd.Name] != wantedHashes[cmd.Name] || !remote[cmd.Name] {
			changed = append(changed, cmd)
		}
	}

	if len(changed) > 0 {
		log.Printf("[INFO] [%s] %d commands changed, updating with rate limit...", guildID, len(changed))
		b.createCommandsRateLimited(guildID, changed)
		for _, c := range changed {
			localHashes[c.Name] = wantedHashes[c.Name]
		}
	}

	saveGuildCommandHashes(guildID, localHashes)
	return nil
}

// createCommandsRateLimited paces creation calls and retries each one
// with adaptive backoff when the API pushes back.
func (b *Bot) createCommandsRateLimited(guildID string, cmds []*discordgo.ApplicationCommand) {
	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()

	cfg := adaptive.DefaultRetryConfig()
	appID := b.appID()
	for _, cmd := range cmds {
		<-ticker.C

		cfg.OnRetry = func(attempt int, err error) {
			log.Printf("[WARN] Create %s attempt %d failed: %v", cmd.Name, attempt, err)
		}
		err := adaptive.Retry(context.Background(), b.registerLimiter, cfg, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, cmd)
			return withStatusCode(err)
		})
		if err != nil {
			log.Printf("[ERR] Can't create command %s: %v", cmd.Name, err)
			continue
		}
		log.Printf("[DONE] Command created: %s", cmd.Name)
	}
}

// withStatusCode exposes the HTTP status of a discordgo REST error so the
// retry helper can tell overload apart from hard failures.
func withStatusCode(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return &restStatusError{rest: rest}
	}
	return err
}

type restStatusError struct {
	rest *discordgo.RESTError
}

func (e *restStatusError) Error() string   { return e.rest.Error() }
func (e *restStatusError) Unwrap() error   { return e.rest }
func (e *restStatusError) StatusCode() int { return e.rest.Response.StatusCode }

// aliasDefinition shallow-copies a definition under an alternate name.
func aliasDefinition(def *discordgo.ApplicationCommand, alias string) *discordgo.ApplicationCommand {
	clone := *def
	clone.Name = alias
	return &clone
}

// normalizeDefinition fills in the default command type.
func normalizeDefinition(cmd command.Command) *discordgo.ApplicationCommand {
	slash, ok := cmd.(command.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}
