package discord

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/auroramusic/aurora/internal/bot"
	"github.com/auroramusic/aurora/internal/command"
	"github.com/auroramusic/aurora/internal/config"
	"github.com/auroramusic/aurora/internal/controller"
	"github.com/auroramusic/aurora/internal/music/player"
	"github.com/auroramusic/aurora/internal/music/resolver"
	"github.com/auroramusic/aurora/internal/precache"
	"github.com/auroramusic/aurora/internal/storage"
	"github.com/auroramusic/aurora/pkg/adaptive"

	"github.com/bwmarrin/discordgo"
)

// Bot is the running Discord bot.
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	storage    *storage.Storage
	resolver   *resolver.Resolver
	cache      *precache.Cache
	controller *controller.Manager

	registerLimiter *adaptive.Limiter

	mu      sync.Mutex
	players map[string]*player.Player
}

// StartBot runs the bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage, cache *precache.Cache) error {
	b := &Bot{
		cfg:             cfg,
		storage:         store,
		cache:           cache,
		resolver:        resolver.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
		registerLimiter: adaptive.NewLimiter(40, 1, 40),
		players:         make(map[string]*player.Player),
	}
	if err := b.run(ctx); err != nil {
		return fmt.Errorf("bot run error: %w", err)
	}
	return nil
}

func (b *Bot) run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.controller = controller.NewManager(dg, b.storage, b)
	b.registerAllCommands()

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onGuildCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	go b.handleSystemEvents(ctx)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	b.shutdown()
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

// shutdown stops playback and background work for every guild.
func (b *Bot) shutdown() {
	b.cache.StopAll()

	b.mu.Lock()
	players := make([]*player.Player, 0, len(b.players))
	for _, p := range b.players {
		players = append(players, p)
	}
	b.mu.Unlock()

	for _, p := range players {
		p.Stop(true)
	}
}

// onReady enforces the guild allow-list and registers commands.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}

	for _, g := range r.Guilds {
		if !b.cfg.GuildAllowed(g.ID) {
			b.leaveDisallowedGuild(s, g.ID, g.Name)
			continue
		}
		if err := b.registerCommands(g.ID); err != nil {
			log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
		}
		b.controller.Refresh(g.ID)
	}

	log.Printf("[INFO] ✅ Discord bot %v is running.", botInfo.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if !b.cfg.GuildAllowed(g.Guild.ID) {
		b.leaveDisallowedGuild(s, g.Guild.ID, g.Guild.Name)
		return
	}

	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

// leaveDisallowedGuild notifies the owner, then leaves.
func (b *Bot) leaveDisallowedGuild(s *discordgo.Session, guildID, guildName string) {
	log.Printf("[INFO] Leaving disallowed guild: %s (%s)", guildID, guildName)

	if b.cfg.OwnerID != "" {
		if ch, err := s.UserChannelCreate(b.cfg.OwnerID); err == nil {
			bot.Message(s, ch.ID, fmt.Sprintf("Left guild %s (%s): not on the allow-list.", guildName, guildID))
		}
	}

	if err := s.GuildLeave(guildID); err != nil {
		log.Printf("[ERR] Failed to leave guild %s: %v", guildID, err)
	}
}

// onMessageCreate forwards bound-channel messages to the controller.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	b.controller.HandleMessage(s, m)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		cmdName := i.ApplicationCommandData().Name

		cmd, ok := command.Get(cmdName)
		if !ok {
			log.Printf("[WARN] Unknown command: %s", cmdName)
			return
		}

		ctx := &command.SlashInteractionContext{
			Session: s,
			Event:   i,
			Storage: b.storage,
			Bot:     b,
		}
		if err := cmd.Run(ctx); err != nil {
			log.Println("[ERR] Error running slash command:", err)
			bot.RespondEmbedEphemeral(s, i, &discordgo.MessageEmbed{
				Description: fmt.Sprintf("Error running command: %v", err),
			})
		}

	case discordgo.InteractionMessageComponent:
		if b.controller.HandleComponent(s, i) {
			return
		}
		log.Printf("[WARN] No handler for component: %s", i.MessageComponentData().CustomID)
	}
}

func (b *Bot) handleSystemEvents(ctx context.Context) {
	for {
		select {
		case ev := <-bot.SystemEvents():
			switch ev.Type {
			case bot.SystemEventRefreshCommands:
				log.Printf("[INFO] Refreshing commands for guild %s (target: %s)", ev.GuildID, ev.Target)
				b.handleRefreshCommands(ev)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (b *Bot) handleRefreshCommands(ev bot.SystemEvent) {
	if ev.Target == "all" || ev.Target == "" {
		if err := b.registerCommands(ev.GuildID); err != nil {
			log.Printf("[ERR] Failed to refresh all commands: %v", err)
		}
		return
	}

	cmd, ok := command.Get(ev.Target)
	if !ok {
		log.Printf("[ERR] Command not found: %s", ev.Target)
		return
	}
	def := normalizeDefinition(cmd)
	if def == nil {
		log.Printf("[ERR] No slash definition for: %s", ev.Target)
		return
	}
	if _, err := b.dg.ApplicationCommandCreate(b.appID(), ev.GuildID, def); err != nil {
		log.Printf("[ERR] Failed to update command %s: %v", ev.Target, err)
		return
	}
	log.Printf("[DONE] Updated command: %s", ev.Target)
}

func (b *Bot) appID() string {
	if id := b.dg.State.User.ID; id != "" {
		return id
	}
	user, err := b.dg.User("@me")
	if err != nil {
		return ""
	}
	return user.ID
}
