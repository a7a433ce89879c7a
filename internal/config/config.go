package config

import (
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

func Get(key string) string {
	return os.Getenv(key)
}

type Config struct {
	DiscordToken        string   `env:"DISCORD_TOKEN,required"`
	SpotifyClientID     string   `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string   `env:"SPOTIFY_CLIENT_SECRET"`
	StoragePath         string   `env:"STORAGE_PATH" envDefault:"data/aurora.json"`
	DownloadDir         string   `env:"DOWNLOAD_DIR" envDefault:"downloads"`
	CookiesPath         string   `env:"COOKIES_PATH"`
	OwnerID             string   `env:"OWNER_ID"`
	AllowedGuilds       []string `env:"ALLOWED_GUILDS" envSeparator:","`
	ProxyURL            string   `env:"PROXY_URL"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[ERR] Failed to load configuration: %v", err)
	}
	return cfg
}

// SpotifyEnabled reports whether Spotify credentials were provided.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// GuildAllowed reports whether the bot may operate in the given guild.
// An empty allow-list permits every guild.
func (c *Config) GuildAllowed(guildID string) bool {
	if len(c.AllowedGuilds) == 0 {
		return true
	}
	for _, id := range c.AllowedGuilds {
		if id == guildID {
			return true
		}
	}
	return false
}
