package config

import "testing"

func TestGuildAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		guildID string
		want    bool
	}{
		{"empty list allows all", nil, "123", true},
		{"listed guild", []string{"123", "456"}, "456", true},
		{"unlisted guild", []string{"123"}, "789", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AllowedGuilds: tt.allowed}
			if got := cfg.GuildAllowed(tt.guildID); got != tt.want {
				t.Errorf("GuildAllowed(%q) = %v, want %v", tt.guildID, got, tt.want)
			}
		})
	}
}

func TestSpotifyEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.SpotifyEnabled() {
		t.Error("expected Spotify to be disabled without credentials")
	}
	cfg.SpotifyClientID = "id"
	if cfg.SpotifyEnabled() {
		t.Error("expected Spotify to be disabled without a secret")
	}
	cfg.SpotifyClientSecret = "secret"
	if !cfg.SpotifyEnabled() {
		t.Error("expected Spotify to be enabled with full credentials")
	}
}
