package discord

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// guildCachePath returns the path of a guild's command hash cache.
func guildCachePath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

// loadGuildCommandHashes loads a guild's cached command hashes. A missing
// or unreadable cache is just an empty map, forcing re-registration.
func loadGuildCommandHashes(guildID string) map[string]string {
	data := make(map[string]string)

	file, err := os.ReadFile(guildCachePath(guildID))
	if err == nil {
		_ = json.Unmarshal(file, &data)
	}
	return data
}

// saveGuildCommandHashes persists a guild's command hashes.
func saveGuildCommandHashes(guildID string, hashes map[string]string) {
	path := guildCachePath(guildID)
	os.MkdirAll(filepath.Dir(path), 0755)
	data, _ := json.MarshalIndent(hashes, "", "  ")
	_ = os.WriteFile(path, data, 0644)
}
