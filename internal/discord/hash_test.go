package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func sampleCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Play a track",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "input",
				Description: "Link or search query",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "source",
				Description: "Source override",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "YouTube", Value: "youtube"},
				},
			},
		},
	}
}

func TestHashDefinitionDeterministic(t *testing.T) {
	a := hashDefinition(sampleCommand())
	b := hashDefinition(sampleCommand())
	if a != b {
		t.Errorf("same definition hashed differently: %s vs %s", a, b)
	}
}

func TestHashDefinitionIgnoresOptionOrder(t *testing.T) {
	cmd := sampleCommand()
	reordered := sampleCommand()
	reordered.Options[0], reordered.Options[1] = reordered.Options[1], reordered.Options[0]

	if hashDefinition(cmd) != hashDefinition(reordered) {
		t.Error("option order should not change the hash")
	}
}

func TestHashDefinitionDetectsChanges(t *testing.T) {
	base := hashDefinition(sampleCommand())

	changed := sampleCommand()
	changed.Description = "Play a track or playlist"
	if hashDefinition(changed) == base {
		t.Error("description change should change the hash")
	}

	changed = sampleCommand()
	changed.Options[0].Required = false
	if hashDefinition(changed) == base {
		t.Error("option change should change the hash")
	}

	changed = sampleCommand()
	changed.ID = "1234"
	changed.Version = "5678"
	if hashDefinition(changed) != base {
		t.Error("runtime-only fields should not affect the hash")
	}
}
