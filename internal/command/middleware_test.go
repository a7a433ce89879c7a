package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeCommand struct {
	name string
	ran  int
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake" }
func (f *fakeCommand) Aliases() []string   { return nil }
func (f *fakeCommand) Category() string    { return "test" }
func (f *fakeCommand) RequireAdmin() bool  { return false }
func (f *fakeCommand) RequireOwner() bool  { return false }

func (f *fakeCommand) Run(ctx interface{}) error {
	f.ran++
	return nil
}

func (f *fakeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: f.name, Description: "fake"}
}

func TestMiddlewareChainDelegates(t *testing.T) {
	f := &fakeCommand{name: "fake"}
	wrapped := ApplyMiddlewares(f, WithGuildOnly(), WithAccessCheck("owner"), WithCommandLogger())

	sp, ok := wrapped.(SlashProvider)
	if !ok {
		t.Fatal("wrapped command lost its slash definition")
	}
	if def := sp.SlashDefinition(); def == nil || def.Name != "fake" {
		t.Fatalf("SlashDefinition() = %+v, want name %q", def, "fake")
	}

	ctx := &SlashInteractionContext{
		Event: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{GuildID: "g1"},
		},
	}
	if err := wrapped.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if f.ran != 1 {
		t.Errorf("inner Run called %d times, want 1", f.ran)
	}
}
