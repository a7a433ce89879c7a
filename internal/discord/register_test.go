package discord

import (
	"errors"
	"net/http"
	"testing"

	"github.com/auroramusic/aurora/pkg/adaptive"

	"github.com/bwmarrin/discordgo"
)

func TestWithStatusCode(t *testing.T) {
	if withStatusCode(nil) != nil {
		t.Error("nil must stay nil")
	}

	plain := errors.New("plain")
	if withStatusCode(plain) != plain {
		t.Error("non-REST errors must pass through unchanged")
	}

	rest := &discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusTooManyRequests}}
	wrapped := withStatusCode(rest)

	var sc adaptive.StatusCoder
	if !errors.As(wrapped, &sc) {
		t.Fatal("REST errors must expose their status code to the retry helper")
	}
	if sc.StatusCode() != http.StatusTooManyRequests {
		t.Errorf("StatusCode() = %d, want %d", sc.StatusCode(), http.StatusTooManyRequests)
	}
	if !errors.Is(wrapped, rest) {
		t.Error("the wrapper must unwrap to the original REST error")
	}
}

func TestAliasDefinition(t *testing.T) {
	def := &discordgo.ApplicationCommand{
		Name:        "queue",
		Description: "Show the queue",
		Type:        discordgo.ChatApplicationCommand,
	}
	alias := aliasDefinition(def, "q")

	if alias.Name != "q" {
		t.Errorf("alias name = %q, want %q", alias.Name, "q")
	}
	if alias.Description != def.Description || alias.Type != def.Type {
		t.Error("alias must keep the original definition apart from its name")
	}
	if def.Name != "queue" {
		t.Error("aliasing must not mutate the original definition")
	}
	if hashDefinition(alias) == hashDefinition(def) {
		t.Error("alias must hash under its own name")
	}
}
