// Package version holds build metadata injected at link time.
package version

var (
	AppName        = "Aurora"
	AppDescription = "A Discord bot that streams music from YouTube, Spotify and internet radio."

	// Set via -ldflags at build time.
	BuildDate string
	GoVersion string
)
