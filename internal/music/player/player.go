package player

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/auroramusic/aurora/internal/music/parsers"
	"github.com/auroramusic/aurora/internal/music/resolver"
	"github.com/auroramusic/aurora/internal/music/sources"
	"github.com/auroramusic/aurora/internal/music/stream"
	"github.com/auroramusic/aurora/internal/storage"
	"github.com/bwmarrin/discordgo"
)

type LoopMode string

const (
	LoopOff   LoopMode = "off"
	LoopTrack LoopMode = "track"
	LoopQueue LoopMode = "queue"
)

// NextLoopMode cycles off -> track -> queue -> off.
func NextLoopMode(mode LoopMode) LoopMode {
	switch mode {
	case LoopOff:
		return LoopTrack
	case LoopTrack:
		return LoopQueue
	default:
		return LoopOff
	}
}

type Status string

const (
	StatusPlaying  Status = "Playing"
	StatusAdded    Status = "Track(s) Added"
	StatusStopped  Status = "Playback Stopped"
	StatusPaused   Status = "Playback Paused"
	StatusResumed  Status = "Playback Resumed"
	StatusQueueEnd Status = "Queue Finished"
	StatusError    Status = "Error"
)

func (status Status) StringEmoji() string {
	m := map[Status]string{
		StatusPlaying:  "▶️",
		StatusAdded:    "🎶",
		StatusStopped:  "⏹",
		StatusPaused:   "⏸",
		StatusResumed:  "▶️",
		StatusQueueEnd: "🏁",
		StatusError:    "❌",
	}
	return m[status]
}

// Event is emitted on the player's Events channel whenever playback state
// changes. Track is set for track-scoped statuses.
type Event struct {
	Status Status
	Track  *parsers.Track
}

var (
	ErrNoTrackPlaying  = errors.New("no track is currently playing")
	ErrNoTracksInQueue = errors.New("no tracks in queue")
	ErrNoHistory       = errors.New("no previously played tracks")
	ErrNotPaused       = errors.New("playback is not paused")
)

const (
	historyLimit = 50

	// aloneTimeout is how long the bot stays in an empty voice channel.
	aloneTimeout    = 300 * time.Second
	aloneCheckEvery = 30 * time.Second
)

// CacheLookup maps a track URL to a pre-downloaded local file, if one exists.
type CacheLookup func(url string) (string, bool)

// playbackSession pairs one playback goroutine's stop channel with the
// Once that closes it, so a Stop that lost a race with a newer playback
// can never close a channel it did not capture.
type playbackSession struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newPlaybackSession() *playbackSession {
	return &playbackSession{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (s *playbackSession) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Player owns one guild's queue and voice playback.
type Player struct {
	mu        sync.Mutex
	playing   bool
	paused    bool
	current   *parsers.Track
	queue     []parsers.Track
	history   []parsers.Track
	loopMode  LoopMode
	autoplay  bool
	controls  *stream.Controls
	watchOnce sync.Once

	resolver    *resolver.Resolver
	store       *storage.Storage
	cacheLookup CacheLookup

	dg *discordgo.Session

	guildID   string
	channelID string
	vc        *discordgo.VoiceConnection

	userStopped bool
	session     *playbackSession

	Events chan Event
}

// New creates a Player, restoring persisted per-guild settings.
func New(dg *discordgo.Session, guildID string, store *storage.Storage, res *resolver.Resolver, cacheLookup CacheLookup) *Player {
	volume := 100
	loopMode := LoopOff
	autoplay := false

	if store != nil {
		if v, err := store.GetVolume(guildID); err == nil {
			volume = v
		}
		if m, err := store.GetLoopMode(guildID); err == nil && m != "" {
			loopMode = LoopMode(m)
		}
		if a, err := store.GetAutoplay(guildID); err == nil {
			autoplay = a
		}
	}

	return &Player{
		dg:          dg,
		guildID:     guildID,
		store:       store,
		resolver:    res,
		cacheLookup: cacheLookup,
		loopMode:    loopMode,
		autoplay:    autoplay,
		controls:    stream.NewControls(volume),
		queue:       make([]parsers.Track, 0),
		history:     make([]parsers.Track, 0),
		Events:      make(chan Event, 16), // buffered to reduce drops
	}
}

// Enqueue resolves input and appends the resulting tracks. Returns how
// many tracks were added.
func (p *Player) Enqueue(input, source, parser, requester string) (int, error) {
	tracksInfo, err := p.resolver.Resolve(input, source, parser)
	if err != nil {
		p.emit(Event{Status: StatusError})
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, info := range tracksInfo {
		p.queue = append(p.queue, parsers.Track{
			URL:        info.URL,
			Title:      info.Title,
			Artist:     info.Artist,
			Duration:   info.Duration,
			Requester:  requester,
			SourceInfo: info,
		})
	}

	if p.current != nil {
		p.emit(Event{Status: StatusAdded})
	}
	return len(tracksInfo), nil
}

// enqueueFront puts a track at the head of the queue.
func (p *Player) enqueueFront(track parsers.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append([]parsers.Track{track}, p.queue...)
}

// PlayNext pops the queue head and starts playing it in the given voice
// channel, skipping tracks that fail to open.
func (p *Player) PlayNext(channelID string) error {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return ErrNoTracksInQueue
		}

		track := p.queue[0]
		p.queue = p.queue[1:]
		if channelID != "" {
			p.channelID = channelID
		}
		p.mu.Unlock()

		// Spotify playlist entries get their YouTube URL here, not at
		// enqueue time, so huge playlists enqueue instantly.
		if track.SourceInfo.NeedsConversion {
			if err := p.resolver.Convert(&track.SourceInfo); err != nil {
				log.Printf("[WARN] Skipping unconvertible track %q: %v", track.Title, err)
				continue
			}
			track.URL = track.SourceInfo.URL
		}

		if p.cacheLookup != nil {
			if path, ok := p.cacheLookup(track.URL); ok {
				track.LocalPath = path
			}
		}

		if p.IsPlaying() {
			_ = p.Stop(false)
		}

		if err := p.startTrack(&track, 0); err != nil {
			log.Printf("[WARN] Skipping track %q due to error: %v", track.Title, err)
			continue
		}

		p.mu.Lock()
		p.current = &track
		p.playing = true
		p.paused = false
		p.history = append(p.history, track)
		if len(p.history) > historyLimit {
			p.history = p.history[len(p.history)-historyLimit:]
		}
		p.mu.Unlock()

		p.recordHistory(track)
		return nil
	}
}

// Skip ends the current track and moves on, honoring loop mode.
func (p *Player) Skip() error {
	p.mu.Lock()
	hasNext := len(p.queue) > 0
	channelID := p.channelID
	loopMode := p.loopMode
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return ErrNoTrackPlaying
	}

	if loopMode == LoopQueue {
		p.mu.Lock()
		p.queue = append(p.queue, *current)
		hasNext = true
		p.mu.Unlock()
	}

	if err := p.Stop(false); err != nil && !errors.Is(err, ErrNoTrackPlaying) {
		return err
	}

	if !hasNext {
		p.emit(Event{Status: StatusQueueEnd})
		return nil
	}
	return p.PlayNext(channelID)
}

// Previous replays the most recent finished track.
func (p *Player) Previous() error {
	p.mu.Lock()
	// history includes the current track at the tail
	idx := len(p.history) - 2
	if p.current == nil {
		idx = len(p.history) - 1
	}
	if idx < 0 {
		p.mu.Unlock()
		return ErrNoHistory
	}
	prev := p.history[idx]
	p.history = p.history[:idx]
	if p.current != nil {
		p.queue = append([]parsers.Track{prev, *p.current}, p.queue...)
	} else {
		p.queue = append([]parsers.Track{prev}, p.queue...)
	}
	channelID := p.channelID
	p.mu.Unlock()

	if p.IsPlaying() {
		if err := p.Stop(false); err != nil {
			return err
		}
	}
	return p.PlayNext(channelID)
}

// Stop halts playback. With exitVC it also clears the queue and leaves
// the voice channel. Safe to call repeatedly.
func (p *Player) Stop(exitVC bool) error {
	p.mu.Lock()
	if !p.playing {
		if !exitVC {
			p.mu.Unlock()
			return ErrNoTrackPlaying
		}
		p.clearAndDisconnectLocked()
		p.mu.Unlock()
		p.emit(Event{Status: StatusStopped})
		return nil
	}
	p.userStopped = true
	p.paused = false
	p.controls.SetPaused(false)
	sess := p.session
	p.mu.Unlock()

	if sess != nil {
		sess.requestStop()
		<-sess.done
	}

	p.mu.Lock()
	p.playing = false
	p.current = nil
	p.userStopped = false

	if exitVC {
		p.clearAndDisconnectLocked()
	}

	if p.session == sess {
		p.session = nil
	}
	p.mu.Unlock()

	p.emit(Event{Status: StatusStopped})
	return nil
}

func (p *Player) clearAndDisconnectLocked() {
	p.queue = nil
	p.channelID = ""
	if p.vc != nil {
		p.vc.Disconnect()
		p.vc = nil
	}
}

// Pause suspends the stream without tearing it down.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.paused {
		return ErrNoTrackPlaying
	}
	p.paused = true
	p.controls.SetPaused(true)
	p.emit(Event{Status: StatusPaused, Track: p.current})
	return nil
}

// Resume continues a paused stream.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return ErrNoTrackPlaying
	}
	if !p.paused {
		return ErrNotPaused
	}
	p.paused = false
	p.controls.SetPaused(false)
	p.emit(Event{Status: StatusResumed, Track: p.current})
	return nil
}

// TogglePause flips between paused and playing, returning the new state.
func (p *Player) TogglePause() (paused bool, err error) {
	if p.IsPaused() {
		return false, p.Resume()
	}
	return true, p.Pause()
}

// Seek restarts the current track's stream at the given offset.
func (p *Player) Seek(offset time.Duration) error {
	p.mu.Lock()
	current := p.current
	p.mu.Unlock()

	if current == nil {
		return ErrNoTrackPlaying
	}
	if offset < 0 {
		offset = 0
	}
	if current.Duration > 0 && offset >= current.Duration {
		return fmt.Errorf("seek offset %v is past the track's end (%v)", offset, current.Duration)
	}

	track := *current

	if err := p.Stop(false); err != nil && !errors.Is(err, ErrNoTrackPlaying) {
		return err
	}

	if err := p.startTrack(&track, offset.Seconds()); err != nil {
		return err
	}

	p.mu.Lock()
	p.current = &track
	p.playing = true
	p.paused = false
	p.mu.Unlock()
	return nil
}

// Shuffle randomizes the queue order, returning the queue length.
func (p *Player) Shuffle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	rand.Shuffle(len(p.queue), func(i, j int) {
		p.queue[i], p.queue[j] = p.queue[j], p.queue[i]
	})
	return len(p.queue)
}

// ClearQueue drops all queued tracks, returning how many were dropped.
func (p *Player) ClearQueue() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	p.queue = nil
	return n
}

// SetVolume clamps and applies the volume, persisting it per guild.
func (p *Player) SetVolume(volume int) int {
	volume = stream.ClampVolume(volume)
	p.controls.SetVolume(volume)
	if p.store != nil {
		if err := p.store.SetVolume(p.guildID, volume); err != nil {
			log.Printf("[WARN] Failed to persist volume for guild %s: %v", p.guildID, err)
		}
	}
	return volume
}

func (p *Player) Volume() int {
	return p.controls.Volume()
}

// AdjustVolume shifts the volume by delta, returning the new value.
func (p *Player) AdjustVolume(delta int) int {
	return p.SetVolume(p.controls.Volume() + delta)
}

func (p *Player) SetLoopMode(mode LoopMode) {
	p.mu.Lock()
	p.loopMode = mode
	p.mu.Unlock()
	if p.store != nil {
		if err := p.store.SetLoopMode(p.guildID, string(mode)); err != nil {
			log.Printf("[WARN] Failed to persist loop mode for guild %s: %v", p.guildID, err)
		}
	}
}

func (p *Player) LoopMode() LoopMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loopMode
}

func (p *Player) SetAutoplay(enabled bool) {
	p.mu.Lock()
	p.autoplay = enabled
	p.mu.Unlock()
	if p.store != nil {
		if err := p.store.SetAutoplay(p.guildID, enabled); err != nil {
			log.Printf("[WARN] Failed to persist autoplay for guild %s: %v", p.guildID, err)
		}
	}
}

func (p *Player) Autoplay() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoplay
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Elapsed() time.Duration {
	return p.controls.Elapsed()
}

func (p *Player) CurrentTrack() (*parsers.Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return nil, ErrNoTrackPlaying
	}
	track := *p.current
	return &track, nil
}

func (p *Player) Queue() []parsers.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.queue)
}

func (p *Player) History() []parsers.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.history)
}

// UpcomingURLs lists the queue's playable URLs for the pre-cache worker.
func (p *Player) UpcomingURLs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	urls := make([]string, 0, len(p.queue))
	for _, t := range p.queue {
		if !t.SourceInfo.NeedsConversion && t.URL != "" {
			urls = append(urls, t.URL)
		}
	}
	return urls
}

// startTrack opens the stream and launches the playback goroutine.
func (p *Player) startTrack(track *parsers.Track, seekSec float64) error {
	currStream, cleanup, err := stream.AutoOpenStream(track, seekSec)
	if err != nil {
		p.emit(Event{Status: StatusError, Track: track})
		return fmt.Errorf("failed to create PCM stream for track: %w", err)
	}

	sess := newPlaybackSession()
	p.mu.Lock()
	p.session = sess
	p.mu.Unlock()

	p.controls.SetElapsed(time.Duration(seekSec * float64(time.Second)))
	p.controls.SetPaused(false)

	if seekSec == 0 {
		p.emit(Event{Status: StatusPlaying, Track: track})
	} else {
		p.emit(Event{Status: StatusResumed, Track: track})
	}

	go p.runPlayback(currStream, cleanup, sess.stop, sess.done)
	return nil
}

// runPlayback streams to the voice connection and advances the queue on
// natural track end.
func (p *Player) runPlayback(currStream *stream.TrackStream, cleanup func(), stopCh <-chan struct{}, doneCh chan struct{}) {
	defer cleanup()

	track := currStream.GetTrack()

	var streamErr error
	vc, err := p.getOrCreateVoiceConnection()
	if err != nil {
		log.Printf("[ERR] Failed to get/create voice connection: %v", err)
		streamErr = err
	} else {
		p.mu.Lock()
		p.vc = vc
		p.mu.Unlock()
		p.watchOnce.Do(func() { go p.watchListeners() })

		streamErr = stream.StreamToDiscord(currStream, stopCh, p.controls, vc)
	}

	finished := errors.Is(streamErr, stream.ErrStreamEnded)

	p.mu.Lock()
	userStopped := p.userStopped
	p.playing = false
	if !userStopped {
		p.current = nil
	}
	p.mu.Unlock()

	close(doneCh)

	if userStopped {
		return
	}

	if streamErr != nil && !finished {
		log.Printf("[ERR] Playback error for track %q: %v", track.Title, streamErr)
		p.emit(Event{Status: StatusError, Track: track})
	}

	go p.advance(track)
}

// advance applies loop mode and autoplay after a track finishes on its own.
func (p *Player) advance(finished *parsers.Track) {
	p.mu.Lock()
	loopMode := p.loopMode
	autoplay := p.autoplay
	queueEmpty := len(p.queue) == 0
	channelID := p.channelID
	p.mu.Unlock()

	if channelID == "" {
		return
	}

	switch loopMode {
	case LoopTrack:
		p.enqueueFront(*finished)
	case LoopQueue:
		p.mu.Lock()
		p.queue = append(p.queue, *finished)
		p.mu.Unlock()
	default:
		if queueEmpty && autoplay {
			p.autoplayNext(finished)
		}
	}

	err := p.PlayNext(channelID)
	if errors.Is(err, ErrNoTracksInQueue) {
		p.emit(Event{Status: StatusQueueEnd})
	}
}

// autoplayNext queues a related track based on what just played.
func (p *Player) autoplayNext(finished *parsers.Track) {
	query := finished.Title
	if finished.Artist != "" {
		query += " " + finished.Artist
	}
	if query == "" {
		query = finished.URL
	}

	exclude := []string{finished.URL}
	p.mu.Lock()
	for _, h := range p.history {
		exclude = append(exclude, h.URL)
	}
	p.mu.Unlock()

	url, err := p.resolver.SearchRelated(query, exclude)
	if err != nil {
		log.Printf("[WARN] Autoplay found nothing for %q: %v", query, err)
		return
	}

	p.mu.Lock()
	p.queue = append(p.queue, parsers.Track{
		URL:       url,
		Requester: "autoplay",
		SourceInfo: sources.TrackInfo{
			URL:              url,
			SourceName:       sources.SourceYouTube,
			AvailableParsers: []string{"kkdai-link", "kkdai-pipe", "ytdlp-link", "ytdlp-pipe"},
		},
	})
	p.mu.Unlock()
}

// getOrCreateVoiceConnection joins or reuses an existing voice connection.
func (p *Player) getOrCreateVoiceConnection() (*discordgo.VoiceConnection, error) {
	p.mu.Lock()
	channelID := p.channelID
	vc := p.vc
	p.mu.Unlock()

	if channelID == "" {
		return nil, errors.New("voice channel ID is not set")
	}

	if vc != nil && vc.ChannelID == channelID {
		return vc, nil // reuse
	}

	vc, err := p.dg.ChannelVoiceJoin(p.guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	return vc, nil
}

// watchListeners disconnects after the bot has been alone in the voice
// channel for aloneTimeout.
func (p *Player) watchListeners() {
	var aloneSince time.Time

	ticker := time.NewTicker(aloneCheckEvery)
	defer ticker.Stop()

	for range ticker.C {
		p.mu.Lock()
		vc := p.vc
		p.mu.Unlock()

		if vc == nil {
			aloneSince = time.Time{}
			continue
		}

		if p.countListeners(vc.ChannelID) > 0 {
			aloneSince = time.Time{}
			continue
		}

		if aloneSince.IsZero() {
			aloneSince = time.Now()
			continue
		}

		if time.Since(aloneSince) >= aloneTimeout {
			log.Printf("[INFO] No listeners in guild %s for %v, leaving voice", p.guildID, aloneTimeout)
			_ = p.Stop(true)
			aloneSince = time.Time{}
		}
	}
}

// countListeners counts non-bot users in the given voice channel.
func (p *Player) countListeners(channelID string) int {
	guild, err := p.dg.State.Guild(p.guildID)
	if err != nil {
		return 1 // assume someone is there rather than cutting playback
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		member, err := p.dg.State.Member(p.guildID, vs.UserID)
		if err == nil && member.User != nil && member.User.Bot {
			continue
		}
		if vs.UserID == p.dg.State.User.ID {
			continue
		}
		count++
	}
	return count
}

func (p *Player) recordHistory(track parsers.Track) {
	if p.store == nil {
		return
	}
	err := p.store.AppendTrackToHistory(p.guildID, storage.TrackHistoryRecord{
		Title:     track.Title,
		URL:       track.URL,
		Source:    track.SourceInfo.SourceName,
		Requester: track.Requester,
		PlayedAt:  time.Now(),
	})
	if err != nil {
		log.Printf("[WARN] Failed to record track history for guild %s: %v", p.guildID, err)
	}
}

// emit sends a player event, dropping it if nobody is keeping up.
func (p *Player) emit(evt Event) {
	select {
	case p.Events <- evt:
	default:
		log.Printf("[WARN] Player event dropped (channel full) - %s", evt.Status)
	}
}
