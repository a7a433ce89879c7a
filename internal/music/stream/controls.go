package stream

import (
	"sync/atomic"
	"time"
)

const (
	MinVolume = 10
	MaxVolume = 200
)

// Controls carries the live playback knobs shared between the streaming
// loop and the rest of the bot: pause flag, volume percent and elapsed
// playback time. Safe for concurrent use.
type Controls struct {
	paused  atomic.Bool
	volume  atomic.Int32 // percent, MinVolume..MaxVolume
	elapsed atomic.Int64 // nanoseconds
}

func NewControls(volume int) *Controls {
	c := &Controls{}
	c.SetVolume(volume)
	return c
}

func (c *Controls) SetPaused(paused bool) {
	c.paused.Store(paused)
}

func (c *Controls) Paused() bool {
	return c.paused.Load()
}

func (c *Controls) SetVolume(volume int) {
	c.volume.Store(int32(ClampVolume(volume)))
}

func (c *Controls) Volume() int {
	return int(c.volume.Load())
}

func (c *Controls) Elapsed() time.Duration {
	return time.Duration(c.elapsed.Load())
}

func (c *Controls) SetElapsed(d time.Duration) {
	c.elapsed.Store(int64(d))
}

func (c *Controls) addFrame(d time.Duration) {
	c.elapsed.Add(int64(d))
}

func ClampVolume(volume int) int {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}
