package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const frameDuration = 20 * time.Millisecond

// ErrStreamEnded marks a normal end of input.
var ErrStreamEnded = errors.New("stream ended")

// StreamToDiscord encodes 48kHz stereo s16le PCM into Opus frames and
// feeds the voice connection, honoring pause and volume from ctrl.
// Returns nil when stopped, ErrStreamEnded on end of input.
func StreamToDiscord(stream io.ReadCloser, stop <-chan struct{}, ctrl *Controls, vc *discordgo.VoiceConnection) error {
	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		return fmt.Errorf("encoder error: %w", err)
	}

	defer stream.Close()

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			return nil
		default:
		}

		if ctrl != nil && ctrl.Paused() {
			select {
			case <-stop:
				return nil
			case <-time.After(50 * time.Millisecond):
			}
			continue
		}

		_, err := io.ReadFull(stream, pcmBuf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return ErrStreamEnded
			}
			return fmt.Errorf("read error: %w", err)
		}

		volume := 100
		if ctrl != nil {
			volume = ctrl.Volume()
		}

		for i := range intBuf {
			sample := int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
			intBuf[i] = scaleSample(sample, volume)
		}

		opus, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			return fmt.Errorf("encode error: %w", err)
		}

		select {
		case <-stop:
			return nil
		case vc.OpusSend <- opus:
			if ctrl != nil {
				ctrl.addFrame(frameDuration)
			}
		}
	}
}

// scaleSample applies a percentage volume with clipping.
func scaleSample(sample int16, volume int) int16 {
	if volume == 100 {
		return sample
	}
	scaled := int32(sample) * int32(volume) / 100
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}
