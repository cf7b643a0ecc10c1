// Package alertaudio plays the alert clip on indefinite repeat.
package alertaudio

import (
	"fmt"
	"os"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/tosone/minimp3"

	"github.com/e-yang6/stop-dont-go-on/internal/log"
)

const streamBufferSize = 1024

// Player controls looped playback of the alert clip.
type Player interface {
	// StartLoop begins indefinite looped playback. A missing asset or
	// unavailable audio device is logged and is not an error.
	StartLoop() error

	// StopLoop halts playback immediately. Safe to call when playback
	// was never started.
	StopLoop()

	// Playing reports whether the loop is currently audible.
	Playing() bool

	// Close releases the audio subsystem.
	Close() error
}

// Looper decodes a fixed MP3 asset once and plays it through portaudio
// with the read position wrapping at the end of the clip.
type Looper struct {
	path string

	mu          sync.Mutex
	samples     []float32
	sampleRate  int
	stream      *portaudio.Stream
	position    int
	playing     bool
	initialized bool
}

// NewLooper creates a looper for the given MP3 file. The file is not
// touched until StartLoop.
func NewLooper(path string) *Looper {
	return &Looper{path: path}
}

// StartLoop decodes the clip if needed and starts looped playback.
// Already-playing loopers are left alone.
func (l *Looper) StartLoop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.playing {
		return nil
	}

	if l.samples == nil {
		if err := l.decodeLocked(); err != nil {
			log.Warn("alert audio unavailable", "file", l.path, "error", err)
			return nil
		}
	}

	if !l.initialized {
		if err := portaudio.Initialize(); err != nil {
			log.Warn("audio subsystem unavailable", "error", err)
			return nil
		}
		l.initialized = true
	}

	stream, err := portaudio.OpenDefaultStream(
		0, 1, float64(l.sampleRate), streamBufferSize, l.fill)
	if err != nil {
		log.Warn("failed to open audio stream", "error", err)
		return nil
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		log.Warn("failed to start audio stream", "error", err)
		return nil
	}

	l.stream = stream
	l.position = 0
	l.playing = true
	log.Info("alert audio loop started", "file", l.path)
	return nil
}

// fill is the portaudio callback. It copies samples into the output
// buffer, wrapping to the start of the clip at the end.
func (l *Looper) fill(out []float32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.playing || len(l.samples) == 0 {
		for i := range out {
			out[i] = 0
		}
		return
	}

	for i := range out {
		out[i] = l.samples[l.position]
		l.position++
		if l.position >= len(l.samples) {
			l.position = 0
		}
	}
}

// StopLoop halts playback immediately, regardless of loop-thread timing.
func (l *Looper) StopLoop() {
	l.mu.Lock()
	stream := l.stream
	l.stream = nil
	wasPlaying := l.playing
	l.playing = false
	l.mu.Unlock()

	if stream != nil {
		if err := stream.Stop(); err != nil {
			log.Warn("failed to stop audio stream", "error", err)
		}
		stream.Close()
	}

	if wasPlaying {
		log.Info("alert audio loop stopped")
	}
}

// Playing reports whether the loop is active.
func (l *Looper) Playing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playing
}

// Close stops playback and tears down the audio subsystem.
func (l *Looper) Close() error {
	l.StopLoop()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		l.initialized = false
		return portaudio.Terminate()
	}
	return nil
}

// decodeLocked reads and decodes the MP3 asset into mono float32
// samples. Caller holds l.mu.
func (l *Looper) decodeLocked() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("read clip: %w", err)
	}

	decoder, pcm, err := minimp3.DecodeFull(data)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer decoder.Close()

	channels := decoder.Channels
	if channels < 1 {
		channels = 1
	}

	frames := len(pcm) / 2 / channels
	samples := make([]float32, 0, frames)

	for i := 0; i < frames; i++ {
		var mixed float32
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			raw := int16(pcm[off]) | int16(pcm[off+1])<<8
			mixed += float32(raw) / 32768.0
		}
		mixed /= float32(channels)

		if mixed > 1.0 {
			mixed = 1.0
		} else if mixed < -1.0 {
			mixed = -1.0
		}
		samples = append(samples, mixed)
	}

	if len(samples) == 0 {
		return fmt.Errorf("clip decoded to zero samples")
	}

	l.samples = samples
	l.sampleRate = decoder.SampleRate
	log.Info("alert clip loaded", "file", l.path,
		"samples", len(samples), "rate", l.sampleRate)
	return nil
}
