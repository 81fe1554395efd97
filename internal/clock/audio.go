package clock

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
)

type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

// AudioClock follows the music position. Before the music starts it
// counts the delay down on the wall clock, so time starts negative.
type AudioClock struct {
	streamer beep.StreamSeeker
	format   beep.Format
	lock     sync.Locker

	mu         sync.Mutex
	started    time.Time
	delay      time.Duration
	playing    bool
	generation int
	last       float64
}

func newAudioClock(s beep.StreamSeeker, format beep.Format, lock sync.Locker) *AudioClock {
	return &AudioClock{streamer: s, format: format, lock: lock, last: math.Inf(-1)}
}

// OpenAudio decodes an mp3, ogg or wav file and prepares the speaker.
func OpenAudio(file string) (*AudioClock, beep.StreamSeekCloser, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, nil, errors.Wrap(err, "unable to open audio")
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(file)) {
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		streamer, format, err = mp3.Decode(f)
	}
	if nil != err {
		f.Close()
		return nil, nil, errors.Wrapf(err, "unable to decode %v", file)
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, nil, errors.Wrap(err, "unable to open speaker")
	}
	logger.Info("audio opened",
		logger.String("file", file),
		logger.Int("sample_rate", int(format.SampleRate)),
		logger.Duration("length", format.SampleRate.D(streamer.Len())),
	)
	return newAudioClock(streamer, format, speakerLocker{}), streamer, nil
}

// Play starts the music after delay.
func (c *AudioClock) Play(delay time.Duration) {
	c.mu.Lock()
	c.started = time.Now()
	c.delay = delay
	c.generation++
	generation := c.generation
	c.mu.Unlock()
	go func() {
		time.Sleep(delay)
		c.mu.Lock()
		defer c.mu.Unlock()
		if generation != c.generation {
			return
		}
		c.playing = true
		speaker.Play(c.streamer)
	}()
}

// Restart rewinds the music and plays it again after delay.
func (c *AudioClock) Restart(delay time.Duration) {
	speaker.Clear()
	c.lock.Lock()
	err := c.streamer.Seek(0)
	c.lock.Unlock()
	if nil != err {
		logger.Warn("unable to rewind audio", logger.ErrorField(err))
	}
	c.mu.Lock()
	c.playing = false
	c.last = math.Inf(-1)
	c.mu.Unlock()
	c.Play(delay)
}

func (c *AudioClock) position() float64 {
	c.lock.Lock()
	p := c.streamer.Position()
	c.lock.Unlock()
	return float64(c.format.SampleRate.D(p)) / float64(time.Millisecond)
}

// Now never goes backwards, even when the audio buffer lags the wall clock.
func (c *AudioClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var now float64
	if c.playing {
		now = c.position()
	} else if !c.started.IsZero() {
		now = float64(time.Since(c.started)-c.delay) / float64(time.Millisecond)
		if now > 0 {
			now = 0
		}
	} else {
		now = -float64(c.delay) / float64(time.Millisecond)
	}
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// Length is the music duration in milliseconds.
func (c *AudioClock) Length() float64 {
	return float64(c.format.SampleRate.D(c.streamer.Len())) / float64(time.Millisecond)
}
