//go:build !test

package audio

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate          = 44100
	bufferSizeBytes10ms = sampleRate / 100 * 2 // 10ms of 16-bit mono audio
)

var (
	ctx  *oto.Context
	once sync.Once
	mix  *mixer

	instruments = map[string]Instrument{
		Unlock: Chime{},
		Reject: Buzz{},
	}
)

// Voice generates PCM samples in the range [-1,1].
type Voice interface {
	// Sample returns the next sample and whether the voice has finished.
	Sample() (float64, bool)
}

// Instrument constructs a new Voice instance when triggered.
type Instrument interface {
	NewVoice(sampleRate int) Voice
}

func initContext() {
	c := platformInitContext(sampleRate)
	if c == nil {
		return
	}
	ctx = c
	mix = newMixer(c)
}

// PlayVol starts an instrument by ID at the given volume (0..1). Unknown IDs
// and a missing audio device are silently ignored.
func PlayVol(id string, vol float64) {
	inst, ok := instruments[id]
	if !ok || vol <= 0 {
		return
	}
	once.Do(initContext)
	if ctx == nil {
		return
	}
	_ = ctx.Resume()
	mix.Schedule(withVolume(inst.NewVoice(sampleRate), vol))
}

// Resume opens the audio device ahead of the first sound so feedback is not
// delayed by device start-up.
func Resume() {
	once.Do(initContext)
	if ctx != nil {
		_ = ctx.Resume()
	}
}

func withVolume(v Voice, vol float64) Voice {
	if vol >= 1 {
		return v
	}
	return &scaledVoice{v: v, gain: vol}
}

type scaledVoice struct {
	v    Voice
	gain float64
}

func (s *scaledVoice) Sample() (float64, bool) {
	f, done := s.v.Sample()
	return f * s.gain, done
}

// mixer mixes multiple voices into a single PCM stream.
type mixer struct {
	mu     sync.Mutex
	voices []Voice
	player *oto.Player
}

func newMixer(c *oto.Context) *mixer {
	m := &mixer{}
	p := c.NewPlayer(m)
	p.SetBufferSize(bufferSizeBytes10ms)
	p.Play()
	m.player = p
	return m
}

// Schedule adds a voice starting with the next buffer.
func (m *mixer) Schedule(v Voice) {
	m.mu.Lock()
	m.voices = append(m.voices, v)
	m.mu.Unlock()
}

// Read implements io.Reader for oto.Player.
func (m *mixer) Read(p []byte) (int, error) {
	samples := len(p) / 2
	for i := 0; i < samples; i++ {
		var sum float64
		m.mu.Lock()
		for idx := 0; idx < len(m.voices); idx++ {
			val, done := m.voices[idx].Sample()
			sum += val
			if done {
				m.voices = append(m.voices[:idx], m.voices[idx+1:]...)
				idx--
			}
		}
		m.mu.Unlock()
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		v := int16(sum * 32767)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
	}
	return len(p), nil
}
