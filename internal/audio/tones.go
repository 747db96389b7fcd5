//go:build !test

package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// saw is an endless sawtooth; callers bound it with beep.Take.
type saw struct {
	freq  float64
	phase float64
	rate  beep.SampleRate
}

func (o *saw) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		val := 2 * (o.phase - 0.5)
		samples[i][0] = val
		samples[i][1] = val
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
	}
	return len(samples), true
}

func (o *saw) Err() error { return nil }

// decay fades a stream out exponentially over total samples.
type decay struct {
	s     beep.Streamer
	pos   int
	total int
	rate  float64
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.s.Stream(samples)
	for i := 0; i < n; i++ {
		env := math.Exp(-d.rate * float64(d.pos) / float64(d.total))
		samples[i][0] *= env
		samples[i][1] *= env
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

func volume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// shape bounds an endless wave to dur and fades it out.
func shape(sr beep.SampleRate, wave beep.Streamer, dur time.Duration, fade float64) beep.Streamer {
	n := sr.N(dur)
	return &decay{s: beep.Take(n, wave), total: n, rate: fade}
}

func sine(sr beep.SampleRate, freq float64, dur time.Duration, fade float64) beep.Streamer {
	tone, err := generators.SineTone(sr, freq)
	if err != nil {
		// only for freq outside (0, sr/2)
		return beep.Silence(sr.N(dur))
	}
	return shape(sr, tone, dur, fade)
}

// Chime is the unlock sound: a rising two-note bell.
type Chime struct{}

func (Chime) NewVoice(sampleRate int) Voice {
	sr := beep.SampleRate(sampleRate)
	bell := func(freq float64, dur time.Duration) beep.Streamer {
		return beep.Mix(
			volume(sine(sr, freq, dur, 4), 0.7),
			volume(sine(sr, 2*freq, dur, 6), 0.3),
		)
	}
	return newStreamVoice(volume(beep.Seq(
		bell(880, 90*time.Millisecond),
		bell(1320, 180*time.Millisecond),
	), 0.6))
}

// Buzz is the reject sound: two short low saw pulses.
type Buzz struct{}

func (Buzz) NewVoice(sampleRate int) Voice {
	sr := beep.SampleRate(sampleRate)
	return newStreamVoice(volume(beep.Seq(
		shape(sr, &saw{freq: 110, rate: sr}, 110*time.Millisecond, 2),
		beep.Silence(sr.N(40*time.Millisecond)),
		shape(sr, &saw{freq: 110, rate: sr}, 110*time.Millisecond, 2),
	), 0.4))
}

// streamVoice pulls a beep stream in small chunks and plays its left channel.
type streamVoice struct {
	s    beep.Streamer
	buf  [][2]float64
	i, n int
	done bool
}

func newStreamVoice(s beep.Streamer) *streamVoice {
	return &streamVoice{s: s, buf: make([][2]float64, 512)}
}

func (v *streamVoice) Sample() (float64, bool) {
	if v.i >= v.n {
		if v.done {
			return 0, true
		}
		n, ok := v.s.Stream(v.buf)
		v.i, v.n = 0, n
		v.done = !ok
		if n == 0 {
			v.done = true
			return 0, true
		}
	}
	s := v.buf[v.i][0]
	v.i++
	return s, false
}
