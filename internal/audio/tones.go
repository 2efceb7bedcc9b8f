package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType is the shape of an oscillator.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length wave whose frequency can glide
// linearly from freq to endFreq.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates an oscillator of the given wave and length.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + (o.endFreq-o.freq)*float64(o.position)/float64(o.duration)
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack and out over release.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s, which is cut off after duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if remaining := e.totalSamples - e.position; remaining < len(samples) {
		if remaining <= 0 {
			return 0, false
		}
		samples = samples[:remaining]
	}
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf so zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Effect generates the built-in tone for a sound.
func Effect(s Sound, rate beep.SampleRate) beep.Streamer {
	switch s {
	case Shot:
		d := 90 * time.Millisecond
		osc := NewSweep(1400, 500, d, WaveSquare, rate)
		return newVolume(NewEnvelope(osc, d, 2*time.Millisecond, 60*time.Millisecond, rate), 0.2)

	case AlienExplosion:
		d := 220 * time.Millisecond
		noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, time.Millisecond, 180*time.Millisecond, rate)
		thud := NewEnvelope(NewSweep(180, 60, d, WaveSine, rate), d, time.Millisecond, 150*time.Millisecond, rate)
		return newVolume(beep.Mix(noise, thud), 0.25)

	case ShipExplosion:
		d := 700 * time.Millisecond
		noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 600*time.Millisecond, rate)
		rumble := NewEnvelope(NewSweep(120, 30, d, WaveSaw, rate), d, 5*time.Millisecond, 500*time.Millisecond, rate)
		return newVolume(beep.Mix(noise, rumble), 0.35)
	}
	return beep.Silence(0)
}

// musicNotes is a short minor bass figure, in Hz. Zero is a rest.
var musicNotes = []float64{
	110.00, 0, 110.00, 130.81,
	98.00, 0, 98.00, 116.54,
	87.31, 0, 87.31, 103.83,
	98.00, 110.00, 98.00, 0,
}

const musicNoteLength = 250 * time.Millisecond

// Music generates one bar of the background track. Looping it is up to the caller.
func Music(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, 0, len(musicNotes))
	for _, freq := range musicNotes {
		if freq == 0 {
			notes = append(notes, beep.Silence(rate.N(musicNoteLength)))
			continue
		}
		osc := NewOscillator(freq, musicNoteLength, WaveSquare, rate)
		notes = append(notes, NewEnvelope(osc, musicNoteLength, 5*time.Millisecond, 120*time.Millisecond, rate))
	}
	return newVolume(beep.Seq(notes...), 0.08)
}
