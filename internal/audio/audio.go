// Package audio sonifies the focus body: a soft chord whose pitch follows
// the body's orbital speed, so inner planets sound higher than outer ones.
package audio

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// ReferenceSpeed is Earth's mean orbital speed; a body moving at it
	// plays the base chord unshifted.
	ReferenceSpeed = 29780.0 // m/s
)

// Chord tones at the reference speed: G2, Bb2, D3, F3, A3.
var baseFreqs = []float64{98.00, 116.54, 146.83, 174.61, 220.00}

// Synth renders the chord. It holds no device and is driven by Fill.
type Synth struct {
	mu     sync.Mutex
	speed  float64
	smooth float64 // pitch ratio, eased toward speed/ReferenceSpeed

	time        float64
	filterState [2]float64
	delayLine   [2][]float64
	delayHead   int

	buf   []complex128
	level float64
}

func NewSynth() *Synth {
	// 0.6 second delay for a larger space
	delayLen := int(float64(SampleRate) * 0.6)
	return &Synth{
		smooth:    1,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
		buf:       make([]complex128, BufferSize),
	}
}

// SetSpeed sets the focus body's speed in m/s. Safe to call from the render
// loop while the audio callback runs.
func (s *Synth) SetSpeed(v float64) {
	s.mu.Lock()
	s.speed = v
	s.mu.Unlock()
}

// Ratio is the current pitch multiplier.
func (s *Synth) Ratio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.smooth
}

// Level is the smoothed spectral level of the last rendered buffer, in [0, 1].
func (s *Synth) Level() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// PitchRatio maps a speed to a pitch multiplier, clamped to two octaves
// either way.
func PitchRatio(speed float64) float64 {
	if !(speed > 0) {
		return 0.25
	}
	return math.Max(0.25, math.Min(speed/ReferenceSpeed, 4))
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Fill renders one stereo buffer into out.
func (s *Synth) Fill(out [][]float32) {
	s.mu.Lock()
	target := PitchRatio(s.speed)
	s.mu.Unlock()

	// Ease once per buffer so focus changes glide instead of jumping.
	ratio := s.smooth*0.9 + target*0.1
	cutoff := 300.0 + 900.0*math.Min((ratio-0.25)/3.75, 1)
	dt := 1.0 / float64(SampleRate)
	const vol = 0.25

	for i := range out[0] {
		sampleL, sampleR := 0.0, 0.0
		g := 1.0 / float64(len(baseFreqs))
		for j, f := range baseFreqs {
			f *= ratio
			lfo := math.Sin(s.time*0.2 + float64(j))
			sampleL += triangle(s.time*f*0.999) * g * (0.7 + 0.3*lfo)
			sampleR += triangle(s.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		s.filterState[0] = lpf(sampleL, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(sampleR, cutoff, dt, s.filterState[1])
		outL, outR := s.filterState[0], s.filterState[1]

		delayL := s.delayLine[0][s.delayHead]
		delayR := s.delayLine[1][s.delayHead]
		mixL := outL + delayL*0.3 + delayR*0.1
		mixR := outR + delayR*0.3 + delayL*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.7
		s.delayLine[1][s.delayHead] = mixR * 0.7
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(mixL * vol)
		out[1][i] = float32(mixR * vol)
		s.time += dt
	}

	level := analyze(out[0], s.buf)

	s.mu.Lock()
	s.smooth = ratio
	s.level = s.level*0.8 + level*0.2
	s.mu.Unlock()
}

// analyze returns the windowed spectral magnitude of samples, normalized to
// roughly [0, 1].
func analyze(samples []float32, buf []complex128) float64 {
	n := min(len(samples), len(buf))
	if n < 2 {
		return 0
	}
	for i := 0; i < n; i++ {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = complex(float64(samples[i])*window, 0)
	}
	spectrum := fft.FFT(buf[:n])

	sum := 0.0
	for i := 1; i < n/2; i++ {
		sum += cmplx.Abs(spectrum[i])
	}
	return math.Min(sum/float64(n), 1)
}

// Processor plays a Synth on the default output device.
type Processor struct {
	*Synth
	stream *portaudio.Stream
	Active bool
}

func NewProcessor() *Processor {
	return &Processor{Synth: NewSynth()}
}

func (p *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	p.stream = stream
	p.Active = true
	return nil
}

func (p *Processor) process(out [][]float32) {
	p.Fill(out)
}

func (p *Processor) Stop() {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	if p.Active {
		portaudio.Terminate()
	}
	p.Active = false
}
