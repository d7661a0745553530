package effects

import "math"

// ----- Flanger ----- //

const (
	flangerMinRate     = 0.1
	flangerMaxRate     = 5.0
	flangerMaxFeedback = 0.95
	flangerMinDelayMS  = 1.0
	flangerMaxDelayMS  = 10.0
)

// Flanger sweeps a short modulated delay with feedback, the classic
// jet sound. It differs from the chorus in its much shorter delay and
// the feedback path into the buffer.
type Flanger struct {
	sampleRate     int
	enabled        bool
	rate           float64
	depth          float64
	feedback       float64
	wetDry         float64
	buffer         []float64
	writePos       int
	lfoPhase       float64
	feedbackSample float64
}

func NewFlanger(sampleRate int) *Flanger {
	size := int(flangerMaxDelayMS/1000*float64(sampleRate)) + 10
	return &Flanger{
		sampleRate: sampleRate,
		rate:       0.3,
		depth:      0.7,
		feedback:   0.5,
		wetDry:     0.5,
		buffer:     make([]float64, size),
	}
}

func (f *Flanger) Enabled() bool     { return f.enabled }
func (f *Flanger) Rate() float64     { return f.rate }
func (f *Flanger) Depth() float64    { return f.depth }
func (f *Flanger) Feedback() float64 { return f.feedback }
func (f *Flanger) WetDry() float64   { return f.wetDry }

// SetEnabled enables the sweep. State is cleared on the way in so a
// re-enabled flanger never replays stale buffer content.
func (f *Flanger) SetEnabled(enabled bool) {
	if enabled && !f.enabled {
		f.Reset()
	}
	f.enabled = enabled
}

func (f *Flanger) SetRate(hz float64) {
	f.rate = clamp(hz, flangerMinRate, flangerMaxRate)
}

func (f *Flanger) SetDepth(value float64) {
	f.depth = clamp(value, 0, 1)
}

func (f *Flanger) SetFeedback(value float64) {
	f.feedback = clamp(value, 0, flangerMaxFeedback)
}

func (f *Flanger) SetWetDry(value float64) {
	f.wetDry = clamp(value, 0, 1)
}

func (f *Flanger) interpolate(delay float64) float64 {
	size := len(f.buffer)
	delay = clamp(delay, 0, float64(size-2))
	readPos := float64(f.writePos) - delay
	if readPos < 0 {
		readPos += float64(size)
	}
	idx0 := int(readPos) % size
	idx1 := (idx0 + 1) % size
	frac := readPos - math.Trunc(readPos)
	return f.buffer[idx0]*(1-frac) + f.buffer[idx1]*frac
}

// Process applies the flanger to buf in place.
func (f *Flanger) Process(buf []float64) {
	if !f.enabled {
		return
	}
	minDelay := flangerMinDelayMS / 1000 * float64(f.sampleRate)
	maxDelay := flangerMaxDelayMS / 1000 * float64(f.sampleRate) * f.depth
	lfoInc := 2 * math.Pi * f.rate / float64(f.sampleRate)
	size := len(f.buffer)

	for i, x := range buf {
		lfo := math.Sin(f.lfoPhase)
		delay := minDelay + maxDelay*(lfo+1)*0.5

		delayed := f.interpolate(delay)

		f.buffer[f.writePos] = x + f.feedbackSample*f.feedback
		f.writePos = (f.writePos + 1) % size
		f.feedbackSample = delayed

		buf[i] = x*(1-f.wetDry) + delayed*f.wetDry

		f.lfoPhase += lfoInc
		if f.lfoPhase >= 2*math.Pi {
			f.lfoPhase -= 2 * math.Pi
		}
	}
}

func (f *Flanger) Reset() {
	for i := range f.buffer {
		f.buffer[i] = 0
	}
	f.writePos = 0
	f.lfoPhase = 0
	f.feedbackSample = 0
}
