package synth

import "math"

// ----- LFO ----- //

// LFO is the sub-audio counterpart of Oscillator. Output is scaled by
// depth instead of level, and Pulse runs a fixed 25% duty cycle.
type LFO struct {
	sampleRate float64
	kind       Waveform
	freq       float64 // 0.1 ~ 50 Hz
	depth      float64 // 0 ~ 1
	phase01    float64
}

func NewLFO(sampleRate int) *LFO {
	return &LFO{
		sampleRate: float64(sampleRate),
		kind:       Sine,
		freq:       1,
		depth:      1,
	}
}

func (l *LFO) Waveform() Waveform     { return l.kind }
func (l *LFO) SetWaveform(w Waveform) { l.kind = w }
func (l *LFO) Frequency() float64     { return l.freq }
func (l *LFO) Depth() float64         { return l.depth }

func (l *LFO) SetFrequency(freq float64) {
	l.freq = clamp(freq, 0.1, 50)
}

func (l *LFO) SetDepth(depth float64) {
	l.depth = clamp(depth, 0, 1)
}

func (l *LFO) ResetPhase() {
	l.phase01 = 0
}

// GenerateSample produces one bipolar sample in [-depth, depth].
func (l *LFO) GenerateSample() float64 {
	value := waveValue(l.kind, l.phase01, 0.25)
	l.phase01 += l.freq / l.sampleRate
	_, l.phase01 = math.Modf(l.phase01)
	return value * l.depth
}

// Generate fills out with bipolar samples.
func (l *LFO) Generate(out []float64) {
	for i := range out {
		out[i] = l.GenerateSample()
	}
}

// GenerateUnipolar fills out with samples shifted into [0, depth].
func (l *LFO) GenerateUnipolar(out []float64) {
	for i := range out {
		out[i] = (l.GenerateSample() + l.depth) / 2
	}
}
