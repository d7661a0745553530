package synth

import "math"

// ----- Oscillator ----- //

// Oscillator generates a periodic waveform by phase accumulation: the
// phase advances by effectiveFrequency/sampleRate per sample and wraps
// into [0,1). Phase stays continuous across Generate calls and across
// parameter changes; only ResetPhase resets it.
type Oscillator struct {
	sampleRate float64
	kind       Waveform
	freq       float64 // 20 ~ 20000 Hz
	level      float64 // 0 ~ 1
	pulseWidth float64 // 0.05 ~ 0.95
	pitchMod   float64 // semitones
	pwMod      float64 // -0.45 ~ 0.45
	phase01    float64
}

func NewOscillator(sampleRate int) *Oscillator {
	return &Oscillator{
		sampleRate: float64(sampleRate),
		kind:       Sine,
		freq:       440,
		level:      1,
		pulseWidth: 0.5,
	}
}

func (o *Oscillator) Waveform() Waveform       { return o.kind }
func (o *Oscillator) SetWaveform(w Waveform)   { o.kind = w }
func (o *Oscillator) Frequency() float64       { return o.freq }
func (o *Oscillator) Level() float64           { return o.level }
func (o *Oscillator) PulseWidth() float64      { return o.pulseWidth }
func (o *Oscillator) PitchMod() float64        { return o.pitchMod }
func (o *Oscillator) SetPitchMod(semi float64) { o.pitchMod = semi }

func (o *Oscillator) SetFrequency(freq float64) {
	o.freq = clamp(freq, 20, 20000)
}

// SetNote sets the frequency from a MIDI note number.
func (o *Oscillator) SetNote(note int) {
	o.SetFrequency(MIDIToFrequency(note))
}

func (o *Oscillator) SetLevel(level float64) {
	o.level = clamp(level, 0, 1)
}

func (o *Oscillator) SetPulseWidth(pw float64) {
	o.pulseWidth = clamp(pw, 0.05, 0.95)
}

func (o *Oscillator) SetPWMod(mod float64) {
	o.pwMod = clamp(mod, -0.45, 0.45)
}

// EffectiveFrequency is the base frequency shifted by pitchMod semitones.
func (o *Oscillator) EffectiveFrequency() float64 {
	return o.freq * math.Pow(2, o.pitchMod/12)
}

func (o *Oscillator) effectivePulseWidth() float64 {
	return clamp(o.pulseWidth+o.pwMod, 0.05, 0.95)
}

// ResetPhase sets the phase to 0 for a consistent attack.
func (o *Oscillator) ResetPhase() {
	o.phase01 = 0
}

// GenerateSample produces one sample and advances the phase.
func (o *Oscillator) GenerateSample() float64 {
	value := waveValue(o.kind, o.phase01, o.effectivePulseWidth())
	o.phase01 += o.EffectiveFrequency() / o.sampleRate
	_, o.phase01 = math.Modf(o.phase01)
	return value * o.level
}

// Generate fills out. Both Generate and GenerateSample run the same
// phase-accumulation path, so they are interchangeable sample-for-sample.
func (o *Oscillator) Generate(out []float64) {
	for i := range out {
		out[i] = o.GenerateSample()
	}
}
