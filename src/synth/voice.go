package synth

import "math"

// ----- Voice Parameters ----- //

// VoiceParameters is a value snapshot of every controllable voice
// parameter. A voice swaps the whole struct at once, so a reader never
// observes a half-updated set.
type VoiceParameters struct {
	Osc1Waveform Waveform
	Osc1Level    float64
	Osc2Waveform Waveform
	Osc2Level    float64
	Osc2Detune   float64 // cents, -100 ~ 100

	FilterCutoff    float64
	FilterResonance float64
	FilterEnvAmount float64 // -1 ~ 1

	AmpAttack  float64 // sec
	AmpDecay   float64
	AmpSustain float64
	AmpRelease float64

	FilterAttack  float64
	FilterDecay   float64
	FilterSustain float64
	FilterRelease float64

	LFORate     float64
	LFODepth    float64
	LFOWaveform Waveform
	LFOToPitch  float64 // 0 ~ 1
	LFOToFilter float64 // 0 ~ 1
	LFOToPW     float64 // 0 ~ 1
}

// DefaultVoiceParameters is the stock two-saw patch.
func DefaultVoiceParameters() VoiceParameters {
	return VoiceParameters{
		Osc1Waveform:    Sawtooth,
		Osc1Level:       0.7,
		Osc2Waveform:    Sawtooth,
		Osc2Level:       0.5,
		Osc2Detune:      5,
		FilterCutoff:    2000,
		FilterResonance: 0.3,
		AmpAttack:       0.01,
		AmpDecay:        0.1,
		AmpSustain:      0.7,
		AmpRelease:      0.3,
		FilterAttack:    0.01,
		FilterDecay:     0.2,
		FilterSustain:   0.3,
		FilterRelease:   0.3,
		LFORate:         5,
		LFODepth:        0.3,
		LFOWaveform:     Sine,
	}
}

// ----- Voice ----- //

const fadeTime = 0.003 // sec, anti-click ramp length

// Voice is one note's audio path: two oscillators mixed, a ladder
// filter modulated by its own envelope and the LFO, and a VCA driven
// by the amp envelope. Voices are pooled and reused; the id persists
// across many notes.
//
// Signal flow: OSC1 + OSC2 -> filter -> VCA -> output.
type Voice struct {
	id         int
	sampleRate float64

	note          int
	velocity      int
	velocityScale float64
	ageSamples    int64

	osc1      *Oscillator
	osc2      *Oscillator
	filter    *LadderFilter
	ampEnv    *Envelope
	filterEnv *Envelope
	lfo       *LFO

	params VoiceParameters

	fadeSamples int
	fadeIn      int // counts up to fadeSamples after note-on
	fadeOut     int // counts down to zero while stealing
	stealing    bool
	pendingNote int
	pendingVel  int
	hasPending  bool

	osc1Buf []float64
	osc2Buf []float64
	envBuf  []float64
	lfoBuf  []float64
}

func NewVoice(sampleRate int, id int) *Voice {
	v := &Voice{
		id:          id,
		sampleRate:  float64(sampleRate),
		note:        -1,
		osc1:        NewOscillator(sampleRate),
		osc2:        NewOscillator(sampleRate),
		filter:      NewLadderFilter(sampleRate),
		ampEnv:      NewEnvelope(sampleRate),
		filterEnv:   NewEnvelope(sampleRate),
		lfo:         NewLFO(sampleRate),
		fadeSamples: int(float64(sampleRate) * fadeTime),
	}
	if v.fadeSamples < 1 {
		v.fadeSamples = 1
	}
	v.fadeIn = v.fadeSamples
	v.SetParameters(DefaultVoiceParameters())
	return v
}

func (v *Voice) ID() int                     { return v.id }
func (v *Voice) Note() int                   { return v.note }
func (v *Voice) Velocity() int               { return v.velocity }
func (v *Voice) Parameters() VoiceParameters { return v.params }

// EnvelopeLevel is the current amp envelope value, used by the pool to
// pick a quiet steal victim.
func (v *Voice) EnvelopeLevel() float64 {
	return v.ampEnv.Value()
}

// SetParameters swaps the snapshot and pushes it into the owned
// components. Note-dependent values (oscillator frequencies) are
// recomputed on the next note-on.
func (v *Voice) SetParameters(p VoiceParameters) {
	v.params = p
	v.osc1.SetWaveform(p.Osc1Waveform)
	v.osc1.SetLevel(p.Osc1Level)
	v.osc2.SetWaveform(p.Osc2Waveform)
	v.osc2.SetLevel(p.Osc2Level)
	v.filter.SetCutoff(p.FilterCutoff)
	v.filter.SetResonance(p.FilterResonance)
	v.ampEnv.SetAttack(p.AmpAttack)
	v.ampEnv.SetDecay(p.AmpDecay)
	v.ampEnv.SetSustain(p.AmpSustain)
	v.ampEnv.SetRelease(p.AmpRelease)
	v.filterEnv.SetAttack(p.FilterAttack)
	v.filterEnv.SetDecay(p.FilterDecay)
	v.filterEnv.SetSustain(p.FilterSustain)
	v.filterEnv.SetRelease(p.FilterRelease)
	v.lfo.SetWaveform(p.LFOWaveform)
	v.lfo.SetFrequency(p.LFORate)
	v.lfo.SetDepth(p.LFODepth)
}

// NoteOn starts a note. When called mid-steal the note is held back
// and started by Generate once the fade-out completes, so the old note
// still gets its anti-click ramp.
func (v *Voice) NoteOn(note int, velocity int) {
	if v.stealing {
		v.pendingNote = note
		v.pendingVel = velocity
		v.hasPending = true
		return
	}
	v.startNote(note, velocity)
}

func (v *Voice) startNote(note int, velocity int) {
	v.note = note
	v.velocity = velocity
	v.velocityScale = float64(velocity) / 127

	freq := MIDIToFrequency(note)
	v.osc1.SetFrequency(freq)
	v.osc2.SetFrequency(freq * math.Pow(2, v.params.Osc2Detune/1200))
	v.osc1.ResetPhase()
	v.osc2.ResetPhase()
	v.filter.Reset()
	v.ampEnv.GateOn()
	v.filterEnv.GateOn()
	v.lfo.ResetPhase()
	v.fadeIn = 0
	v.ageSamples = 0
}

// NoteOff releases the current note; a no-op while idle.
func (v *Voice) NoteOff() {
	if v.note >= 0 {
		v.ampEnv.GateOff()
		v.filterEnv.GateOff()
	}
}

func (v *Voice) IsActive() bool {
	return v.ampEnv.IsActive()
}

func (v *Voice) IsReleasing() bool {
	return v.ampEnv.IsReleasing()
}

// Steal starts the fixed-length fade-out; the voice resets itself once
// the fade completes inside Generate. A no-op while idle.
func (v *Voice) Steal() {
	if !v.IsActive() {
		return
	}
	v.fadeOut = v.fadeSamples
	v.stealing = true
}

// Reset forces the voice to idle immediately, discarding any
// in-progress envelope. For panic situations.
func (v *Voice) Reset() {
	v.note = -1
	v.velocity = 0
	v.velocityScale = 0
	v.ampEnv.Reset()
	v.filterEnv.Reset()
	v.filter.Reset()
	v.osc1.ResetPhase()
	v.osc2.ResetPhase()
	v.lfo.ResetPhase()
	v.fadeIn = v.fadeSamples
	v.fadeOut = 0
	v.stealing = false
	v.hasPending = false
	v.ageSamples = 0
}

func (v *Voice) completeSteal() {
	v.note = -1
	v.velocity = 0
	v.velocityScale = 0
	v.ampEnv.Reset()
	v.filterEnv.Reset()
	v.stealing = false
	// filter state is kept; resetting mid-buffer would click
	if v.hasPending {
		v.hasPending = false
		v.startNote(v.pendingNote, v.pendingVel)
	}
}

// PendingNote is the note waiting behind an in-flight steal fade, -1
// when there is none. The pool uses it to unroute a pending note that
// gets superseded by another steal.
func (v *Voice) PendingNote() int {
	if !v.hasPending {
		return -1
	}
	return v.pendingNote
}

// Age reports seconds since the latest note-on, 0 while idle. The pool
// uses it to pick the oldest steal victim.
func (v *Voice) Age() float64 {
	if !v.IsActive() {
		return 0
	}
	return float64(v.ageSamples) / v.sampleRate
}

func (v *Voice) ensureBuffers(n int) {
	if len(v.osc1Buf) < n {
		v.osc1Buf = make([]float64, n)
		v.osc2Buf = make([]float64, n)
		v.envBuf = make([]float64, n)
		v.lfoBuf = make([]float64, n)
	}
}

// Generate renders len(out) samples. An idle voice writes exact zeros.
func (v *Voice) Generate(out []float64) {
	n := len(out)
	if n == 0 {
		return
	}
	if !v.IsActive() {
		for i := range out {
			out[i] = 0
		}
		return
	}
	v.ensureBuffers(n)
	p := v.params

	lfoBuf := v.lfoBuf[:n]
	v.lfo.Generate(lfoBuf)

	// Block-rate modulation: the first LFO sample steers the buffer.
	if p.LFOToPitch > 0 {
		pitchMod := lfoBuf[0] * p.LFOToPitch * 2 // up to 2 semitones
		v.osc1.SetPitchMod(pitchMod)
		v.osc2.SetPitchMod(pitchMod)
	} else {
		v.osc1.SetPitchMod(0)
		v.osc2.SetPitchMod(0)
	}
	if p.LFOToPW > 0 {
		pwMod := lfoBuf[0] * p.LFOToPW * 0.4
		v.osc1.SetPWMod(pwMod)
		v.osc2.SetPWMod(pwMod)
	} else {
		v.osc1.SetPWMod(0)
		v.osc2.SetPWMod(0)
	}

	osc1Buf := v.osc1Buf[:n]
	osc2Buf := v.osc2Buf[:n]
	v.osc1.Generate(osc1Buf)
	v.osc2.Generate(osc2Buf)

	// keep the two-oscillator sum out of clipping range
	norm := 1.0
	if total := p.Osc1Level + p.Osc2Level; total > 0 {
		norm = 0.5 / math.Max(0.5, total*0.5)
	}
	for i := 0; i < n; i++ {
		out[i] = (osc1Buf[i] + osc2Buf[i]) * norm
	}

	envBuf := v.envBuf[:n]
	v.filterEnv.Generate(envBuf)
	cutoffMod := envBuf[0] * p.FilterEnvAmount * 4 // up to four octaves
	if p.LFOToFilter > 0 {
		cutoffMod += lfoBuf[0] * p.LFOToFilter
	}
	v.filter.SetCutoffMod(cutoffMod)
	v.filter.Process(out)

	v.ampEnv.Generate(envBuf)
	for i := 0; i < n; i++ {
		out[i] *= envBuf[i] * v.velocityScale
	}

	if v.fadeIn < v.fadeSamples {
		for i := 0; i < n && v.fadeIn < v.fadeSamples; i++ {
			out[i] *= float64(v.fadeIn) / float64(v.fadeSamples)
			v.fadeIn++
		}
	}
	if v.stealing && v.fadeOut > 0 {
		i := 0
		for ; i < n && v.fadeOut > 0; i++ {
			out[i] *= float64(v.fadeOut) / float64(v.fadeSamples)
			v.fadeOut--
		}
		if v.fadeOut <= 0 {
			// the rest of the buffer still holds the old note at full
			// level; it must not survive the fade
			for ; i < n; i++ {
				out[i] = 0
			}
			v.completeSteal()
		}
	}

	v.ageSamples += int64(n)
	if !v.ampEnv.IsActive() {
		v.note = -1
		v.velocity = 0
		v.velocityScale = 0
	}
}
