package synth

import "math"

// ----- Envelope ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

const (
	minEnvelopeTime = 0.001 // sec
	maxEnvelopeTime = 10.0  // sec
	// Exponent for the decay/release time constants. Larger means the
	// curve settles closer to its target within the nominal time.
	expCoefficient = 5.0
)

/*
  1 +    x
    |   / \
    |  /   \
  s + /     x--------x
    |/                \
  0 +--+----+--------+--+--
    |a |d   |sustain |r |
*/
type Envelope struct {
	sampleRate  float64
	stage       int
	value       float64
	attack      float64 // sec
	decay       float64 // sec
	sustain     float64 // 0-1
	release     float64 // sec
	attackCoef  float64
	decayCoef   float64
	releaseCoef float64
}

func NewEnvelope(sampleRate int) *Envelope {
	e := &Envelope{
		sampleRate: float64(sampleRate),
		attack:     0.01,
		decay:      0.1,
		sustain:    0.7,
		release:    0.3,
	}
	e.updateCoefficients()
	return e
}

func (e *Envelope) Attack() float64  { return e.attack }
func (e *Envelope) Decay() float64   { return e.decay }
func (e *Envelope) Sustain() float64 { return e.sustain }
func (e *Envelope) Release() float64 { return e.release }
func (e *Envelope) Value() float64   { return e.value }

func (e *Envelope) SetAttack(sec float64) {
	e.attack = clamp(sec, minEnvelopeTime, maxEnvelopeTime)
	e.updateCoefficients()
}

func (e *Envelope) SetDecay(sec float64) {
	e.decay = clamp(sec, minEnvelopeTime, maxEnvelopeTime)
	e.updateCoefficients()
}

func (e *Envelope) SetSustain(level float64) {
	e.sustain = clamp(level, 0, 1)
}

func (e *Envelope) SetRelease(sec float64) {
	e.release = clamp(sec, minEnvelopeTime, maxEnvelopeTime)
	e.updateCoefficients()
}

func (e *Envelope) updateCoefficients() {
	e.attackCoef = 1 / (e.attack * e.sampleRate)
	e.decayCoef = math.Exp(-expCoefficient / math.Max(1, e.decay*e.sampleRate))
	e.releaseCoef = math.Exp(-expCoefficient / math.Max(1, e.release*e.sampleRate))
}

// GateOn starts the attack. The current value is kept so a retrigger
// during decay or release picks up where it was (legato).
func (e *Envelope) GateOn() {
	e.stage = stageAttack
}

// GateOff starts the release from the current value.
func (e *Envelope) GateOff() {
	if e.stage != stageIdle {
		e.stage = stageRelease
	}
}

// Reset forces the envelope back to idle immediately.
func (e *Envelope) Reset() {
	e.stage = stageIdle
	e.value = 0
}

func (e *Envelope) IsActive() bool {
	return e.stage != stageIdle
}

func (e *Envelope) IsReleasing() bool {
	return e.stage == stageRelease
}

func (e *Envelope) step() float64 {
	switch e.stage {
	case stageAttack:
		// linear attack
		e.value += e.attackCoef
		if e.value >= 1 {
			e.value = 1
			e.stage = stageDecay
		}
	case stageDecay:
		// exponential approach toward the sustain level
		e.value = e.sustain + (e.value-e.sustain)*e.decayCoef
		if math.Abs(e.value-e.sustain) < 0.001 {
			e.value = e.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.value = e.sustain
	case stageRelease:
		// exponential release toward zero
		e.value *= e.releaseCoef
		if e.value < 0.001 {
			e.value = 0
			e.stage = stageIdle
		}
	default:
		e.value = 0
	}
	return e.value
}

// GenerateSample produces one envelope value, advancing the stage
// machine as thresholds are crossed.
func (e *Envelope) GenerateSample() float64 {
	return e.step()
}

// Generate fills out with envelope values in [0,1].
func (e *Envelope) Generate(out []float64) {
	for i := range out {
		out[i] = e.step()
	}
}
