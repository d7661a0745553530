package synth

import "math"

// ----- Ladder Filter ----- //

// LadderFilter is a 4-pole lowpass in the Moog ladder topology. Each
// stage is a TPT one-pole; the resonance feedback path and the input
// are both tanh-saturated so the filter stays stable at high k.
type LadderFilter struct {
	sampleRate float64
	cutoff     float64 // Hz
	resonance  float64 // 0-1
	cutoffMod  float64 // octaves/4
	g          float64
	k          float64
	s          [4]float64
}

func NewLadderFilter(sampleRate int) *LadderFilter {
	f := &LadderFilter{
		sampleRate: float64(sampleRate),
		cutoff:     1000,
	}
	f.updateCoefficients()
	return f
}

func (f *LadderFilter) Cutoff() float64    { return f.cutoff }
func (f *LadderFilter) Resonance() float64 { return f.resonance }
func (f *LadderFilter) CutoffMod() float64 { return f.cutoffMod }

func (f *LadderFilter) maxCutoff() float64 {
	return f.sampleRate / 2 * 0.9
}

func (f *LadderFilter) SetCutoff(freq float64) {
	f.cutoff = clamp(freq, 20, f.maxCutoff())
	f.updateCoefficients()
}

func (f *LadderFilter) SetResonance(value float64) {
	f.resonance = clamp(value, 0, 1)
	f.updateCoefficients()
}

// SetCutoffMod sets the modulation input. One unit of modulation moves
// the cutoff by four octaves.
func (f *LadderFilter) SetCutoffMod(value float64) {
	f.cutoffMod = value
	f.updateCoefficients()
}

// EffectiveCutoff is the cutoff including modulation, clamped to the
// usable range.
func (f *LadderFilter) EffectiveCutoff() float64 {
	return clamp(f.cutoff*math.Pow(2, f.cutoffMod*4), 20, f.maxCutoff())
}

func (f *LadderFilter) updateCoefficients() {
	// pre-warp for the bilinear transform
	wd := 2 * f.sampleRate * math.Tan(math.Pi*f.EffectiveCutoff()/f.sampleRate)
	f.g = wd / (2*f.sampleRate + wd)
	f.k = 4 * f.resonance
}

// Reset zeroes the stage states. Call on note-on to avoid clicks.
func (f *LadderFilter) Reset() {
	f.s = [4]float64{}
}

func (f *LadderFilter) processSample(x float64) float64 {
	u := math.Tanh(x - f.k*math.Tanh(f.s[3]))
	lp := u
	for i := 0; i < 4; i++ {
		v := f.g * (lp - f.s[i])
		lp = v + f.s[i]
		f.s[i] = lp + v
	}
	return lp
}

// Process filters buf in place.
func (f *LadderFilter) Process(buf []float64) {
	for i, x := range buf {
		buf[i] = f.processSample(x)
	}
}
