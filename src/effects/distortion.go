package effects

import "math"

// ----- Distortion ----- //

const (
	minDrive = 1.0
	maxDrive = 20.0
)

// DistortionMode selects the waveshaping curve.
type DistortionMode int

const (
	// DistortionSoft is tanh saturation, warm and smooth.
	DistortionSoft DistortionMode = iota
	// DistortionHard clamps at the rails, harsh and digital.
	DistortionHard
	// DistortionTube clips the halves asymmetrically for even
	// harmonics, like a tube stage.
	DistortionTube
)

// DistortionModeFromString maps a name to a mode. Unknown names fall
// back to soft.
func DistortionModeFromString(s string) DistortionMode {
	switch s {
	case "hard":
		return DistortionHard
	case "tube":
		return DistortionTube
	}
	return DistortionSoft
}

func (m DistortionMode) String() string {
	switch m {
	case DistortionHard:
		return "hard"
	case DistortionTube:
		return "tube"
	}
	return "soft"
}

// Distortion is a waveshaper with drive, a post tone filter, and a DC
// blocker that removes the offset asymmetric clipping introduces.
type Distortion struct {
	enabled bool
	drive   float64
	tone    float64
	mix     float64
	mode    DistortionMode
	toneFlt toneFilter
	dcBlock dcBlocker
}

func NewDistortion() *Distortion {
	return &Distortion{
		drive: 2,
		tone:  0.5,
		mix:   1,
		mode:  DistortionSoft,
	}
}

func (d *Distortion) Enabled() bool        { return d.enabled }
func (d *Distortion) Drive() float64       { return d.drive }
func (d *Distortion) Tone() float64        { return d.tone }
func (d *Distortion) Mix() float64         { return d.mix }
func (d *Distortion) Mode() DistortionMode { return d.mode }

func (d *Distortion) SetEnabled(enabled bool) {
	d.enabled = enabled
	if !enabled {
		d.Reset()
	}
}

func (d *Distortion) SetDrive(value float64) {
	d.drive = clamp(value, minDrive, maxDrive)
}

func (d *Distortion) SetTone(value float64) {
	d.tone = clamp(value, 0, 1)
}

func (d *Distortion) SetMix(value float64) {
	d.mix = clamp(value, 0, 1)
}

func (d *Distortion) SetMode(mode DistortionMode) {
	d.mode = mode
}

func (d *Distortion) shape(x float64) float64 {
	switch d.mode {
	case DistortionHard:
		return clamp(x, -1, 1)
	case DistortionTube:
		if x >= 0 {
			return math.Tanh(x * 0.9)
		}
		return math.Tanh(x*1.1) * 0.9
	}
	return math.Tanh(x)
}

// Process applies the distortion to buf in place: drive, waveshape,
// tone filter, DC block, then wet/dry mix.
func (d *Distortion) Process(buf []float64) {
	if !d.enabled || d.mix == 0 {
		return
	}
	dry := 1 - d.mix
	for i, x := range buf {
		shaped := d.shape(x * d.drive)
		toned := d.toneFlt.process(shaped, d.tone)
		blocked := d.dcBlock.process(toned)
		buf[i] = x*dry + blocked*d.mix
	}
}

func (d *Distortion) Reset() {
	d.toneFlt.reset()
	d.dcBlock.reset()
}
