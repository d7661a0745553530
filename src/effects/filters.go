// Package effects implements the master-bus effect chain: distortion,
// chorus, delay, flanger, and a Schroeder reverb. Every effect
// processes mono float64 buffers and is a clean pass-through while
// disabled.
package effects

// ----- Shared Filter Primitives ----- //

const dcBlockCoeff = 0.995

// dcBlocker is a first-order high-pass that strips DC offset:
// y[n] = x[n] - x[n-1] + coeff*y[n-1].
type dcBlocker struct {
	prevInput  float64
	prevOutput float64
}

func (d *dcBlocker) process(x float64) float64 {
	out := x - d.prevInput + dcBlockCoeff*d.prevOutput
	d.prevInput = x
	d.prevOutput = out
	return out
}

func (d *dcBlocker) reset() {
	d.prevInput = 0
	d.prevOutput = 0
}

// toneFilter is a one-pole low-pass whose coefficient follows the tone
// control: tone 0 is dark, tone 1 passes everything.
type toneFilter struct {
	state float64
}

func (t *toneFilter) process(x float64, tone float64) float64 {
	coeff := 0.1 + 0.9*tone
	t.state = coeff*x + (1-coeff)*t.state
	return t.state
}

func (t *toneFilter) reset() {
	t.state = 0
}

// CombFilter is a feedback comb, the density element of the reverb.
// The delayed sample is read before the write, so an impulse first
// appears at the output after delaySamples calls.
type CombFilter struct {
	buffer   []float64
	writePos int
	feedback float64
}

func NewCombFilter(delaySamples int, feedback float64) *CombFilter {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &CombFilter{
		buffer:   make([]float64, delaySamples),
		feedback: feedback,
	}
}

func (c *CombFilter) Feedback() float64 { return c.feedback }

func (c *CombFilter) SetFeedback(value float64) {
	c.feedback = clamp(value, 0, 0.99)
}

func (c *CombFilter) ProcessSample(x float64) float64 {
	out := c.buffer[c.writePos]
	c.buffer[c.writePos] = x + out*c.feedback
	c.writePos = (c.writePos + 1) % len(c.buffer)
	return out
}

func (c *CombFilter) Reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.writePos = 0
}

// AllpassFilter is the diffusion element of the reverb:
// y[n] = -g*x[n] + x[n-D] + g*y[n-D].
type AllpassFilter struct {
	buffer   []float64
	writePos int
	gain     float64
}

func NewAllpassFilter(delaySamples int, gain float64) *AllpassFilter {
	if delaySamples < 1 {
		delaySamples = 1
	}
	return &AllpassFilter{
		buffer: make([]float64, delaySamples),
		gain:   gain,
	}
}

func (a *AllpassFilter) ProcessSample(x float64) float64 {
	delayed := a.buffer[a.writePos]
	out := -a.gain*x + delayed
	a.buffer[a.writePos] = x + a.gain*delayed
	a.writePos = (a.writePos + 1) % len(a.buffer)
	return out
}

func (a *AllpassFilter) Reset() {
	for i := range a.buffer {
		a.buffer[i] = 0
	}
	a.writePos = 0
}

func clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
