package effects

import "math"

// ----- Chorus ----- //

const (
	chorusMinRate     = 0.1
	chorusMaxRate     = 5.0
	chorusMinVoices   = 2
	chorusMaxVoices   = 4
	chorusBaseDelayMS = 25.0
	chorusDepthMS     = 5.0
)

// Chorus thickens the signal with several LFO-modulated delay taps
// read from one shared buffer. Voice LFOs are spread evenly around the
// phase circle.
type Chorus struct {
	sampleRate int
	enabled    bool
	rate       float64
	depth      float64
	voices     int
	wetDry     float64
	buffer     []float64
	writePos   int
	lfoPhases  [chorusMaxVoices]float64
}

func NewChorus(sampleRate int) *Chorus {
	size := int((chorusBaseDelayMS+chorusDepthMS)/1000*float64(sampleRate)) + 10
	c := &Chorus{
		sampleRate: sampleRate,
		rate:       0.5,
		depth:      0.5,
		voices:     3,
		wetDry:     0.3,
		buffer:     make([]float64, size),
	}
	c.resetLFOPhases()
	return c
}

func (c *Chorus) Enabled() bool   { return c.enabled }
func (c *Chorus) Rate() float64   { return c.rate }
func (c *Chorus) Depth() float64  { return c.depth }
func (c *Chorus) Voices() int     { return c.voices }
func (c *Chorus) WetDry() float64 { return c.wetDry }

func (c *Chorus) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.Reset()
	}
}

func (c *Chorus) SetRate(hz float64) {
	c.rate = clamp(hz, chorusMinRate, chorusMaxRate)
}

func (c *Chorus) SetDepth(value float64) {
	c.depth = clamp(value, 0, 1)
}

// SetVoices sets the tap count. Changing it redistributes the LFO
// phases so the taps stay evenly spread.
func (c *Chorus) SetVoices(count int) {
	if count < chorusMinVoices {
		count = chorusMinVoices
	}
	if count > chorusMaxVoices {
		count = chorusMaxVoices
	}
	if count != c.voices {
		c.voices = count
		c.resetLFOPhases()
	}
}

func (c *Chorus) SetWetDry(value float64) {
	c.wetDry = clamp(value, 0, 1)
}

func (c *Chorus) resetLFOPhases() {
	for i := 0; i < c.voices; i++ {
		c.lfoPhases[i] = 2 * math.Pi * float64(i) / float64(c.voices)
	}
}

// interpolate reads a fractional delay behind the write position with
// linear interpolation.
func (c *Chorus) interpolate(delay float64) float64 {
	size := len(c.buffer)
	intDelay := int(delay)
	frac := delay - float64(intDelay)
	pos1 := (c.writePos - intDelay + size) % size
	pos2 := (c.writePos - intDelay - 1 + size*2) % size
	return c.buffer[pos1]*(1-frac) + c.buffer[pos2]*frac
}

// Process applies the chorus to buf in place.
func (c *Chorus) Process(buf []float64) {
	if !c.enabled || c.wetDry == 0 {
		return
	}
	baseDelay := chorusBaseDelayMS / 1000 * float64(c.sampleRate)
	depthSamples := chorusDepthMS / 1000 * float64(c.sampleRate) * c.depth
	phaseInc := 2 * math.Pi * c.rate / float64(c.sampleRate)
	size := len(c.buffer)
	dry := 1 - c.wetDry

	for i, x := range buf {
		c.buffer[c.writePos] = x

		wet := 0.0
		for v := 0; v < c.voices; v++ {
			delay := baseDelay + math.Sin(c.lfoPhases[v])*depthSamples
			if delay < 1 {
				delay = 1
			}
			wet += c.interpolate(delay)
			c.lfoPhases[v] += phaseInc
			if c.lfoPhases[v] >= 2*math.Pi {
				c.lfoPhases[v] -= 2 * math.Pi
			}
		}
		wet /= float64(c.voices)

		buf[i] = x*dry + wet*c.wetDry
		c.writePos = (c.writePos + 1) % size
	}
}

func (c *Chorus) Reset() {
	for i := range c.buffer {
		c.buffer[i] = 0
	}
	c.writePos = 0
	c.resetLFOPhases()
}
