package effects

// ----- Chain ----- //

// Chain runs the effects in their fixed master-bus order:
// distortion -> chorus -> delay -> flanger -> reverb. Distortion comes
// first so the time-based effects smear the saturated signal, and the
// reverb last so its tail survives everything else.
type Chain struct {
	Distortion *Distortion
	Chorus     *Chorus
	Delay      *Delay
	Flanger    *Flanger
	Reverb     *Reverb
}

func NewChain(sampleRate int) *Chain {
	return &Chain{
		Distortion: NewDistortion(),
		Chorus:     NewChorus(sampleRate),
		Delay:      NewDelay(sampleRate),
		Flanger:    NewFlanger(sampleRate),
		Reverb:     NewReverb(sampleRate),
	}
}

// Process runs buf through every effect in place. Disabled effects
// pass the signal through untouched.
func (c *Chain) Process(buf []float64) {
	c.Distortion.Process(buf)
	c.Chorus.Process(buf)
	c.Delay.Process(buf)
	c.Flanger.Process(buf)
	c.Reverb.Process(buf)
}

// Reset clears every effect's internal state.
func (c *Chain) Reset() {
	c.Distortion.Reset()
	c.Chorus.Reset()
	c.Delay.Reset()
	c.Flanger.Reset()
	c.Reverb.Reset()
}
