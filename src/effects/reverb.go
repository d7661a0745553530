package effects

// ----- Reverb ----- //

// Classic Schroeder delay times at 44.1 kHz, scaled for other sample
// rates and by the room size.
var (
	combDelays    = [4]int{1557, 1617, 1491, 1422}
	allpassDelays = [2]int{225, 556}
)

const (
	allpassGain      = 0.5
	reverbOutputGain = 0.25 // four combs summed
)

// Reverb is a Schroeder reverberator: four parallel combs for density
// into two series allpasses for diffusion. Room size scales both the
// comb delay times and their feedback.
type Reverb struct {
	sampleRate    int
	enabled       bool
	wetDry        float64
	roomSize      float64
	builtRoomSize float64 // room size the combs were last built for
	combs         [4]*CombFilter
	allpasses     [2]*AllpassFilter
	wetBuf        []float64
}

func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{
		sampleRate: sampleRate,
		enabled:    true,
		wetDry:     0.3,
		roomSize:   0.5,
	}
	r.rebuildCombs()
	scale := float64(sampleRate) / 44100
	for i, delay := range allpassDelays {
		scaled := int(float64(delay) * scale)
		r.allpasses[i] = NewAllpassFilter(scaled, allpassGain)
	}
	return r
}

func (r *Reverb) Enabled() bool     { return r.enabled }
func (r *Reverb) WetDry() float64   { return r.wetDry }
func (r *Reverb) RoomSize() float64 { return r.roomSize }

func (r *Reverb) SetEnabled(enabled bool) {
	r.enabled = enabled
	if !enabled {
		r.Reset()
	}
}

func (r *Reverb) SetWetDry(value float64) {
	r.wetDry = clamp(value, 0, 1)
}

// SetRoomSize stores the new room size and rebuilds the comb filters
// for it. The rebuild is skipped while the value stays within 0.01 of
// the last built size, so repeated tiny UI updates don't clear the
// tail; drift past the deadband still triggers it.
func (r *Reverb) SetRoomSize(value float64) {
	r.roomSize = clamp(value, 0, 1)
	delta := r.roomSize - r.builtRoomSize
	if delta < 0 {
		delta = -delta
	}
	if delta > 0.01 {
		r.rebuildCombs()
	}
}

// roomScale maps room size 0-1 to a delay scale of 0.5-2.
func (r *Reverb) roomScale() float64 {
	return 0.5 + r.roomSize*1.5
}

// roomFeedback maps room size 0-1 to comb feedback 0.7-0.9.
func (r *Reverb) roomFeedback() float64 {
	return 0.7 + r.roomSize*0.2
}

func (r *Reverb) rebuildCombs() {
	scale := float64(r.sampleRate) / 44100
	feedback := r.roomFeedback()
	for i, delay := range combDelays {
		scaled := int(float64(delay) * scale * r.roomScale())
		r.combs[i] = NewCombFilter(scaled, feedback)
	}
	r.builtRoomSize = r.roomSize
}

// Process applies the reverb to buf in place.
func (r *Reverb) Process(buf []float64) {
	if !r.enabled || r.wetDry == 0 {
		return
	}
	n := len(buf)
	if len(r.wetBuf) < n {
		r.wetBuf = make([]float64, n)
	}
	wet := r.wetBuf[:n]

	for i, x := range buf {
		sum := 0.0
		for _, comb := range r.combs {
			sum += comb.ProcessSample(x)
		}
		wet[i] = sum * reverbOutputGain
	}
	for _, allpass := range r.allpasses {
		for i := 0; i < n; i++ {
			wet[i] = allpass.ProcessSample(wet[i])
		}
	}

	dry := 1 - r.wetDry
	for i := 0; i < n; i++ {
		buf[i] = buf[i]*dry + wet[i]*r.wetDry
	}
}

func (r *Reverb) Reset() {
	for _, comb := range r.combs {
		comb.Reset()
	}
	for _, allpass := range r.allpasses {
		allpass.Reset()
	}
}
