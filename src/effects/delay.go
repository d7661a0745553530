package effects

// ----- Delay ----- //

const (
	minDelayMS  = 10
	maxDelayMS  = 2000
	maxFeedback = 0.95
)

// noteValueBeats maps a note-value name to its length in quarter-note
// beats, for tempo sync.
var noteValueBeats = map[string]float64{
	"1/1":  4,
	"1/2":  2,
	"1/4":  1,
	"1/8":  0.5,
	"1/16": 0.25,
	"1/32": 0.125,
	"1/4.": 1.5,
	"1/8.": 0.75,
	"1/8T": 1.0 / 3,
	"1/4T": 2.0 / 3,
}

// Delay is a circular-buffer echo. The feedback path runs through a DC
// blocker so high feedback settings cannot accumulate offset.
type Delay struct {
	sampleRate  int
	enabled     bool
	delayTimeMS float64
	feedback    float64
	wetDry      float64
	buffer      []float64
	writePos    int
	dcBlock     dcBlocker
	wetBuf      []float64
}

func NewDelay(sampleRate int) *Delay {
	// sized for the longest delay so time changes never reallocate
	size := maxDelayMS*sampleRate/1000 + 1
	return &Delay{
		sampleRate:  sampleRate,
		delayTimeMS: 300,
		feedback:    0.4,
		wetDry:      0.3,
		buffer:      make([]float64, size),
	}
}

func (d *Delay) Enabled() bool        { return d.enabled }
func (d *Delay) DelayTimeMS() float64 { return d.delayTimeMS }
func (d *Delay) Feedback() float64    { return d.feedback }
func (d *Delay) WetDry() float64      { return d.wetDry }

func (d *Delay) SetEnabled(enabled bool) {
	d.enabled = enabled
	if !enabled {
		d.Reset()
	}
}

func (d *Delay) SetDelayTimeMS(ms float64) {
	d.delayTimeMS = clamp(ms, minDelayMS, maxDelayMS)
}

func (d *Delay) SetFeedback(value float64) {
	d.feedback = clamp(value, 0, maxFeedback)
}

func (d *Delay) SetWetDry(value float64) {
	d.wetDry = clamp(value, 0, 1)
}

// SyncToTempo sets the delay time from a tempo and a note value like
// "1/4" or "1/8.". Unknown note values fall back to a quarter note.
// Returns the resulting delay time in milliseconds.
func (d *Delay) SyncToTempo(bpm float64, noteValue string) float64 {
	quarterMS := 60000.0 / bpm
	beats, ok := noteValueBeats[noteValue]
	if !ok {
		beats = 1
	}
	d.SetDelayTimeMS(quarterMS * beats)
	return d.delayTimeMS
}

func (d *Delay) delaySamples() int {
	return int(d.delayTimeMS / 1000 * float64(d.sampleRate))
}

// Process applies the delay to buf in place.
func (d *Delay) Process(buf []float64) {
	if !d.enabled || d.wetDry == 0 {
		return
	}
	n := len(buf)
	if len(d.wetBuf) < n {
		d.wetBuf = make([]float64, n)
	}
	wet := d.wetBuf[:n]
	delaySamples := d.delaySamples()
	size := len(d.buffer)

	for i := 0; i < n; i++ {
		readPos := (d.writePos - delaySamples + size) % size
		delayed := d.buffer[readPos]
		blocked := d.dcBlock.process(delayed)
		d.buffer[d.writePos] = buf[i] + blocked*d.feedback
		wet[i] = delayed
		d.writePos = (d.writePos + 1) % size
	}

	dry := 1 - d.wetDry
	for i := 0; i < n; i++ {
		buf[i] = buf[i]*dry + wet[i]*d.wetDry
	}
}

func (d *Delay) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
	d.dcBlock.reset()
}
