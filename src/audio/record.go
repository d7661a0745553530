package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// ----- Recorder ----- //

// recorder captures the master bus while recording is on and writes
// the take to a WAV file on stop.
type recorder struct {
	sampleRate int
	recording  bool
	samples    []float64
}

func newRecorder(sampleRate int) *recorder {
	return &recorder{sampleRate: sampleRate}
}

func (r *recorder) start() {
	r.samples = r.samples[:0]
	r.recording = true
}

func (r *recorder) append(buf []float64) {
	if !r.recording {
		return
	}
	r.samples = append(r.samples, buf...)
}

func (r *recorder) stopTo(path string) error {
	if !r.recording {
		return fmt.Errorf("not recording")
	}
	r.recording = false
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	format := beep.Format{
		SampleRate:  beep.SampleRate(r.sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	s := &bufferStreamer{samples: r.samples}
	return wav.Encode(f, beep.Take(len(r.samples), s), format)
}

// bufferStreamer plays a mono capture buffer, duplicated to both
// channels.
type bufferStreamer struct {
	samples []float64
	pos     int
}

var _ beep.Streamer = (*bufferStreamer)(nil)

func (b *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if b.pos >= len(b.samples) {
		return 0, false
	}
	n := 0
	for i := range samples {
		if b.pos >= len(b.samples) {
			break
		}
		v := b.samples[b.pos]
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
		n++
	}
	return n, true
}

func (b *bufferStreamer) Err() error {
	return nil
}
