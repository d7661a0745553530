package effects

import (
	"math"
	"testing"
)

func TestFlangerDisabledPassthrough(t *testing.T) {
	f := NewFlanger(sampleRate)
	buf := []float64{0.1, -0.2, 0.3}
	want := append([]float64(nil), buf...)
	f.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("disabled flanger altered sample %d", i)
		}
	}
}

func TestFlangerSweepsSignal(t *testing.T) {
	f := NewFlanger(sampleRate)
	f.SetEnabled(true)
	buf := make([]float64, 8192)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
	}
	want := append([]float64(nil), buf...)
	f.Process(buf)
	changed := false
	for i := 1024; i < len(buf); i++ {
		if buf[i] != want[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Errorf("enabled flanger left the signal untouched")
	}
}

func TestFlangerStableAtMaxFeedback(t *testing.T) {
	f := NewFlanger(sampleRate)
	f.SetEnabled(true)
	f.SetFeedback(0.95)
	f.SetDepth(1)
	buf := make([]float64, sampleRate)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * 330 * float64(i) / sampleRate)
	}
	f.Process(buf)
	for i, s := range buf {
		if math.IsNaN(s) || math.Abs(s) > 10 {
			t.Fatalf("flanger unstable at sample %d: %v", i, s)
		}
	}
}

func TestFlangerEnableClearsState(t *testing.T) {
	f := NewFlanger(sampleRate)
	f.SetEnabled(true)
	buf := impulse(1024)
	f.Process(buf)
	f.SetEnabled(false)
	f.SetEnabled(true)
	if f.lfoPhase != 0 || f.feedbackSample != 0 {
		t.Errorf("re-enable should reset sweep state")
	}
	silent := make([]float64, 1024)
	f.Process(silent)
	for i, s := range silent {
		if s != 0 {
			t.Fatalf("re-enabled flanger replayed stale audio at sample %d: %v", i, s)
		}
	}
}

func TestFlangerClamps(t *testing.T) {
	f := NewFlanger(sampleRate)
	f.SetRate(100)
	expectNear(t, f.Rate(), 5, 1e-9)
	f.SetRate(0)
	expectNear(t, f.Rate(), 0.1, 1e-9)
	f.SetFeedback(2)
	expectNear(t, f.Feedback(), 0.95, 1e-9)
}
