package effects

import (
	"math"
	"testing"
)

func TestChorusDisabledPassthrough(t *testing.T) {
	c := NewChorus(sampleRate)
	buf := []float64{0.1, 0.2, 0.3}
	want := append([]float64(nil), buf...)
	c.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("disabled chorus altered sample %d", i)
		}
	}
}

func TestChorusThickensSignal(t *testing.T) {
	c := NewChorus(sampleRate)
	c.SetEnabled(true)
	c.SetWetDry(0.5)
	buf := make([]float64, 4096)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
	}
	want := append([]float64(nil), buf...)
	c.Process(buf)
	changed := false
	// after the base delay the wet taps contribute
	for i := 2048; i < len(buf); i++ {
		if buf[i] != want[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Errorf("enabled chorus left the signal untouched")
	}
}

func TestChorusVoicesClamp(t *testing.T) {
	c := NewChorus(sampleRate)
	c.SetVoices(1)
	if c.Voices() != 2 {
		t.Errorf("expected 2 voices, got %d", c.Voices())
	}
	c.SetVoices(10)
	if c.Voices() != 4 {
		t.Errorf("expected 4 voices, got %d", c.Voices())
	}
}

func TestChorusVoiceChangeRedistributesPhases(t *testing.T) {
	c := NewChorus(sampleRate)
	c.SetVoices(4)
	for i := 0; i < 4; i++ {
		expectNear(t, c.lfoPhases[i], 2*math.Pi*float64(i)/4, 1e-9)
	}
	c.SetVoices(2)
	expectNear(t, c.lfoPhases[0], 0, 1e-9)
	expectNear(t, c.lfoPhases[1], math.Pi, 1e-9)
}

func TestChorusOutputBounded(t *testing.T) {
	c := NewChorus(sampleRate)
	c.SetEnabled(true)
	c.SetDepth(1)
	c.SetRate(5)
	c.SetWetDry(1)
	buf := make([]float64, sampleRate)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * 220 * float64(i) / sampleRate)
	}
	c.Process(buf)
	for i, s := range buf {
		if math.Abs(s) > 1.5 {
			t.Fatalf("chorus output blew up at sample %d: %v", i, s)
		}
	}
}
