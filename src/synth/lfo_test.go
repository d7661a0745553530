package synth

import "testing"

func TestLFOBipolarRange(t *testing.T) {
	l := NewLFO(sampleRate)
	l.SetFrequency(5)
	l.SetDepth(0.5)
	buf := make([]float64, 44100)
	l.Generate(buf)
	for i, s := range buf {
		if s < -0.5 || s > 0.5 {
			t.Fatalf("sample %d out of [-depth, depth]: %v", i, s)
		}
	}
}

func TestLFOUnipolarRange(t *testing.T) {
	l := NewLFO(sampleRate)
	l.SetFrequency(5)
	l.SetDepth(0.8)
	buf := make([]float64, 44100)
	l.GenerateUnipolar(buf)
	for i, s := range buf {
		if s < 0 || s > 0.8 {
			t.Fatalf("sample %d out of [0, depth]: %v", i, s)
		}
	}
}

func TestLFOClamps(t *testing.T) {
	l := NewLFO(sampleRate)
	l.SetFrequency(0.01)
	expectNear(t, l.Frequency(), 0.1, 1e-9)
	l.SetFrequency(100)
	expectNear(t, l.Frequency(), 50, 1e-9)
	l.SetDepth(-1)
	expectNear(t, l.Depth(), 0, 1e-9)
	l.SetDepth(2)
	expectNear(t, l.Depth(), 1, 1e-9)
}

func TestLFOZeroDepthSilent(t *testing.T) {
	l := NewLFO(sampleRate)
	l.SetDepth(0)
	buf := make([]float64, 64)
	l.Generate(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("expected zero at sample %d, got %v", i, s)
		}
	}
}
