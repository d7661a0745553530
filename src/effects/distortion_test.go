package effects

import (
	"math"
	"testing"
)

func TestDistortionDisabledPassthrough(t *testing.T) {
	d := NewDistortion()
	buf := []float64{0.5, -0.5, 0.9}
	want := append([]float64(nil), buf...)
	d.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("disabled distortion altered sample %d", i)
		}
	}
}

func TestDistortionModeRoundTrip(t *testing.T) {
	for _, m := range []DistortionMode{DistortionSoft, DistortionHard, DistortionTube} {
		if got := DistortionModeFromString(m.String()); got != m {
			t.Errorf("round trip failed for %v: got %v", m, got)
		}
	}
	if DistortionModeFromString("fuzz") != DistortionSoft {
		t.Errorf("unknown mode should fall back to soft")
	}
}

func TestDistortionHardClip(t *testing.T) {
	d := NewDistortion()
	d.SetEnabled(true)
	d.SetMode(DistortionHard)
	d.SetDrive(10)
	d.SetTone(1) // tone filter passes through
	d.SetMix(1)
	buf := []float64{0.5}
	d.Process(buf)
	// 0.5 * 10 clips to exactly 1; the DC blocker passes the first sample
	expectNear(t, buf[0], 1, 1e-9)
}

func TestDistortionSoftSaturates(t *testing.T) {
	d := NewDistortion()
	d.SetEnabled(true)
	d.SetMode(DistortionSoft)
	d.SetDrive(20)
	d.SetTone(1)
	d.SetMix(1)
	buf := []float64{1, -1}
	d.Process(buf)
	if math.Abs(buf[0]) > 1 {
		t.Errorf("soft clip exceeded 1: %v", buf[0])
	}
	expectNear(t, buf[0], math.Tanh(20), 1e-6)
}

func TestDistortionTubeAsymmetry(t *testing.T) {
	d := NewDistortion()
	d.SetMode(DistortionTube)
	pos := d.shape(1)
	neg := d.shape(-1)
	expectNear(t, pos, math.Tanh(0.9), 1e-9)
	expectNear(t, neg, math.Tanh(-1.1)*0.9, 1e-9)
	if pos == -neg {
		t.Errorf("tube mode should clip the halves differently")
	}
}

func TestDistortionDriveClamp(t *testing.T) {
	d := NewDistortion()
	d.SetDrive(0)
	expectNear(t, d.Drive(), 1, 1e-9)
	d.SetDrive(100)
	expectNear(t, d.Drive(), 20, 1e-9)
}

func TestDistortionDarkToneFilters(t *testing.T) {
	process := func(tone float64) float64 {
		d := NewDistortion()
		d.SetEnabled(true)
		d.SetDrive(5)
		d.SetTone(tone)
		// high-frequency square input
		buf := make([]float64, 1024)
		for i := range buf {
			if i%2 == 0 {
				buf[i] = 0.8
			} else {
				buf[i] = -0.8
			}
		}
		d.Process(buf)
		sum := 0.0
		for _, s := range buf[512:] {
			sum += s * s
		}
		return math.Sqrt(sum / 512)
	}
	bright := process(1)
	dark := process(0)
	if dark >= bright {
		t.Errorf("tone 0 should attenuate highs: dark %v, bright %v", dark, bright)
	}
}
