package effects

import (
	"math"
	"testing"
)

func tailEnergy(buf []float64) float64 {
	sum := 0.0
	for _, s := range buf {
		sum += s * s
	}
	return sum
}

func TestReverbEnabledByDefault(t *testing.T) {
	r := NewReverb(sampleRate)
	if !r.Enabled() {
		t.Errorf("reverb should default to enabled")
	}
}

func TestReverbProducesTail(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetWetDry(1)
	buf := impulse(sampleRate)
	r.Process(buf)
	// energy must persist well past the impulse
	if tailEnergy(buf[sampleRate/2:]) == 0 {
		t.Errorf("reverb produced no tail")
	}
}

func TestReverbDryMixPassthrough(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetWetDry(0)
	buf := []float64{0.5, -0.5, 0.25}
	want := append([]float64(nil), buf...)
	r.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("wet/dry 0 altered sample %d", i)
		}
	}
}

func TestReverbDisabledPassthrough(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetEnabled(false)
	buf := []float64{0.5, -0.5}
	want := append([]float64(nil), buf...)
	r.Process(buf)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("disabled reverb altered sample %d", i)
		}
	}
}

func TestReverbDecays(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetWetDry(1)
	buf := impulse(sampleRate * 4)
	r.Process(buf)
	early := tailEnergy(buf[:sampleRate])
	late := tailEnergy(buf[sampleRate*3:])
	if late >= early {
		t.Errorf("tail should decay: early %v, late %v", early, late)
	}
	for i, s := range buf {
		if math.IsNaN(s) || math.Abs(s) > 4 {
			t.Fatalf("reverb unstable at sample %d: %v", i, s)
		}
	}
}

func TestReverbRoomSizeChangeDiscardsTail(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetWetDry(1)
	buf := impulse(4096)
	r.Process(buf)
	r.SetRoomSize(0.9) // rebuilds the combs
	// only the allpass state survives; the long comb memory is gone
	silent := make([]float64, sampleRate)
	r.Process(silent)
	late := tailEnergy(silent[sampleRate/2:])
	if late > 0.01 {
		t.Errorf("room change should discard most of the tail, energy %v", late)
	}
}

func TestReverbSmallRoomSizeChangeKeepsTail(t *testing.T) {
	r := NewReverb(sampleRate)
	r.SetWetDry(1)
	buf := impulse(4096)
	r.Process(buf)
	r.SetRoomSize(0.505)
	// the value sticks even though the combs are not rebuilt
	expectNear(t, r.RoomSize(), 0.505, 1e-9)
	silent := make([]float64, sampleRate)
	r.Process(silent)
	if tailEnergy(silent) == 0 {
		t.Errorf("small room change should not clear the tail")
	}
}

func TestReverbRoomSizeDriftRebuildsCombs(t *testing.T) {
	r := NewReverb(sampleRate)
	for i := 1; i <= 80; i++ {
		r.SetRoomSize(0.5 + float64(i)*0.005)
	}
	expectNear(t, r.RoomSize(), 0.9, 1e-9)
	// a long run of sub-deadband steps must still reach the combs
	if fb := r.combs[0].Feedback(); fb < 0.7+0.2*0.87 {
		t.Errorf("combs lag the accumulated room size: feedback %v", fb)
	}
}

func TestReverbLargerRoomLongerDecay(t *testing.T) {
	decay := func(room float64) float64 {
		r := NewReverb(sampleRate)
		r.SetWetDry(1)
		r.SetRoomSize(room)
		buf := impulse(sampleRate * 2)
		r.Process(buf)
		return tailEnergy(buf[sampleRate:])
	}
	small := decay(0.1)
	large := decay(0.9)
	if large <= small {
		t.Errorf("larger room should ring longer: small %v, large %v", small, large)
	}
}
