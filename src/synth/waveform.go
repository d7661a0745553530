package synth

import "math"

// ----- Waveform ----- //

// Waveform identifies one of the closed set of waveform shapes.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
	Pulse
)

// WaveformFromString maps a name to a Waveform. Unknown names fall
// back to Sine.
func WaveformFromString(s string) Waveform {
	switch s {
	case "sine":
		return Sine
	case "sawtooth", "saw":
		return Sawtooth
	case "square":
		return Square
	case "triangle":
		return Triangle
	case "pulse":
		return Pulse
	}
	return Sine
}

func (w Waveform) String() string {
	switch w {
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Pulse:
		return "pulse"
	}
	return "sine"
}

// MIDIToFrequency converts a MIDI note number to Hz in equal
// temperament, A4 (note 69) = 440 Hz.
func MIDIToFrequency(note int) float64 {
	return 440.0 * math.Pow(2, float64(note-69)/12)
}

// waveValue evaluates a waveform at phase p in [0,1). pulseWidth is
// only used by Pulse.
func waveValue(w Waveform, p float64, pulseWidth float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * p)
	case Sawtooth:
		return p*2 - 1
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		if p < 0.25 {
			return p * 4
		}
		if p < 0.75 {
			return 2 - p*4
		}
		return p*4 - 4
	case Pulse:
		if p < pulseWidth {
			return 1
		}
		return -1
	}
	return 0
}

func clamp(value float64, min float64, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
