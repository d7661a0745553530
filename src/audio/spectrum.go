package audio

import (
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ----- Spectrum ----- //

type spectrumAnalyzer struct {
	plan   *algofft.Plan[complex128]
	input  []complex128
	output []complex128
	mags   []float64
}

func newSpectrumAnalyzer(size int) (*spectrumAnalyzer, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, err
	}
	return &spectrumAnalyzer{
		plan:   plan,
		input:  make([]complex128, size),
		output: make([]complex128, size),
		mags:   make([]float64, size/2),
	}, nil
}

// load copies a ring buffer into the analyzer input, oldest sample
// first, and applies a Hanning window.
func (s *spectrumAnalyzer) load(ring []float64, offset int) {
	n := len(s.input)
	for i := 0; i < n; i++ {
		w := 0.5 - 0.5*math.Cos(2.0*math.Pi*float64(i)/float64(n))
		s.input[i] = complex(ring[(offset+i)%n]*w, 0)
	}
}

// calc returns the magnitudes of the first half of the spectrum,
// normalized so a full-scale sine reads near 1.
func (s *spectrumAnalyzer) calc() []float64 {
	if err := s.plan.Forward(s.output, s.input); err != nil {
		return s.mags
	}
	n := len(s.input)
	for i := range s.mags {
		s.mags[i] = cmplx.Abs(s.output[i]) * 2 / float64(n)
	}
	return s.mags
}
