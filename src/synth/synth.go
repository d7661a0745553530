package synth

import "math"

// ----- Steal Strategy ----- //

type StealStrategy int

const (
	StealQuietest StealStrategy = iota
	StealOldest
	StealLowest
	StealHighest
)

func StealStrategyFromString(s string) StealStrategy {
	switch s {
	case "quietest":
		return StealQuietest
	case "oldest":
		return StealOldest
	case "lowest":
		return StealLowest
	case "highest":
		return StealHighest
	}
	return StealQuietest
}

func (s StealStrategy) String() string {
	switch s {
	case StealQuietest:
		return "quietest"
	case StealOldest:
		return "oldest"
	case StealLowest:
		return "lowest"
	case StealHighest:
		return "highest"
	}
	return "quietest"
}

// ----- Synth ----- //

const (
	minVoices = 1
	maxVoices = 32
)

// Synth is a fixed pool of voices behind a note router. All methods
// are expected to run on the audio goroutine; the synth itself does no
// locking.
type Synth struct {
	sampleRate    int
	voices        []*Voice
	noteToVoice   map[int]int
	stealStrategy StealStrategy
	masterVolume  float64
	normFactor    float64
	voiceBuf      []float64
}

func NewSynth(sampleRate int, numVoices int) *Synth {
	if numVoices < minVoices {
		numVoices = minVoices
	}
	if numVoices > maxVoices {
		numVoices = maxVoices
	}
	voices := make([]*Voice, numVoices)
	for i := range voices {
		voices[i] = NewVoice(sampleRate, i)
	}
	return &Synth{
		sampleRate:   sampleRate,
		voices:       voices,
		noteToVoice:  map[int]int{},
		masterVolume: 0.8,
		normFactor:   1,
	}
}

func (s *Synth) NumVoices() int               { return len(s.voices) }
func (s *Synth) MasterVolume() float64        { return s.masterVolume }
func (s *Synth) StealStrategy() StealStrategy { return s.stealStrategy }

func (s *Synth) SetMasterVolume(volume float64) {
	s.masterVolume = clamp(volume, 0, 1)
}

func (s *Synth) SetStealStrategy(strategy StealStrategy) {
	s.stealStrategy = strategy
}

// SetParameters pushes one parameter snapshot into every voice.
func (s *Synth) SetParameters(p VoiceParameters) {
	for _, v := range s.voices {
		v.SetParameters(p)
	}
}

func (s *Synth) Parameters() VoiceParameters {
	return s.voices[0].Parameters()
}

// NoteOn routes a note to a free voice, stealing one when the pool is
// full. A note that is already sounding is ignored; velocity 0 is
// treated as note-off, matching the MIDI running-status convention.
func (s *Synth) NoteOn(note int, velocity int) {
	if note < 0 || note > 127 {
		return
	}
	if velocity <= 0 {
		s.NoteOff(note)
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	if _, ok := s.noteToVoice[note]; ok {
		return
	}
	index := s.findFreeVoice()
	if index < 0 {
		index = s.findStealVictim()
		victim := s.voices[index]
		if old := victim.Note(); old >= 0 {
			delete(s.noteToVoice, old)
		}
		// a pending note superseded by this steal never sounds; drop
		// its routing too or it stays "held" forever
		if pending := victim.PendingNote(); pending >= 0 {
			delete(s.noteToVoice, pending)
		}
		victim.Steal()
	}
	s.voices[index].NoteOn(note, velocity)
	s.noteToVoice[note] = index
}

// NoteOff releases the voice holding note; unknown notes are ignored.
func (s *Synth) NoteOff(note int) {
	index, ok := s.noteToVoice[note]
	if !ok {
		return
	}
	s.voices[index].NoteOff()
	delete(s.noteToVoice, note)
}

// AllNotesOff releases every sounding note, letting releases ring out.
func (s *Synth) AllNotesOff() {
	for _, v := range s.voices {
		v.NoteOff()
	}
	s.noteToVoice = map[int]int{}
}

// Panic silences everything immediately.
func (s *Synth) Panic() {
	for _, v := range s.voices {
		v.Reset()
	}
	s.noteToVoice = map[int]int{}
}

func (s *Synth) ActiveVoiceCount() int {
	count := 0
	for _, v := range s.voices {
		if v.IsActive() {
			count++
		}
	}
	return count
}

// PlayingNotes lists the notes currently held (not yet released).
func (s *Synth) PlayingNotes() []int {
	notes := make([]int, 0, len(s.noteToVoice))
	for note := range s.noteToVoice {
		notes = append(notes, note)
	}
	return notes
}

func (s *Synth) findFreeVoice() int {
	for i, v := range s.voices {
		if !v.IsActive() {
			return i
		}
	}
	return -1
}

// findStealVictim picks the voice to recycle. Releasing voices get a
// score offset so they are preferred over held ones regardless of the
// strategy's base metric.
func (s *Synth) findStealVictim() int {
	best := 0
	bestScore := math.Inf(1)
	for i, v := range s.voices {
		var score float64
		switch s.stealStrategy {
		case StealOldest:
			score = -v.Age()
		case StealLowest:
			score = float64(v.Note())
		case StealHighest:
			score = -float64(v.Note())
		default:
			score = v.EnvelopeLevel()
		}
		if v.IsReleasing() {
			score -= 10
		}
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

// Generate mixes every voice into out, applies the voice-count
// normalization and the master volume, then soft-clips peaks.
func (s *Synth) Generate(out []float64) {
	n := len(out)
	for i := range out {
		out[i] = 0
	}
	if len(s.voiceBuf) < n {
		s.voiceBuf = make([]float64, n)
	}
	buf := s.voiceBuf[:n]
	for _, v := range s.voices {
		if !v.IsActive() {
			continue
		}
		v.Generate(buf)
		for i := 0; i < n; i++ {
			out[i] += buf[i]
		}
	}

	active := s.ActiveVoiceCount()
	if active < 1 {
		active = 1
	}
	target := 1 / math.Sqrt(float64(active))
	peak := 0.0
	for i := 0; i < n; i++ {
		// smooth the normalization so voice count changes don't step
		s.normFactor = s.normFactor*0.99 + target*0.01
		out[i] *= s.normFactor * s.masterVolume
		if a := math.Abs(out[i]); a > peak {
			peak = a
		}
	}
	if peak > 0.95 {
		for i := 0; i < n; i++ {
			out[i] = math.Tanh(out[i])
		}
	}
}
