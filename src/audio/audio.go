package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/hajimehoshi/oto"
	"github.com/mkmn/minisynth/src/effects"
	"github.com/mkmn/minisynth/src/synth"
)

const (
	sampleRate      = 44100
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	fftSize         = 2048 // multiple of samplesPerCycle
	numVoices       = 8
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- MIDI Event ----- //

type midiEvent struct {
	offset float64
	event  interface{}
}

type noteOn struct {
	note     int
	velocity int
}
type noteOff struct {
	note int
}

// ----- State ----- //

type state struct {
	sync.Mutex
	events   [][]*midiEvent // length: samplesPerCycle * 2
	params   *params
	synth    *synth.Synth
	chain    *effects.Chain
	recorder *recorder
	presets  *presetManager
	pos      int64
	out      []float64 // length: fftSize
	lastRead float64
}

func newState() *state {
	return &state{
		events:   make([][]*midiEvent, samplesPerCycle*2),
		params:   newParams(),
		synth:    synth.NewSynth(sampleRate, numVoices),
		chain:    effects.NewChain(sampleRate),
		recorder: newRecorder(sampleRate),
		presets:  newPresetManager("presets"),
		out:      make([]float64, fftSize),
	}
}

// render fills out for one cycle, splitting the buffer at event
// offsets so note timing stays sample-accurate.
func (s *state) render(out []float64) {
	start := 0
	for i := range out {
		if len(s.events[i]) == 0 {
			continue
		}
		if i > start {
			s.synth.Generate(out[start:i])
			start = i
		}
		for _, e := range s.events[i] {
			s.handle(e)
		}
	}
	s.synth.Generate(out[start:])
	s.chain.Process(out)
	s.recorder.append(out)
}

func (s *state) handle(e *midiEvent) {
	switch data := e.event.(type) {
	case *noteOn:
		s.synth.NoteOn(data.note, data.velocity)
	case *noteOff:
		s.synth.NoteOff(data.note)
	}
}

// ----- Audio ----- //

// Audio renders the synth into the system audio device and fans the
// master bus out to the recorder and the spectrum analyzer.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	state      *state
	spectrum   *spectrumAnalyzer
}

var _ io.Reader = (*Audio)(nil)

type audioJSON struct {
	Params json.RawMessage `json:"params"`
}

// ApplyJSON replaces the whole parameter set at once.
func (a *Audio) ApplyJSON(data []byte) {
	a.state.Lock()
	defer a.state.Unlock()
	var j audioJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Audio", err)
		return
	}
	a.state.params.applyJSON(j.Params)
	a.state.params.applyToSynth(a.state.synth)
	a.state.params.applyToChain(a.state.chain)
}

// ToJSON dumps the current parameter set.
func (a *Audio) ToJSON() []byte {
	a.state.Lock()
	defer a.state.Unlock()
	bytes, err := json.Marshal(toRawMessage(&audioJSON{
		Params: a.state.params.toJSON(),
	}))
	if err != nil {
		panic(err)
	}
	return bytes
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		a.state.Lock()
		defer a.state.Unlock()
		timestamp := now()
		bufSamples := int64(len(buf) / bytesPerSample)

		offset := a.state.pos % fftSize
		out := a.state.out[offset : offset+bufSamples]
		a.state.render(out)
		writeBuffer(a.state.out, offset, buf, 0)
		writeBuffer(a.state.out, offset, buf, 1)
		a.state.pos += bufSamples
		a.state.lastRead = timestamp
		eventLength := len(a.state.events)
		for i := 0; i < eventLength; i++ {
			if i >= eventLength/2 {
				a.state.events[i-eventLength/2] = a.state.events[i]
			}
			a.state.events[i] = nil
		}
		return len(buf), nil
	}
}

func writeBuffer(out []float64, outOffset int64, buf []byte, ch int) {
	sampleLength := int(len(buf) / bytesPerSample)
	for i := 0; i < sampleLength; i++ {
		value := out[outOffset+int64(i)]
		switch bitDepthInBytes {
		case 1:
			const max = 127
			b := int(value * max)
			buf[bytesPerSample*i+ch] = byte(b + 128)
		case 2:
			const max = 32767
			b := int16(value * max)
			buf[bytesPerSample*i+2*ch] = byte(b)
			buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
		}
	}
}

// NewAudio ...
func NewAudio() (*Audio, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	spectrum, err := newSpectrumAnalyzer(fftSize)
	if err != nil {
		return nil, err
	}
	commandCh := make(chan []string, 256)
	audio := &Audio{
		ctx:        context.Background(),
		otoContext: otoContext,
		CommandCh:  commandCh,
		state:      newState(),
		spectrum:   spectrum,
	}
	audio.state.params.applyToSynth(audio.state.synth)
	audio.state.params.applyToChain(audio.state.chain)
	go processCommands(audio, commandCh)
	return audio, nil
}

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		err := audio.update(command)
		if err != nil {
			log.Printf("command failed: %v\n", err)
		}
	}
	log.Println("processCommands() ended.")
}

func (a *Audio) update(command []string) error {
	a.state.Lock()
	defer a.state.Unlock()

	switch command[0] {
	case "set":
		command = command[1:]
		if len(command) != 3 {
			return fmt.Errorf("invalid set command %v", command)
		}
		err := a.state.params.set(command[0], command[1], command[2])
		if err != nil {
			return err
		}
		a.state.params.applyToSynth(a.state.synth)
		a.state.params.applyToChain(a.state.chain)
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("note_on requires a note")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		velocity := int64(100)
		if len(command) >= 3 {
			velocity, err = strconv.ParseInt(command[2], 10, 32)
			if err != nil {
				return err
			}
		}
		a.addMidiEvent(&noteOn{note: int(note), velocity: int(velocity)})
	case "note_off":
		if len(command) < 2 {
			return fmt.Errorf("note_off requires a note")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		a.addMidiEvent(&noteOff{note: int(note)})
	case "all_notes_off":
		a.state.synth.AllNotesOff()
	case "panic":
		a.state.synth.Panic()
		a.state.chain.Reset()
	case "sync_delay":
		if len(command) != 3 {
			return fmt.Errorf("sync_delay requires bpm and note value")
		}
		bpm, err := strconv.ParseFloat(command[1], 64)
		if err != nil {
			return err
		}
		ms := a.state.chain.Delay.SyncToTempo(bpm, command[2])
		a.state.params.delay.time = ms
	case "record":
		if len(command) < 2 {
			return fmt.Errorf("record requires start or stop")
		}
		switch command[1] {
		case "start":
			a.state.recorder.start()
		case "stop":
			if len(command) != 3 {
				return fmt.Errorf("record stop requires a path")
			}
			return a.state.recorder.stopTo(command[2])
		default:
			return fmt.Errorf("unknown record action %v", command[1])
		}
	case "load_preset":
		if len(command) != 2 {
			return fmt.Errorf("load_preset requires a name")
		}
		err := a.state.presets.applyToParams(command[1], a.state.params)
		if err != nil {
			return err
		}
		a.state.params.applyToSynth(a.state.synth)
		a.state.params.applyToChain(a.state.chain)
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	return a.otoContext.Close()
}

// Start ...
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// GetFFT returns the magnitude spectrum of the most recent fftSize
// output samples.
func (a *Audio) GetFFT() []float64 {
	a.state.Lock()
	// out:    | 4 | 1 | 2 | 3 |
	// offset:     ^
	// input:  | 1 | 2 | 3 | 4 |
	offset := a.state.pos % fftSize
	a.spectrum.load(a.state.out, int(offset))
	a.state.Unlock()
	return a.spectrum.calc()
}

// AddMidiEvent feeds a raw MIDI message from the hardware input.
func (a *Audio) AddMidiEvent(data []byte) {
	a.state.Lock()
	defer a.state.Unlock()
	if len(data) < 3 {
		return
	}
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		log.Printf("got note-off: %v\n", data)
		a.addMidiEvent(&noteOff{note: int(data[1])})
	} else if data[0]>>4 == 9 && data[2] > 0 {
		log.Printf("got note-on: %v\n", data)
		a.addMidiEvent(&noteOn{note: int(data[1]), velocity: int(data[2])})
	}
}

func (a *Audio) addMidiEvent(event interface{}) {
	offset := now() - a.state.lastRead
	index := int(offset / secPerSample)
	if index < 0 {
		log.Println("[WARN] index < 0")
		index = 0
	}
	if index >= len(a.state.events) {
		log.Println("[WARN] index >= event length")
		index = len(a.state.events) - 1
	}
	a.state.events[index] = append(a.state.events[index], &midiEvent{offset: offset, event: event})
}
