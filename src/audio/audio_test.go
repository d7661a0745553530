package audio

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// newTestAudio builds an Audio without opening the sound device.
func newTestAudio(t *testing.T) *Audio {
	t.Helper()
	spectrum, err := newSpectrumAnalyzer(fftSize)
	expectNoError(t, err)
	a := &Audio{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 16),
		state:     newState(),
		spectrum:  spectrum,
	}
	a.state.params.applyToSynth(a.state.synth)
	a.state.params.applyToChain(a.state.chain)
	return a
}

func readEnergy(t *testing.T, a *Audio) float64 {
	t.Helper()
	buf := make([]byte, bufferSizeInBytes)
	_, err := a.Read(buf)
	expectNoError(t, err)
	sum := 0.0
	for i := 0; i < len(buf); i += bytesPerSample {
		v := float64(int16(binary.LittleEndian.Uint16(buf[i:]))) / 32767
		sum += v * v
	}
	return sum
}

func TestUpdateSet(t *testing.T) {
	a := newTestAudio(t)
	expectNoError(t, a.update([]string{"set", "filter", "cutoff", "800"}))
	if got := a.state.synth.Parameters().FilterCutoff; got != 800 {
		t.Errorf("cutoff not applied: %v", got)
	}
	expectNoError(t, a.update([]string{"set", "delay", "enabled", "true"}))
	if !a.state.chain.Delay.Enabled() {
		t.Errorf("delay not enabled")
	}
}

func TestUpdateErrors(t *testing.T) {
	a := newTestAudio(t)
	if err := a.update([]string{"explode"}); err == nil {
		t.Errorf("unknown command should fail")
	}
	if err := a.update([]string{"set", "filter", "cutoff"}); err == nil {
		t.Errorf("short set command should fail")
	}
	if err := a.update([]string{"note_on", "many"}); err == nil {
		t.Errorf("non-numeric note should fail")
	}
	if err := a.update([]string{"set", "wah", "depth", "1"}); err == nil {
		t.Errorf("unknown section should fail")
	}
}

func TestNoteLifecycle(t *testing.T) {
	a := newTestAudio(t)
	expectNoError(t, a.update([]string{"set", "reverb", "enabled", "false"}))
	if readEnergy(t, a) != 0 {
		t.Errorf("expected silence before any note")
	}
	expectNoError(t, a.update([]string{"note_on", "60", "100"}))
	sounding := 0.0
	for i := 0; i < 4; i++ {
		sounding += readEnergy(t, a)
	}
	if sounding == 0 {
		t.Errorf("expected audio after note-on")
	}
	expectNoError(t, a.update([]string{"note_off", "60"}))
	// release is 0.3s, run well past it
	for i := 0; i < 80; i++ {
		readEnergy(t, a)
	}
	if e := readEnergy(t, a); e != 0 {
		t.Errorf("expected silence after release, energy %v", e)
	}
}

func TestPanicSilencesImmediately(t *testing.T) {
	a := newTestAudio(t)
	expectNoError(t, a.update([]string{"set", "reverb", "enabled", "false"}))
	expectNoError(t, a.update([]string{"note_on", "60"}))
	readEnergy(t, a)
	readEnergy(t, a)
	expectNoError(t, a.update([]string{"panic"}))
	if e := readEnergy(t, a); e != 0 {
		t.Errorf("expected silence right after panic, energy %v", e)
	}
}

func TestSyncDelay(t *testing.T) {
	a := newTestAudio(t)
	expectNoError(t, a.update([]string{"sync_delay", "120", "1/4"}))
	if a.state.params.delay.time != 500 {
		t.Errorf("quarter note at 120 BPM should be 500ms, got %v", a.state.params.delay.time)
	}
	if a.state.chain.Delay.DelayTimeMS() != 500 {
		t.Errorf("delay line not updated: %v", a.state.chain.Delay.DelayTimeMS())
	}
	if err := a.update([]string{"sync_delay", "abc", "1/4"}); err == nil {
		t.Errorf("non-numeric bpm should fail")
	}
}

func TestRecord(t *testing.T) {
	a := newTestAudio(t)
	path := filepath.Join(t.TempDir(), "take.wav")
	if err := a.update([]string{"record", "stop", path}); err == nil {
		t.Errorf("stop without start should fail")
	}
	expectNoError(t, a.update([]string{"record", "start"}))
	expectNoError(t, a.update([]string{"note_on", "69"}))
	for i := 0; i < 4; i++ {
		readEnergy(t, a)
	}
	expectNoError(t, a.update([]string{"record", "stop", path}))
	info, err := os.Stat(path)
	expectNoError(t, err)
	if info.Size() == 0 {
		t.Errorf("recorded file is empty")
	}
}

func TestLoadPreset(t *testing.T) {
	a := newTestAudio(t)
	dir := t.TempDir()
	a.state.presets = newPresetManager(dir)
	data := []byte(`{"osc1":{"kind":"square","level":0.4},"osc2":{"kind":"sawtooth","level":0.5,"detune":5},` +
		`"filter":{"cutoff":1200,"resonance":0.3},"ampEnv":{"attack":0.01,"decay":0.1,"sustain":0.7,"release":0.3},` +
		`"filterEnv":{"attack":0.01,"decay":0.2,"sustain":0.3,"release":0.3},` +
		`"lfo":{"wave":"sine","rate":5,"depth":0.3},"master":{"volume":0.8,"stealStrategy":"quietest"},` +
		`"delay":{"time":300,"feedback":0.4,"mix":0.3},"chorus":{"rate":0.5,"depth":0.5,"voices":3,"mix":0.3},` +
		`"flanger":{"rate":0.3,"depth":0.7,"feedback":0.5,"mix":0.5},` +
		`"distortion":{"drive":2,"tone":0.5,"mix":1,"mode":"soft"},"reverb":{"enabled":true,"room":0.5,"mix":0.3}}`)
	expectNoError(t, os.WriteFile(filepath.Join(dir, "lead.json"), data, 0644))
	list := []byte(`{"items":[{"name":"lead"}]}`)
	expectNoError(t, os.WriteFile(filepath.Join(dir, "_list.json"), list, 0644))

	expectNoError(t, a.update([]string{"load_preset", "lead"}))
	if a.state.params.osc1.kind != "square" {
		t.Errorf("preset osc kind not applied: %v", a.state.params.osc1.kind)
	}
	if got := a.state.synth.Parameters().FilterCutoff; got != 1200 {
		t.Errorf("preset cutoff not pushed to voices: %v", got)
	}
	if err := a.update([]string{"load_preset", "missing"}); err == nil {
		t.Errorf("missing preset should fail")
	}
}

func TestReadAdvancesRing(t *testing.T) {
	a := newTestAudio(t)
	buf := make([]byte, bufferSizeInBytes)
	_, err := a.Read(buf)
	expectNoError(t, err)
	if a.state.pos != samplesPerCycle {
		t.Errorf("pos should advance by one cycle, got %v", a.state.pos)
	}
	_, err = a.Read(buf)
	expectNoError(t, err)
	if a.state.pos != samplesPerCycle*2 {
		t.Errorf("pos should advance by two cycles, got %v", a.state.pos)
	}
}

func TestAddMidiEvent(t *testing.T) {
	a := newTestAudio(t)
	readEnergy(t, a) // sets lastRead
	a.AddMidiEvent([]byte{0x90, 60, 100})
	a.AddMidiEvent([]byte{0x80, 60, 0})
	a.AddMidiEvent([]byte{0x90, 62, 0}) // zero velocity acts as note-off
	ons, offs := 0, 0
	for _, events := range a.state.events {
		for _, e := range events {
			switch e.event.(type) {
			case *noteOn:
				ons++
			case *noteOff:
				offs++
			}
		}
	}
	if ons != 1 || offs != 2 {
		t.Errorf("expected 1 note-on and 2 note-offs, got %v and %v", ons, offs)
	}
}

func TestGetFFTPeak(t *testing.T) {
	a := newTestAudio(t)
	const bin = 128
	for i := range a.state.out {
		a.state.out[i] = math.Sin(2 * math.Pi * bin * float64(i) / fftSize)
	}
	result := a.GetFFT()
	if len(result) != fftSize/2 {
		t.Fatalf("expected %v bins, got %v", fftSize/2, len(result))
	}
	peak := 0
	for i, v := range result {
		if v > result[peak] {
			peak = i
		}
	}
	if peak != bin {
		t.Errorf("expected peak at bin %v, got %v", bin, peak)
	}
	if result[peak] < 0.3 {
		t.Errorf("peak magnitude too small: %v", result[peak])
	}
}

func TestAudioJSONRoundTrip(t *testing.T) {
	a := newTestAudio(t)
	expectNoError(t, a.update([]string{"set", "osc1", "kind", "pulse"}))
	dump := a.ToJSON()

	b := newTestAudio(t)
	b.ApplyJSON(dump)
	if b.state.params.osc1.kind != "pulse" {
		t.Errorf("osc1 kind lost in round trip: %v", b.state.params.osc1.kind)
	}
	if b.state.synth.Parameters().Osc1Waveform.String() != "pulse" {
		t.Errorf("waveform not pushed to the synth")
	}
}
