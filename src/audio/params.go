package audio

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/mkmn/minisynth/src/effects"
	"github.com/mkmn/minisynth/src/synth"
)

// ----- Osc ----- //

type oscParams struct {
	kind   string
	level  float64
	detune float64 // cent, osc2 only
}

type oscJSON struct {
	Kind   string  `json:"kind"`
	Level  float64 `json:"level"`
	Detune float64 `json:"detune"`
}

func (o *oscParams) applyJSON(data json.RawMessage) {
	var j oscJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to oscParams")
		return
	}
	o.kind = j.Kind
	o.level = j.Level
	o.detune = j.Detune
}
func (o *oscParams) toJSON() json.RawMessage {
	return toRawMessage(&oscJSON{
		Kind:   o.kind,
		Level:  o.level,
		Detune: o.detune,
	})
}
func (o *oscParams) set(key string, value string) error {
	switch key {
	case "kind":
		o.kind = value
	case "level":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.level = value
	case "detune":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.detune = value
	}
	return nil
}

// ----- Filter ----- //

type filterParams struct {
	cutoff    float64
	resonance float64
	envAmount float64
}

type filterJSON struct {
	Cutoff    float64 `json:"cutoff"`
	Resonance float64 `json:"resonance"`
	EnvAmount float64 `json:"envAmount"`
}

func (f *filterParams) applyJSON(data json.RawMessage) {
	var j filterJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to filterParams")
		return
	}
	f.cutoff = j.Cutoff
	f.resonance = j.Resonance
	f.envAmount = j.EnvAmount
}
func (f *filterParams) toJSON() json.RawMessage {
	return toRawMessage(&filterJSON{
		Cutoff:    f.cutoff,
		Resonance: f.resonance,
		EnvAmount: f.envAmount,
	})
}
func (f *filterParams) set(key string, value string) error {
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "cutoff":
		f.cutoff = value64
	case "resonance":
		f.resonance = value64
	case "env_amount":
		f.envAmount = value64
	}
	return nil
}

// ----- ADSR ----- //

type adsrParams struct {
	attack  float64 // sec
	decay   float64 // sec
	sustain float64 // 0-1
	release float64 // sec
}

type adsrJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

func (a *adsrParams) applyJSON(data json.RawMessage) {
	var j adsrJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to adsrParams")
		return
	}
	a.attack = j.Attack
	a.decay = j.Decay
	a.sustain = j.Sustain
	a.release = j.Release
}
func (a *adsrParams) toJSON() json.RawMessage {
	return toRawMessage(&adsrJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
		Release: a.release,
	})
}
func (a *adsrParams) set(key string, value string) error {
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "attack":
		a.attack = value64
	case "decay":
		a.decay = value64
	case "sustain":
		a.sustain = value64
	case "release":
		a.release = value64
	}
	return nil
}

// ----- LFO ----- //

type lfoParams struct {
	wave     string
	rate     float64
	depth    float64
	toPitch  float64
	toFilter float64
	toPW     float64
}

type lfoJSON struct {
	Wave     string  `json:"wave"`
	Rate     float64 `json:"rate"`
	Depth    float64 `json:"depth"`
	ToPitch  float64 `json:"toPitch"`
	ToFilter float64 `json:"toFilter"`
	ToPW     float64 `json:"toPW"`
}

func (l *lfoParams) applyJSON(data json.RawMessage) {
	var j lfoJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to lfoParams")
		return
	}
	l.wave = j.Wave
	l.rate = j.Rate
	l.depth = j.Depth
	l.toPitch = j.ToPitch
	l.toFilter = j.ToFilter
	l.toPW = j.ToPW
}
func (l *lfoParams) toJSON() json.RawMessage {
	return toRawMessage(&lfoJSON{
		Wave:     l.wave,
		Rate:     l.rate,
		Depth:    l.depth,
		ToPitch:  l.toPitch,
		ToFilter: l.toFilter,
		ToPW:     l.toPW,
	})
}
func (l *lfoParams) set(key string, value string) error {
	if key == "wave" {
		l.wave = value
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "rate":
		l.rate = value64
	case "depth":
		l.depth = value64
	case "to_pitch":
		l.toPitch = value64
	case "to_filter":
		l.toFilter = value64
	case "to_pw":
		l.toPW = value64
	}
	return nil
}

// ----- Master ----- //

type masterParams struct {
	volume        float64
	stealStrategy string
}

type masterJSON struct {
	Volume        float64 `json:"volume"`
	StealStrategy string  `json:"stealStrategy"`
}

func (m *masterParams) applyJSON(data json.RawMessage) {
	var j masterJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to masterParams")
		return
	}
	m.volume = j.Volume
	m.stealStrategy = j.StealStrategy
}
func (m *masterParams) toJSON() json.RawMessage {
	return toRawMessage(&masterJSON{
		Volume:        m.volume,
		StealStrategy: m.stealStrategy,
	})
}
func (m *masterParams) set(key string, value string) error {
	switch key {
	case "volume":
		value, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.volume = value
	case "steal_strategy":
		m.stealStrategy = value
	}
	return nil
}

// ----- Delay ----- //

type delayParams struct {
	enabled  bool
	time     float64 // ms
	feedback float64
	mix      float64
}

type delayJSON struct {
	Enabled  bool    `json:"enabled"`
	Time     float64 `json:"time"`
	Feedback float64 `json:"feedback"`
	Mix      float64 `json:"mix"`
}

func (d *delayParams) applyJSON(data json.RawMessage) {
	var j delayJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to delayParams")
		return
	}
	d.enabled = j.Enabled
	d.time = j.Time
	d.feedback = j.Feedback
	d.mix = j.Mix
}
func (d *delayParams) toJSON() json.RawMessage {
	return toRawMessage(&delayJSON{
		Enabled:  d.enabled,
		Time:     d.time,
		Feedback: d.feedback,
		Mix:      d.mix,
	})
}
func (d *delayParams) set(key string, value string) error {
	if key == "enabled" {
		d.enabled = value == "true"
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "time":
		d.time = value64
	case "feedback":
		d.feedback = value64
	case "mix":
		d.mix = value64
	}
	return nil
}

// ----- Chorus ----- //

type chorusParams struct {
	enabled bool
	rate    float64
	depth   float64
	voices  int
	mix     float64
}

type chorusJSON struct {
	Enabled bool    `json:"enabled"`
	Rate    float64 `json:"rate"`
	Depth   float64 `json:"depth"`
	Voices  int     `json:"voices"`
	Mix     float64 `json:"mix"`
}

func (c *chorusParams) applyJSON(data json.RawMessage) {
	var j chorusJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to chorusParams")
		return
	}
	c.enabled = j.Enabled
	c.rate = j.Rate
	c.depth = j.Depth
	c.voices = j.Voices
	c.mix = j.Mix
}
func (c *chorusParams) toJSON() json.RawMessage {
	return toRawMessage(&chorusJSON{
		Enabled: c.enabled,
		Rate:    c.rate,
		Depth:   c.depth,
		Voices:  c.voices,
		Mix:     c.mix,
	})
}
func (c *chorusParams) set(key string, value string) error {
	switch key {
	case "enabled":
		c.enabled = value == "true"
		return nil
	case "voices":
		value, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		c.voices = int(value)
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "rate":
		c.rate = value64
	case "depth":
		c.depth = value64
	case "mix":
		c.mix = value64
	}
	return nil
}

// ----- Flanger ----- //

type flangerParams struct {
	enabled  bool
	rate     float64
	depth    float64
	feedback float64
	mix      float64
}

type flangerJSON struct {
	Enabled  bool    `json:"enabled"`
	Rate     float64 `json:"rate"`
	Depth    float64 `json:"depth"`
	Feedback float64 `json:"feedback"`
	Mix      float64 `json:"mix"`
}

func (f *flangerParams) applyJSON(data json.RawMessage) {
	var j flangerJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to flangerParams")
		return
	}
	f.enabled = j.Enabled
	f.rate = j.Rate
	f.depth = j.Depth
	f.feedback = j.Feedback
	f.mix = j.Mix
}
func (f *flangerParams) toJSON() json.RawMessage {
	return toRawMessage(&flangerJSON{
		Enabled:  f.enabled,
		Rate:     f.rate,
		Depth:    f.depth,
		Feedback: f.feedback,
		Mix:      f.mix,
	})
}
func (f *flangerParams) set(key string, value string) error {
	if key == "enabled" {
		f.enabled = value == "true"
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "rate":
		f.rate = value64
	case "depth":
		f.depth = value64
	case "feedback":
		f.feedback = value64
	case "mix":
		f.mix = value64
	}
	return nil
}

// ----- Distortion ----- //

type distortionParams struct {
	enabled bool
	drive   float64
	tone    float64
	mix     float64
	mode    string
}

type distortionJSON struct {
	Enabled bool    `json:"enabled"`
	Drive   float64 `json:"drive"`
	Tone    float64 `json:"tone"`
	Mix     float64 `json:"mix"`
	Mode    string  `json:"mode"`
}

func (d *distortionParams) applyJSON(data json.RawMessage) {
	var j distortionJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to distortionParams")
		return
	}
	d.enabled = j.Enabled
	d.drive = j.Drive
	d.tone = j.Tone
	d.mix = j.Mix
	d.mode = j.Mode
}
func (d *distortionParams) toJSON() json.RawMessage {
	return toRawMessage(&distortionJSON{
		Enabled: d.enabled,
		Drive:   d.drive,
		Tone:    d.tone,
		Mix:     d.mix,
		Mode:    d.mode,
	})
}
func (d *distortionParams) set(key string, value string) error {
	switch key {
	case "enabled":
		d.enabled = value == "true"
		return nil
	case "mode":
		d.mode = value
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "drive":
		d.drive = value64
	case "tone":
		d.tone = value64
	case "mix":
		d.mix = value64
	}
	return nil
}

// ----- Reverb ----- //

type reverbParams struct {
	enabled bool
	room    float64
	mix     float64
}

type reverbJSON struct {
	Enabled bool    `json:"enabled"`
	Room    float64 `json:"room"`
	Mix     float64 `json:"mix"`
}

func (r *reverbParams) applyJSON(data json.RawMessage) {
	var j reverbJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to reverbParams")
		return
	}
	r.enabled = j.Enabled
	r.room = j.Room
	r.mix = j.Mix
}
func (r *reverbParams) toJSON() json.RawMessage {
	return toRawMessage(&reverbJSON{
		Enabled: r.enabled,
		Room:    r.room,
		Mix:     r.mix,
	})
}
func (r *reverbParams) set(key string, value string) error {
	if key == "enabled" {
		r.enabled = value == "true"
		return nil
	}
	value64, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	switch key {
	case "room":
		r.room = value64
	case "mix":
		r.mix = value64
	}
	return nil
}

// ----- Params ----- //

type params struct {
	osc1       *oscParams
	osc2       *oscParams
	filter     *filterParams
	ampEnv     *adsrParams
	filterEnv  *adsrParams
	lfo        *lfoParams
	master     *masterParams
	delay      *delayParams
	chorus     *chorusParams
	flanger    *flangerParams
	distortion *distortionParams
	reverb     *reverbParams
}

func newParams() *params {
	return &params{
		osc1:       &oscParams{kind: "sawtooth", level: 0.7},
		osc2:       &oscParams{kind: "sawtooth", level: 0.5, detune: 5},
		filter:     &filterParams{cutoff: 2000, resonance: 0.3},
		ampEnv:     &adsrParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.3},
		filterEnv:  &adsrParams{attack: 0.01, decay: 0.2, sustain: 0.3, release: 0.3},
		lfo:        &lfoParams{wave: "sine", rate: 5, depth: 0.3},
		master:     &masterParams{volume: 0.8, stealStrategy: "quietest"},
		delay:      &delayParams{time: 300, feedback: 0.4, mix: 0.3},
		chorus:     &chorusParams{rate: 0.5, depth: 0.5, voices: 3, mix: 0.3},
		flanger:    &flangerParams{rate: 0.3, depth: 0.7, feedback: 0.5, mix: 0.5},
		distortion: &distortionParams{drive: 2, tone: 0.5, mix: 1, mode: "soft"},
		reverb:     &reverbParams{enabled: true, room: 0.5, mix: 0.3},
	}
}

type paramsJSON struct {
	Osc1       json.RawMessage `json:"osc1"`
	Osc2       json.RawMessage `json:"osc2"`
	Filter     json.RawMessage `json:"filter"`
	AmpEnv     json.RawMessage `json:"ampEnv"`
	FilterEnv  json.RawMessage `json:"filterEnv"`
	Lfo        json.RawMessage `json:"lfo"`
	Master     json.RawMessage `json:"master"`
	Delay      json.RawMessage `json:"delay"`
	Chorus     json.RawMessage `json:"chorus"`
	Flanger    json.RawMessage `json:"flanger"`
	Distortion json.RawMessage `json:"distortion"`
	Reverb     json.RawMessage `json:"reverb"`
}

func (p *params) applyJSON(data json.RawMessage) {
	var j paramsJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to params")
		return
	}
	p.osc1.applyJSON(j.Osc1)
	p.osc2.applyJSON(j.Osc2)
	p.filter.applyJSON(j.Filter)
	p.ampEnv.applyJSON(j.AmpEnv)
	p.filterEnv.applyJSON(j.FilterEnv)
	p.lfo.applyJSON(j.Lfo)
	p.master.applyJSON(j.Master)
	p.delay.applyJSON(j.Delay)
	p.chorus.applyJSON(j.Chorus)
	p.flanger.applyJSON(j.Flanger)
	p.distortion.applyJSON(j.Distortion)
	p.reverb.applyJSON(j.Reverb)
}
func (p *params) toJSON() json.RawMessage {
	return toRawMessage(&paramsJSON{
		Osc1:       p.osc1.toJSON(),
		Osc2:       p.osc2.toJSON(),
		Filter:     p.filter.toJSON(),
		AmpEnv:     p.ampEnv.toJSON(),
		FilterEnv:  p.filterEnv.toJSON(),
		Lfo:        p.lfo.toJSON(),
		Master:     p.master.toJSON(),
		Delay:      p.delay.toJSON(),
		Chorus:     p.chorus.toJSON(),
		Flanger:    p.flanger.toJSON(),
		Distortion: p.distortion.toJSON(),
		Reverb:     p.reverb.toJSON(),
	})
}

func (p *params) set(section string, key string, value string) error {
	switch section {
	case "osc1":
		return p.osc1.set(key, value)
	case "osc2":
		return p.osc2.set(key, value)
	case "filter":
		return p.filter.set(key, value)
	case "amp_env":
		return p.ampEnv.set(key, value)
	case "filter_env":
		return p.filterEnv.set(key, value)
	case "lfo":
		return p.lfo.set(key, value)
	case "master":
		return p.master.set(key, value)
	case "delay":
		return p.delay.set(key, value)
	case "chorus":
		return p.chorus.set(key, value)
	case "flanger":
		return p.flanger.set(key, value)
	case "distortion":
		return p.distortion.set(key, value)
	case "reverb":
		return p.reverb.set(key, value)
	}
	return fmt.Errorf("unknown section %v", section)
}

func (p *params) voiceParameters() synth.VoiceParameters {
	return synth.VoiceParameters{
		Osc1Waveform:    synth.WaveformFromString(p.osc1.kind),
		Osc1Level:       p.osc1.level,
		Osc2Waveform:    synth.WaveformFromString(p.osc2.kind),
		Osc2Level:       p.osc2.level,
		Osc2Detune:      p.osc2.detune,
		FilterCutoff:    p.filter.cutoff,
		FilterResonance: p.filter.resonance,
		FilterEnvAmount: p.filter.envAmount,
		AmpAttack:       p.ampEnv.attack,
		AmpDecay:        p.ampEnv.decay,
		AmpSustain:      p.ampEnv.sustain,
		AmpRelease:      p.ampEnv.release,
		FilterAttack:    p.filterEnv.attack,
		FilterDecay:     p.filterEnv.decay,
		FilterSustain:   p.filterEnv.sustain,
		FilterRelease:   p.filterEnv.release,
		LFORate:         p.lfo.rate,
		LFODepth:        p.lfo.depth,
		LFOWaveform:     synth.WaveformFromString(p.lfo.wave),
		LFOToPitch:      p.lfo.toPitch,
		LFOToFilter:     p.lfo.toFilter,
		LFOToPW:         p.lfo.toPW,
	}
}

func (p *params) applyToSynth(s *synth.Synth) {
	s.SetParameters(p.voiceParameters())
	s.SetMasterVolume(p.master.volume)
	s.SetStealStrategy(synth.StealStrategyFromString(p.master.stealStrategy))
}

func (p *params) applyToChain(c *effects.Chain) {
	c.Distortion.SetDrive(p.distortion.drive)
	c.Distortion.SetTone(p.distortion.tone)
	c.Distortion.SetMix(p.distortion.mix)
	c.Distortion.SetMode(effects.DistortionModeFromString(p.distortion.mode))
	c.Distortion.SetEnabled(p.distortion.enabled)
	c.Chorus.SetRate(p.chorus.rate)
	c.Chorus.SetDepth(p.chorus.depth)
	c.Chorus.SetVoices(p.chorus.voices)
	c.Chorus.SetWetDry(p.chorus.mix)
	c.Chorus.SetEnabled(p.chorus.enabled)
	c.Delay.SetDelayTimeMS(p.delay.time)
	c.Delay.SetFeedback(p.delay.feedback)
	c.Delay.SetWetDry(p.delay.mix)
	c.Delay.SetEnabled(p.delay.enabled)
	c.Flanger.SetRate(p.flanger.rate)
	c.Flanger.SetDepth(p.flanger.depth)
	c.Flanger.SetFeedback(p.flanger.feedback)
	c.Flanger.SetWetDry(p.flanger.mix)
	c.Flanger.SetEnabled(p.flanger.enabled)
	c.Reverb.SetRoomSize(p.reverb.room)
	c.Reverb.SetWetDry(p.reverb.mix)
	c.Reverb.SetEnabled(p.reverb.enabled)
}
