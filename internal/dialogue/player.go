// Package dialogue implements visual-novel beat playback: it loads each beat's
// layers, fades them in, types out the body text, waits for the player,
// offers choices and fades out whatever the next beat replaces.
//
// The host drives a Player with Update and Draw once per frame from a single
// goroutine. Nothing in the package blocks.
package dialogue

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/internal/script"
	"github.com/Faultbox/avg-player/internal/timing"
	"github.com/Faultbox/avg-player/pkg/geom"
)

// imageSlot is a live image layer with its fade accumulator.
type imageSlot struct {
	d    Drawable
	fade timing.Fade
}

func (s *imageSlot) setAlpha(a float64) {
	s.fade.Alpha = a
	s.d.SetAlpha(float32(a))
}

// label is a live text layer.
type label struct {
	d      Drawable
	text   string
	bounds geom.Rect // cached at creation, used for hit-testing
	fade   timing.Fade
	reveal timing.Reveal
}

func (l *label) setAlpha(a float64) {
	l.fade.Alpha = a
	l.d.SetAlpha(float32(a))
}

// exitPlan records which layers fade during ExitingBeat.
type exitPlan struct {
	background bool
	character  bool
	name       bool
}

// Player is the dialogue playback state machine.
type Player struct {
	script *script.Script
	layers LayerFactory
	audio  AudioService
	log    *zap.Logger
	opts   Options

	phase           Phase
	current         int
	pending         int
	pendingResolved bool
	finished        bool
	exit            exitPlan

	background *imageSlot
	character  *imageSlot
	name       *label
	body       *label
	choices    []*label

	// Created once on the first update and never replaced.
	staticsReady bool
	frame        Drawable
	frameNoName  Drawable
	overlay      *imageSlot
}

// New creates a player for a validated script. Playback starts with the
// first Update.
func New(s *script.Script, deps Deps, opts Options) (*Player, error) {
	if s == nil {
		return nil, errors.New("dialogue: nil script")
	}
	if deps.Layers == nil {
		return nil, errors.New("dialogue: nil layer factory")
	}
	if opts.FadeRate <= 0 || opts.RevealRate <= 0 {
		return nil, fmt.Errorf("dialogue: rates must be positive (fade %g, reveal %g)", opts.FadeRate, opts.RevealRate)
	}
	if err := CheckFonts(deps.Layers, opts); err != nil {
		return nil, err
	}

	p := &Player{
		script:          s,
		layers:          deps.Layers,
		audio:           deps.Audio,
		log:             deps.Log,
		opts:            opts,
		phase:           PhaseLoadingNextBeat,
		current:         -1,
		pending:         0,
		pendingResolved: true,
	}
	if p.audio == nil {
		p.audio = nopAudio{}
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p, nil
}

// Phase returns the current phase.
func (p *Player) Phase() Phase { return p.phase }

// CurrentIndex returns the index of the beat on screen, -1 before the first.
func (p *Player) CurrentIndex() int { return p.current }

// PendingIndex returns the index of the next beat to load. ok is false while
// the current beat waits for a choice.
func (p *Player) PendingIndex() (index int, ok bool) {
	return p.pending, p.pendingResolved
}

// Finished reports whether playback ran past the last beat.
func (p *Player) Finished() bool { return p.finished }

// Update advances playback by dt seconds. act is the pointer activation of
// this frame in canvas coordinates, or nil.
//
// A frame with no elapsed time and no input changes nothing. The returned
// error is fatal: a text layer (font) could not be created.
func (p *Player) Update(dt float64, act *geom.Point) error {
	if dt <= 0 && act == nil {
		return nil
	}
	if dt < 0 {
		dt = 0
	}

	p.ensureStatics()

	switch p.phase {
	case PhaseLoadingNextBeat:
		return p.loadNextBeat()
	case PhaseEnteringBeat:
		p.enterBeat(dt, act != nil)
	case PhaseAwaitingAdvance:
		if act != nil {
			p.advance()
		}
	case PhaseShowingChoices:
		return p.showChoices()
	case PhaseAwaitingChoice:
		if act != nil {
			p.pickChoice(*act)
		}
	case PhaseExitingBeat:
		p.exitBeat(dt, act != nil)
	}
	return nil
}

func (p *Player) setPhase(next Phase) {
	p.log.Debug("phase change",
		zap.Stringer("from", p.phase),
		zap.Stringer("to", next),
		zap.Int("beat", p.current))
	p.phase = next
}

func (p *Player) loadNextBeat() error {
	if p.pending >= p.script.Len() {
		if !p.finished {
			p.finished = true
			p.log.Info("playback finished", zap.Int("last_beat", p.current))
		}
		return nil
	}

	index := p.pending
	beat := p.script.Beat(index)
	p.log.Debug("loading beat",
		zap.Int("beat", index),
		zap.Stringer("background", beat.Background),
		zap.Stringer("character", beat.Character),
		zap.Int("choices", len(beat.Choices)))

	if beat.Music != "" {
		if err := p.audio.LoadAndLoopMusic(beat.Music); err != nil {
			p.log.Warn("music unavailable", zap.String("path", beat.Music), zap.Error(err))
		}
	}

	p.background = p.applyImage(p.background, beat.Background, depthBackground, "background")
	p.character = p.applyImage(p.character, beat.Character, depthCharacter, "character")

	if err := p.loadSpeaker(beat); err != nil {
		return fmt.Errorf("beat %d speaker: %w", index, err)
	}
	if err := p.loadBody(beat); err != nil {
		return fmt.Errorf("beat %d body: %w", index, err)
	}

	p.releaseChoices()

	p.current = index
	p.pending, p.pendingResolved = p.script.Successor(index)
	p.setPhase(PhaseEnteringBeat)
	return nil
}

// applyImage applies a layer delta to slot and returns the new slot. A failed
// image load leaves the layer empty so the story keeps going without the art.
func (p *Player) applyImage(slot *imageSlot, l script.Layer, depth float32, what string) *imageSlot {
	switch l.Op {
	case script.LayerKeep:
		return slot
	case script.LayerClear:
		releaseSlot(slot)
		return nil
	}

	releaseSlot(slot)
	d, err := p.layers.CreateImageLayer(p.opts.Canvas, depth, geom.White, l.Path)
	if err != nil {
		p.log.Warn("image layer unavailable, rendering nothing",
			zap.String("layer", what),
			zap.String("path", l.Path),
			zap.Error(err))
		return nil
	}
	s := &imageSlot{d: d}
	s.setAlpha(0)
	return s
}

func (p *Player) loadSpeaker(beat *script.Beat) error {
	if beat.Speaker == nil {
		releaseLabel(p.name)
		p.name = nil
		return nil
	}
	if p.name != nil && p.name.text == *beat.Speaker {
		// Same speaker: the label was not faded out and stays visible.
		return nil
	}

	releaseLabel(p.name)
	p.name = nil
	l, err := p.newLabel(*beat.Speaker, p.opts.NameAnchor, depthText, 1, p.opts.NameTint, p.opts.NameFont)
	if err != nil {
		return err
	}
	l.setAlpha(0)
	p.name = l
	return nil
}

func (p *Player) loadBody(beat *script.Beat) error {
	releaseLabel(p.body)
	p.body = nil
	if beat.Body == nil {
		return nil
	}

	l, err := p.newLabel(*beat.Body, p.opts.BodyAnchor, depthText, 0, p.opts.BodyTint, p.opts.BodyFont)
	if err != nil {
		return err
	}
	l.setAlpha(1)
	l.reveal = timing.NewReveal(*beat.Body)
	p.body = l
	return nil
}

func (p *Player) newLabel(text string, anchor geom.Point, depth, reveal float32, tint geom.Color, font FontSpec) (*label, error) {
	d, err := p.layers.CreateTextLayer(anchor, depth, text, reveal, tint, font)
	if err != nil {
		return nil, err
	}
	return &label{
		d:      d,
		text:   text,
		bounds: d.Bounds(),
		reveal: timing.Reveal{Ratio: float64(reveal), Glyphs: timing.GlyphCount(text)},
	}, nil
}

func (p *Player) enterBeat(dt float64, instant bool) {
	done := true
	for _, s := range []*imageSlot{p.background, p.character} {
		if s == nil {
			continue
		}
		s.setAlpha(s.fade.In(dt, p.opts.FadeRate, instant))
		done = done && s.fade.Shown()
	}
	if p.name != nil {
		p.name.setAlpha(p.name.fade.In(dt, p.opts.FadeRate, instant))
		done = done && p.name.fade.Shown()
	}
	if p.body != nil {
		r := p.body.reveal.Advance(dt, p.opts.RevealRate, instant)
		p.body.d.SetRevealRatio(float32(r))
		done = done && p.body.reveal.Done()
	}

	if done {
		p.setPhase(PhaseAwaitingAdvance)
	}
}

func (p *Player) advance() {
	p.playConfirm()
	if p.script.Beat(p.current).HasChoices() {
		p.setPhase(PhaseShowingChoices)
		return
	}
	// Successor is always resolved for a beat without choices.
	p.beginExit(p.pending)
}

func (p *Player) pickChoice(at geom.Point) {
	beat := p.script.Beat(p.current)
	for i, l := range p.choices {
		if !l.bounds.Contains(at) {
			continue
		}
		target := beat.Choices[i].Target
		p.log.Debug("choice selected",
			zap.Int("beat", p.current),
			zap.Int("choice", i),
			zap.String("label", beat.Choices[i].Label),
			zap.Int("target", target))
		p.playConfirm()
		p.beginExit(target)
		return
	}
}

// beginExit is the only way into PhaseExitingBeat, so the pending index is
// always resolved while exiting.
func (p *Player) beginExit(target int) {
	p.pending = target
	p.pendingResolved = true

	var next *script.Beat
	if target < p.script.Len() {
		next = p.script.Beat(target)
	}
	// Past the end the next beat is treated as empty: art stays, text goes.
	p.exit = exitPlan{
		background: next != nil && next.Background.Changes(),
		character:  next != nil && next.Character.Changes(),
		name:       p.name != nil && (next == nil || next.Speaker == nil || *next.Speaker != p.name.text),
	}
	p.setPhase(PhaseExitingBeat)
}

func (p *Player) exitBeat(dt float64, instant bool) {
	rate := p.opts.FadeRate
	done := true

	fadeSlot := func(s *imageSlot) {
		if s == nil {
			return
		}
		s.setAlpha(s.fade.Out(dt, rate, instant))
		done = done && s.fade.Hidden()
	}
	fadeLabel := func(l *label) {
		if l == nil {
			return
		}
		l.setAlpha(l.fade.Out(dt, rate, instant))
		done = done && l.fade.Hidden()
	}

	if p.exit.background {
		fadeSlot(p.background)
	}
	if p.exit.character {
		fadeSlot(p.character)
	}
	if p.exit.name {
		fadeLabel(p.name)
	}
	fadeLabel(p.body)
	fadeSlot(p.overlay)
	for _, l := range p.choices {
		fadeLabel(l)
	}

	if done {
		p.setPhase(PhaseLoadingNextBeat)
	}
}

func (p *Player) playConfirm() {
	if p.opts.ConfirmSound == "" {
		return
	}
	if err := p.audio.PlayOneShot(p.opts.ConfirmSound); err != nil {
		p.log.Warn("confirm sound unavailable", zap.String("path", p.opts.ConfirmSound), zap.Error(err))
	}
}

// Draw draws every live layer back to front.
func (p *Player) Draw(projection geom.Mat4) {
	if p.background != nil {
		p.background.d.Draw(projection)
	}
	if p.character != nil {
		p.character.d.Draw(projection)
	}
	if p.body != nil {
		frame := p.frameNoName
		if p.name != nil {
			frame = p.frame
		}
		if frame != nil {
			frame.Draw(projection)
		}
	}
	if p.name != nil {
		p.name.d.Draw(projection)
	}
	if p.body != nil {
		p.body.d.Draw(projection)
	}
	if p.overlay != nil && !p.overlay.fade.Hidden() {
		p.overlay.d.Draw(projection)
	}
	for _, l := range p.choices {
		l.d.Draw(projection)
	}
}

// Close releases every drawable the player owns.
func (p *Player) Close() {
	releaseSlot(p.background)
	releaseSlot(p.character)
	releaseLabel(p.name)
	releaseLabel(p.body)
	p.releaseChoices()
	releaseSlot(p.overlay)
	if p.frame != nil {
		p.frame.Release()
	}
	if p.frameNoName != nil {
		p.frameNoName.Release()
	}
	p.background, p.character, p.name, p.body, p.overlay = nil, nil, nil, nil, nil
	p.frame, p.frameNoName = nil, nil
}

func (p *Player) releaseChoices() {
	for _, l := range p.choices {
		releaseLabel(l)
	}
	p.choices = nil
}

func releaseSlot(s *imageSlot) {
	if s != nil {
		s.d.Release()
	}
}

func releaseLabel(l *label) {
	if l != nil {
		l.d.Release()
	}
}
