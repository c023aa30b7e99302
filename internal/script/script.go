// Package script holds the beat list played by the dialogue player and
// validates it before playback starts.
package script

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyScript is returned for a script without beats.
	ErrEmptyScript = errors.New("script: no beats")
	// ErrTargetOutOfRange is returned when a branch target or explicit next
	// index falls outside [0, len(script)].
	ErrTargetOutOfRange = errors.New("script: branch target out of range")
	// ErrEmptyChoiceLabel is returned for a choice without a label.
	ErrEmptyChoiceLabel = errors.New("script: choice has no label")
	// ErrEmptyLayerPath is returned for a Set layer without an image path.
	ErrEmptyLayerPath = errors.New("script: layer set without a path")
)

// Choice is one selectable answer. Target is the beat index to jump to;
// len(script) ends playback.
type Choice struct {
	Label  string
	Target int
}

// Beat is one script step.
type Beat struct {
	Music      string // background music to loop, "" for no request
	Background Layer
	Character  Layer   // center character image
	Speaker    *string // nil when no name is shown
	Body       *string // nil when no dialogue box is shown
	Choices    []Choice
	Next       *int // explicit successor, ignored when Choices is set
}

// HasChoices reports whether the beat branches on player selection.
func (b *Beat) HasChoices() bool { return len(b.Choices) > 0 }

// SpeakerName returns the speaker or "" when absent.
func (b *Beat) SpeakerName() string {
	if b.Speaker == nil {
		return ""
	}
	return *b.Speaker
}

// BodyText returns the body or "" when absent.
func (b *Beat) BodyText() string {
	if b.Body == nil {
		return ""
	}
	return *b.Body
}

// Text returns a pointer to s, for filling the optional Beat fields.
func Text(s string) *string { return &s }

// Index returns a pointer to i, for Beat.Next.
func Index(i int) *int { return &i }

// Script is a validated, read-only beat list.
type Script struct {
	beats []Beat
}

// New validates beats and returns a Script. The beats are deep-copied, so
// later changes by the caller do not reach the script.
func New(beats []Beat) (*Script, error) {
	if len(beats) == 0 {
		return nil, ErrEmptyScript
	}

	end := len(beats)
	for i := range beats {
		b := &beats[i]
		for j, c := range b.Choices {
			if c.Label == "" {
				return nil, fmt.Errorf("%w: beat %d choice %d", ErrEmptyChoiceLabel, i, j)
			}
			if c.Target < 0 || c.Target > end {
				return nil, fmt.Errorf("%w: beat %d choice %d targets %d (script has %d beats)",
					ErrTargetOutOfRange, i, j, c.Target, end)
			}
		}
		if b.Next != nil && (*b.Next < 0 || *b.Next > end) {
			return nil, fmt.Errorf("%w: beat %d next is %d (script has %d beats)",
				ErrTargetOutOfRange, i, *b.Next, end)
		}
		if b.Background.Op == LayerSet && b.Background.Path == "" {
			return nil, fmt.Errorf("%w: beat %d background", ErrEmptyLayerPath, i)
		}
		if b.Character.Op == LayerSet && b.Character.Path == "" {
			return nil, fmt.Errorf("%w: beat %d character", ErrEmptyLayerPath, i)
		}
	}

	s := &Script{beats: make([]Beat, len(beats))}
	for i, b := range beats {
		b.Speaker = clonePtr(b.Speaker)
		b.Body = clonePtr(b.Body)
		b.Next = clonePtr(b.Next)
		b.Choices = slices.Clone(b.Choices)
		s.beats[i] = b
	}
	return s, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Len returns the number of beats.
func (s *Script) Len() int { return len(s.beats) }

// Beat returns the beat at index i. It panics when i is out of range, which
// validation rules out for every index the player can reach.
func (s *Script) Beat(i int) *Beat { return &s.beats[i] }

// Successor returns the default next index for beat i. resolved is false
// when the beat has choices and the player decides.
func (s *Script) Successor(i int) (next int, resolved bool) {
	b := &s.beats[i]
	if b.HasChoices() {
		return 0, false
	}
	if b.Next != nil {
		return *b.Next, true
	}
	return i + 1, true
}

// AssetPaths lists every file the script references, in first-use order
// and without duplicates.
func (s *Script) AssetPaths() []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}
	for i := range s.beats {
		b := &s.beats[i]
		add(b.Music)
		add(b.Background.Path)
		add(b.Character.Path)
	}
	return paths
}
