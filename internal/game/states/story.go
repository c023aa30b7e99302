package states

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/script"
	"github.com/Faultbox/avg-player/pkg/geom"
)

// StoryState plays a script with a dialogue player. The player is created on
// Enter and released on Exit.
type StoryState struct {
	story *script.Script
	deps  dialogue.Deps
	opts  dialogue.Options
	log   *zap.Logger

	player   *dialogue.Player
	reported bool
}

// NewStoryState creates the playback state for story.
func NewStoryState(story *script.Script, deps dialogue.Deps, opts dialogue.Options) *StoryState {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &StoryState{story: story, deps: deps, opts: opts, log: log}
}

// Enter is called when entering this state.
func (s *StoryState) Enter() error {
	p, err := dialogue.New(s.story, s.deps, s.opts)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	s.player = p
	s.reported = false
	s.log.Info("story started", zap.Int("beats", s.story.Len()))
	return nil
}

// Exit is called when leaving this state.
func (s *StoryState) Exit() error {
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	return nil
}

// Update advances the player.
func (s *StoryState) Update(dt float64, act *geom.Point) error {
	if s.player == nil {
		return nil
	}
	if err := s.player.Update(dt, act); err != nil {
		return err
	}
	if s.player.Finished() && !s.reported {
		s.reported = true
		s.log.Info("story finished")
	}
	return nil
}

// Render draws the player's layers.
func (s *StoryState) Render(projection geom.Mat4) error {
	if s.player != nil {
		s.player.Draw(projection)
	}
	return nil
}

// Player returns the active player, nil outside the state.
func (s *StoryState) Player() *dialogue.Player {
	return s.player
}
