package states

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/pkg/geom"
)

// Loader reads asset bytes by path.
type Loader interface {
	Load(name string) ([]byte, error)
}

// PreloadConfig contains configuration for the preload state.
type PreloadConfig struct {
	Paths    []string
	PerFrame int // files read per frame, at least 1
}

// PreloadState reads every asset the story references before playback so
// the first beats do not stall on disk. Missing files are only logged; the
// player degrades when it meets them.
type PreloadState struct {
	config  PreloadConfig
	loader  Loader
	manager *Manager
	next    State
	log     *zap.Logger

	// Loading progress
	Progress float32 // 0.0 to 1.0
	Loaded   int
	Failed   int

	cursor    int
	startTime time.Time
}

// NewPreloadState creates a preload state that switches to next when done.
func NewPreloadState(cfg PreloadConfig, loader Loader, manager *Manager, next State, log *zap.Logger) *PreloadState {
	if cfg.PerFrame < 1 {
		cfg.PerFrame = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PreloadState{
		config:  cfg,
		loader:  loader,
		manager: manager,
		next:    next,
		log:     log,
	}
}

// Enter is called when entering this state.
func (s *PreloadState) Enter() error {
	s.startTime = time.Now()
	s.cursor = 0
	s.Loaded = 0
	s.Failed = 0
	s.Progress = 0

	s.log.Info("preloading assets", zap.Int("count", len(s.config.Paths)))
	return nil
}

// Exit is called when leaving this state.
func (s *PreloadState) Exit() error {
	return nil
}

// Update reads the next batch of files and schedules the story once all
// are read. Input is ignored while preloading.
func (s *PreloadState) Update(dt float64, act *geom.Point) error {
	paths := s.config.Paths
	for n := 0; n < s.config.PerFrame && s.cursor < len(paths); n++ {
		path := paths[s.cursor]
		s.cursor++
		if _, err := s.loader.Load(path); err != nil {
			s.Failed++
			s.log.Warn("preload failed", zap.String("path", path), zap.Error(err))
			continue
		}
		s.Loaded++
	}

	if len(paths) == 0 {
		s.Progress = 1
	} else {
		s.Progress = float32(s.cursor) / float32(len(paths))
	}

	if s.IsComplete() && s.next != nil {
		s.log.Info("preload complete",
			zap.Int("loaded", s.Loaded),
			zap.Int("failed", s.Failed),
			zap.Duration("took", time.Since(s.startTime)),
		)
		s.manager.Change(s.next)
		s.next = nil
	}
	return nil
}

// IsComplete reports whether every path has been read.
func (s *PreloadState) IsComplete() bool {
	return s.cursor >= len(s.config.Paths)
}

// Render draws nothing; the frame shows only the clear color.
func (s *PreloadState) Render(projection geom.Mat4) error {
	return nil
}
