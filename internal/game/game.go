// Package game implements the main loop hosting the dialogue player.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/internal/assets"
	"github.com/Faultbox/avg-player/internal/config"
	"github.com/Faultbox/avg-player/internal/dialogue"
	"github.com/Faultbox/avg-player/internal/engine/audio"
	"github.com/Faultbox/avg-player/internal/engine/debug"
	"github.com/Faultbox/avg-player/internal/engine/input"
	"github.com/Faultbox/avg-player/internal/engine/render"
	"github.com/Faultbox/avg-player/internal/engine/window"
	"github.com/Faultbox/avg-player/internal/game/states"
	"github.com/Faultbox/avg-player/internal/logger"
	"github.com/Faultbox/avg-player/internal/script"
)

// Title is the window title.
const Title = "AVG Player"

// preloadPerFrame is how many files the preload state reads per frame.
const preloadPerFrame = 4

// Game is the main player instance.
type Game struct {
	config  *config.Config
	running bool
	log     *zap.Logger

	assets   *assets.Manager
	window   *window.Window
	renderer *render.Renderer
	audio    *audio.Manager
	input    *input.Input
	mapper   *input.CanvasMapper
	states   *states.Manager
	story    *states.StoryState
	shots    *debug.Screenshots
}

// New creates the window, renderer and audio and schedules story for
// playback.
func New(cfg *config.Config, story *script.Script) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing player",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("beats", story.Len()),
	)

	g := &Game{
		config: cfg,
		log:    log,
		assets: assets.NewManager(),
		input:  input.New(),
		states: states.NewManager(),
		shots:  debug.NewScreenshots(cfg.Graphics.ScreenshotDir, "avg"),
	}

	for _, root := range cfg.Data.AssetRoots {
		if err := g.assets.AddRoot(root); err != nil {
			log.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}
	if len(g.assets.Roots()) == 0 {
		return nil, errors.New("no usable asset root")
	}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	canvas := canvasRect(cfg.Graphics)
	g.renderer, err = render.New(g.assets, render.Options{
		Canvas:     canvas,
		ClearColor: clearColor(cfg.Graphics.ClearColor),
	}, logger.Named("render"))
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	g.renderer.Resize(g.window.DrawableSize())

	g.audio = audio.New(g.assets, audioOptions(cfg.Audio), logger.Named("audio"))
	if err := g.audio.Init(); err != nil {
		// Playback goes on without sound.
		log.Warn("audio unavailable", zap.Error(err))
	}

	w, h := g.window.GetSize()
	g.mapper = input.NewCanvasMapper(canvas, w, h)

	opts := playbackOptions(cfg)
	if err := dialogue.CheckFonts(g.renderer, opts); err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to load fonts: %w", err)
	}

	g.story = states.NewStoryState(story, dialogue.Deps{
		Layers: g.renderer,
		Audio:  g.audio,
		Log:    logger.Named("dialogue"),
	}, opts)

	g.states.Change(states.NewPreloadState(states.PreloadConfig{
		Paths:    preloadPaths(cfg, story),
		PerFrame: preloadPerFrame,
	}, g.assets, g.states, g.story, logger.Named("preload")))

	log.Info("player initialized successfully")
	return g, nil
}

// preloadPaths lists the story's files followed by the dialogue box assets.
func preloadPaths(cfg *config.Config, story *script.Script) []string {
	paths := story.AssetPaths()
	p := cfg.Playback
	for _, extra := range []string{p.FontPath, p.FrameImage, p.FrameNoNameImage, p.ConfirmSound} {
		if extra != "" {
			paths = append(paths, extra)
		}
	}
	return paths
}

// Run starts the main loop. It returns when the window is closed, Escape is
// pressed or the player reports a fatal error.
func (g *Game) Run() error {
	g.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	g.log.Info("starting main loop")

	for g.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}

		events := g.input.Events()
		capture := false
		for _, event := range events {
			switch event.Type {
			case input.EventWindowResize:
				g.renderer.Resize(g.window.DrawableSize())
				g.mapper.Resize(g.window.GetSize())
			case input.EventKeyDown:
				switch event.Key {
				case sdl.SCANCODE_ESCAPE:
					g.running = false
				case sdl.SCANCODE_F12:
					capture = true
				}
			}
		}
		if !g.running {
			break
		}

		act := input.Activation(events, g.mapper)
		if act != nil {
			if err := g.audio.Unlock(); err != nil {
				g.log.Warn("deferred music failed", zap.Error(err))
			}
		}

		// 2. Update state
		if err := g.states.Update(dt, act); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		g.renderer.Begin()
		if err := g.states.Render(g.renderer.Projection()); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if capture {
			g.captureScreenshot()
		}

		// 4. Present (swap buffers)
		g.window.SwapBuffers()

		if frameBudget > 0 {
			if spent := time.Since(frameStart); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if g.config.Graphics.ShowFPS {
				g.window.SetTitle(fmt.Sprintf("%s (%d fps)", Title, frameCount))
			}
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// captureScreenshot saves the frame drawn so far.
func (g *Game) captureScreenshot() {
	width, height := g.window.DrawableSize()
	name, err := g.shots.Save(g.renderer.ReadPixels(width, height), width, height)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", name))
}

// Close cleans up player resources.
func (g *Game) Close() {
	g.log.Info("closing player")

	if err := g.states.Close(); err != nil {
		g.log.Warn("state exit failed", zap.Error(err))
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	if g.assets != nil {
		hits, misses := g.assets.Cache().Stats()
		g.log.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		g.assets.Close()
	}
}
