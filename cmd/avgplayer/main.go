// Package main is the entry point for the AVG player.
package main

import (
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/avg-player/internal/config"
	"github.com/Faultbox/avg-player/internal/game"
	"github.com/Faultbox/avg-player/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fatal("Config error", err)
	}

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			fatal("Could not save config", err)
		}
		fmt.Printf("config written to %s\n", path)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging); err != nil {
		fatal("Logger error", err)
	}
	defer logger.Sync()

	logger.Info("=== AVG Player ===", zap.String("config", cfg.Source()))
	logger.Sugar.Debugf("Config: %+v", cfg)

	story, err := demoStory()
	if err != nil {
		logger.Error("invalid story", zap.Error(err))
		fatal("Invalid story", err)
	}

	g, err := game.New(cfg, story)
	if err != nil {
		logger.Error("failed to create player", zap.Error(err))
		fatal("Could not start the player", err)
	}

	// Run the main loop
	runErr := g.Run()
	g.Close()
	if runErr != nil {
		logger.Error("player error", zap.Error(runErr))
		fatal("Playback stopped", runErr)
	}

	logger.Info("player closed normally")
}

// fatal reports err on stderr and in a message box, then exits.
func fatal(what string, err error) {
	msg := fmt.Sprintf("%s: %v", what, err)
	fmt.Fprintln(os.Stderr, msg)
	dialog.Message("%s", msg).Title(game.Title).Error()
	logger.Sync()
	os.Exit(1)
}
