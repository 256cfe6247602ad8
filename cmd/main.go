package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/muse/internal/services"
	"github.com/desertthunder/muse/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var searchers []services.Searcher
	var resolver services.LinkResolver
	var interpreter services.Interpreter

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(map[string]string{
			"client_id":     config.Credentials.Spotify.ClientID,
			"client_secret": config.Credentials.Spotify.ClientSecret,
			"market":        config.Credentials.Spotify.Market,
		}); err == nil {
			if err := svc.Authenticate(context.Background(), nil); err != nil {
				logger.Warn("spotify authentication failed", "error", err)
			} else {
				searchers = append(searchers, svc)
			}
		}
	}

	if config.Credentials.YouTube.APIKey != "" {
		youtube := services.NewYouTubeService("")
		if err := youtube.Authenticate(context.Background(), map[string]string{
			"api_key": config.Credentials.YouTube.APIKey,
		}); err == nil {
			searchers = append(searchers, youtube)
			resolver = youtube
		}
	}

	if config.Credentials.Gemini.APIKey != "" {
		interpreter = services.NewGeminiService(config.Credentials.Gemini.APIKey, config.Credentials.Gemini.Model)
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Interpreter: interpreter,
		Fallback:    services.NewKeywordInterpreter(),
		Searchers:   searchers,
		Resolver:    resolver,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "muse",
		Usage:    "Mood-based song recommendations from Spotify & YouTube",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
