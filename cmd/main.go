package main

import (
	"context"
	"errors"
	"os"

	"github.com/nicktu12/list-refresher/internal/services"
	"github.com/nicktu12/list-refresher/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func main() {
	logger := shared.NewLogger(nil)

	var spotifyService services.PlaylistService

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
				if err := config.Credentials.Spotify.Update(token); err != nil {
					return
				}
				if err := shared.SaveConfig(configPath, config); err != nil {
					logger.Warnf("failed to persist refreshed token: %v", err)
				}
			})
			if token := config.Credentials.Spotify.Token(); token != nil {
				if err := svc.OAuthenticate(context.Background(), token); err != nil {
					logger.Warnf("failed to install cached token: %v", err)
				}
			}
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "listr",
		Usage:    "Refresh Spotify playlists by removing and re-adding every track",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrUnresolvableReference) {
			logger.Fatalf("could not resolve playlist reference: %v", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
