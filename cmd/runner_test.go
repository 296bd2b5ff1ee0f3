package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/nicktu12/list-refresher/internal/models"
	"github.com/nicktu12/list-refresher/internal/shared"
	tu "github.com/nicktu12/list-refresher/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			spotify := tu.NewFakePlaylistService(models.Playlist{ID: "p1"}, nil)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Spotify: spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestRefreshCommand(t *testing.T) {
	newApp := func(runner *Runner) *cli.Command {
		return &cli.Command{
			Name:     "listr",
			Commands: runner.register(),
		}
	}

	t.Run("refreshes a playlist end to end", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester"}
		spotify := tu.NewFakePlaylistService(playlist, tu.SeedTracks(150))
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Spotify: spotify, Output: output})

		err := newApp(runner).Run(context.Background(), []string{"listr", "refresh", "--no-history", "spotify:playlist:plist1"})
		if err != nil {
			t.Fatalf("refresh command failed: %v", err)
		}

		if len(spotify.RemoveCalls) != 2 || len(spotify.AddCalls) != 2 {
			t.Errorf("mutation calls = %d remove, %d add, want 2 each", len(spotify.RemoveCalls), len(spotify.AddCalls))
		}
		if !strings.Contains(output.String(), "Refresh Complete!") {
			t.Errorf("output missing completion banner: %s", output.String())
		}
	})

	t.Run("dry run mutates nothing", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester"}
		spotify := tu.NewFakePlaylistService(playlist, tu.SeedTracks(5))
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Spotify: spotify, Output: output})

		err := newApp(runner).Run(context.Background(), []string{"listr", "refresh", "--dry-run", "spotify:playlist:plist1"})
		if err != nil {
			t.Fatalf("refresh command failed: %v", err)
		}

		if len(spotify.RemoveCalls) != 0 || len(spotify.AddCalls) != 0 {
			t.Errorf("dry run issued mutations: %d remove, %d add", len(spotify.RemoveCalls), len(spotify.AddCalls))
		}
		if !strings.Contains(output.String(), "Dry Run Complete") {
			t.Errorf("output missing dry run banner: %s", output.String())
		}
	})

	t.Run("missing reference fails", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Spotify: tu.NewFakePlaylistService(models.Playlist{ID: "p1"}, nil),
			Output:  &bytes.Buffer{},
		})

		err := newApp(runner).Run(context.Background(), []string{"listr", "refresh", "--no-history"})
		if err == nil {
			t.Fatal("expected error without a reference")
		}
	})

	t.Run("empty playlist reports nothing to do", func(t *testing.T) {
		playlist := models.Playlist{ID: "plist1", Name: "Daily Mix", Owner: "tester"}
		spotify := tu.NewFakePlaylistService(playlist, nil)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Spotify: spotify, Output: output})

		err := newApp(runner).Run(context.Background(), []string{"listr", "refresh", "--no-history", "spotify:playlist:plist1"})
		if err != nil {
			t.Fatalf("refresh command failed: %v", err)
		}

		if !strings.Contains(output.String(), "nothing to do") {
			t.Errorf("output missing nothing-to-do notice: %s", output.String())
		}
	})
}
