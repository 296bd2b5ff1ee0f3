package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestLoadConfig(t *testing.T) {
	t.Run("parses a full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
redirect_uri = "http://localhost:8888/callback"

[database]
path = "test.db"
max_open_conns = 3
max_idle_conns = 1

[server]
host = "localhost"
port = 8888

[refresh]
rate_limit = 2.5
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() unexpected error: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("ClientID = %q, want %q", config.Credentials.Spotify.ClientID, "abc")
		}
		if config.Database.Path != "test.db" {
			t.Errorf("Database.Path = %q, want %q", config.Database.Path, "test.db")
		}
		if config.Server.Port != 8888 {
			t.Errorf("Server.Port = %d, want 8888", config.Server.Port)
		}
		if config.Refresh.RateLimit != 2.5 {
			t.Errorf("Refresh.RateLimit = %v, want 2.5", config.Refresh.RateLimit)
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for invalid toml")
		}
	})
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config := DefaultConfig()
	config.Credentials.Spotify.ClientID = "abc"
	config.Credentials.Spotify.AccessToken = "tok"

	if err := SaveConfig(path, config); err != nil {
		t.Fatalf("SaveConfig() unexpected error: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	if loaded.Credentials.Spotify.ClientID != "abc" {
		t.Errorf("ClientID = %q, want %q", loaded.Credentials.Spotify.ClientID, "abc")
	}
	if loaded.Credentials.Spotify.AccessToken != "tok" {
		t.Errorf("AccessToken = %q, want %q", loaded.Credentials.Spotify.AccessToken, "tok")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Credentials.Spotify.RedirectURI != "http://localhost:8888/callback" {
		t.Errorf("RedirectURI = %q", config.Credentials.Spotify.RedirectURI)
	}
	if config.Database.Path != "refresher.db" {
		t.Errorf("Database.Path = %q", config.Database.Path)
	}
	if config.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", config.Server.Port)
	}
	if config.Refresh.RateLimit != 5.0 {
		t.Errorf("Refresh.RateLimit = %v, want 5.0", config.Refresh.RateLimit)
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile() unexpected error: %v", err)
	}

	if _, err := LoadConfig(path); err != nil {
		t.Errorf("created config does not parse: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestSpotifyConfig(t *testing.T) {
	t.Run("Map", func(t *testing.T) {
		cfg := SpotifyConfig{
			ClientID:     "id",
			ClientSecret: "secret",
			RedirectURI:  "uri",
			AccessToken:  "at",
			RefreshToken: "rt",
		}

		m := cfg.Map()
		if m["client_id"] != "id" || m["client_secret"] != "secret" {
			t.Errorf("unexpected credentials map: %v", m)
		}
		if m["access_token"] != "at" || m["refresh_token"] != "rt" {
			t.Errorf("unexpected token map entries: %v", m)
		}
	})

	t.Run("Token", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour)
		cfg := SpotifyConfig{AccessToken: "at", RefreshToken: "rt", TokenExpiry: expiry}

		token := cfg.Token()
		if token == nil {
			t.Fatal("expected token")
		}
		if token.AccessToken != "at" || token.RefreshToken != "rt" {
			t.Errorf("unexpected token: %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("Expiry = %v, want %v", token.Expiry, expiry)
		}

		empty := SpotifyConfig{}
		if empty.Token() != nil {
			t.Error("expected nil token when no access token is stored")
		}
	})

	t.Run("Update", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "old"}

		err := cfg.Update(&oauth2.Token{AccessToken: "new-at", Expiry: time.Now()})
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		if cfg.AccessToken != "new-at" {
			t.Errorf("AccessToken = %q, want %q", cfg.AccessToken, "new-at")
		}
		if cfg.RefreshToken != "old" {
			t.Error("missing refresh token should not clear the stored one")
		}

		err = cfg.Update(&oauth2.Token{AccessToken: "newer", RefreshToken: "fresh"})
		if err != nil {
			t.Fatalf("Update() unexpected error: %v", err)
		}
		if cfg.RefreshToken != "fresh" {
			t.Errorf("RefreshToken = %q, want %q", cfg.RefreshToken, "fresh")
		}

		if err := cfg.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})
}
