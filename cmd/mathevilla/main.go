package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mathevilla/mathevilla/pkg/api"
	"github.com/mathevilla/mathevilla/pkg/logging"
	"github.com/mathevilla/mathevilla/pkg/prefs"
	"github.com/mathevilla/mathevilla/pkg/session"
	"github.com/mathevilla/mathevilla/pkg/sound"
	"github.com/mathevilla/mathevilla/pkg/store"
	"github.com/mathevilla/mathevilla/ui"
)

func main() {
	prefsStore := prefs.NewStore()
	settings := prefsStore.Load()

	// Environment variables win over the prefs file; both default to info/text.
	level := settings.LogLevel
	if level == "" {
		level = "info"
	}
	_ = logging.Setup(logging.FromEnv(level))

	apiClient := api.NewClient(settings.ServerURL)
	sessionManager := session.NewManager(apiClient, session.NewFileStore())

	cache, err := store.New(cachePath())
	if err != nil {
		// The app works without the cache; recent activity and offline
		// practice just stay empty.
		slog.Warn("local cache unavailable", "err", err)
		cache = nil
	}
	var cacheStore store.CacheStore
	if cache != nil {
		cacheStore = cache
		defer func() { _ = cache.Close() }()
	} else {
		cacheStore = store.NewMemory()
	}

	engine := sound.NewEngine(sound.NewPortAudioSink(), settings, prefsStore)

	app := ui.NewApp(sessionManager, apiClient, engine, cacheStore)
	app.Run()
}

func cachePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "cache.db"
	}
	return filepath.Join(filepath.Dir(exe), "cache.db")
}
