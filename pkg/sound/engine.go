package sound

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mathevilla/mathevilla/pkg/prefs"
)

// Engine plays feedback cues and the optional background music loop.
//
// Play never blocks the caller and never returns an error: sound is a
// non-critical enhancement, so an unavailable device, a failed start, or a
// synthesis problem all degrade to silence. The engine owns the sound
// flags inside the shared settings object and persists flips through the
// prefs store.
type Engine struct {
	mu          sync.Mutex
	sink        Sink
	sinkStarted bool
	settings    *prefs.Settings
	store       *prefs.Store
	musicDone   chan struct{} // non-nil while the music loop runs

	cueGen   atomic.Uint64 // bumped to halt in-flight cues
	musicGen atomic.Uint64 // bumped to halt the music loop

	wg sync.WaitGroup // in-flight cue goroutines
}

// NewEngine creates an engine writing to sink. The sink is not touched
// until the first audible play request (lazy init). settings and store
// may be shared with the rest of the app; the engine only writes the
// sound flags.
func NewEngine(sink Sink, settings *prefs.Settings, store *prefs.Store) *Engine {
	return &Engine{sink: sink, settings: settings, store: store}
}

// Start begins background music if both flags were persisted on.
// Call once after construction.
func (e *Engine) Start() {
	e.mu.Lock()
	play := e.settings.SoundEnabled && e.settings.MusicEnabled
	e.mu.Unlock()
	if play {
		e.startMusic()
	}
}

// Play schedules the cue for event and returns immediately. No-op when
// sound is disabled or the sink cannot start.
func (e *Engine) Play(event Event) {
	e.mu.Lock()
	enabled := e.settings.SoundEnabled
	e.mu.Unlock()
	if !enabled {
		return
	}

	recipe := RecipeFor(event)
	if len(recipe) == 0 {
		return
	}

	gen := e.cueGen.Load()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Debug("cue playback panic swallowed", "event", event.String(), "panic", r)
			}
		}()
		e.writePCM(Render(recipe), &e.cueGen, gen)
	}()
}

// SoundEnabled reports the current sound-effects flag.
func (e *Engine) SoundEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.SoundEnabled
}

// MusicEnabled reports the current background-music flag. Music is only
// audible while sound is also enabled.
func (e *Engine) MusicEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.MusicEnabled
}

// ToggleSound flips the sound flag, persists it, and returns the new
// value. Disabling halts everything currently audible before returning;
// enabling plays a short confirmation click and resumes music if its flag
// is still set.
func (e *Engine) ToggleSound() bool {
	e.mu.Lock()
	e.settings.SoundEnabled = !e.settings.SoundEnabled
	enabled := e.settings.SoundEnabled
	music := e.settings.MusicEnabled
	e.mu.Unlock()

	e.persist()

	if enabled {
		e.Play(EventClick)
		if music {
			e.startMusic()
		}
	} else {
		e.stopAll()
	}
	return enabled
}

// ToggleMusic flips the music flag, persists it, and returns the new
// value. Has no audible effect while sound is disabled.
func (e *Engine) ToggleMusic() bool {
	e.mu.Lock()
	e.settings.MusicEnabled = !e.settings.MusicEnabled
	music := e.settings.MusicEnabled
	sound := e.settings.SoundEnabled
	e.mu.Unlock()

	e.persist()

	if music && sound {
		e.startMusic()
	} else if !music {
		e.stopMusic()
	}
	return music
}

// Wait blocks until all in-flight cues finish (tests, shutdown).
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops all playback and tears down the sink.
func (e *Engine) Close() {
	e.stopAll()
	e.mu.Lock()
	started := e.sinkStarted
	e.sinkStarted = false
	e.mu.Unlock()
	if started {
		if err := e.sink.Stop(); err != nil {
			slog.Debug("sink stop failed", "err", err)
		}
	}
}

// stopAll halts cues and music and waits until nothing is audible.
func (e *Engine) stopAll() {
	e.cueGen.Add(1)
	e.stopMusic()
	e.wg.Wait()
}

// startMusic launches the loop goroutine if it is not already running.
// The phrase is rendered once and replayed until the generation moves.
func (e *Engine) startMusic() {
	e.mu.Lock()
	if e.musicDone != nil {
		e.mu.Unlock()
		return
	}
	done := make(chan struct{})
	e.musicDone = done
	e.mu.Unlock()

	gen := e.musicGen.Load()
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				slog.Debug("music playback panic swallowed", "panic", r)
			}
		}()
		pcm := Render(MusicPhrase())
		for e.musicGen.Load() == gen {
			e.writePCM(pcm, &e.musicGen, gen)
		}
	}()
}

// stopMusic halts the loop and waits for its last frame to drain, so no
// note remains scheduled after the call returns.
func (e *Engine) stopMusic() {
	e.mu.Lock()
	done := e.musicDone
	e.musicDone = nil
	e.mu.Unlock()

	e.musicGen.Add(1)
	if done != nil {
		<-done
	}
}

// writePCM streams a rendered buffer to the sink frame by frame, bailing
// out as soon as gen moves past the captured value.
func (e *Engine) writePCM(pcm []int16, gen *atomic.Uint64, captured uint64) {
	if !e.ensureSink() {
		return
	}
	frame := make([]int16, FrameSize)
	for off := 0; off < len(pcm); off += FrameSize {
		if gen.Load() != captured {
			return
		}
		n := copy(frame, pcm[off:])
		for i := n; i < FrameSize; i++ {
			frame[i] = 0
		}
		if err := e.sink.WriteFrame(frame); err != nil {
			slog.Debug("frame write failed", "err", err)
			return
		}
	}
}

// ensureSink lazily starts the sink on first use. A failed start silences
// this attempt; the next play retries, which covers devices that appear
// later (or audio contexts that need a user gesture to resume).
func (e *Engine) ensureSink() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sinkStarted {
		return true
	}
	if err := e.sink.Start(SampleRate, FrameSize); err != nil {
		slog.Debug("audio sink unavailable", "err", err)
		return false
	}
	e.sinkStarted = true
	return true
}

// persist writes the current settings through the prefs store.
func (e *Engine) persist() {
	e.mu.Lock()
	snapshot := *e.settings
	e.mu.Unlock()
	if err := e.store.Save(&snapshot); err != nil {
		slog.Warn("persist sound prefs failed", "err", err)
	}
}
