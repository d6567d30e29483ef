package sound_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mathevilla/mathevilla/pkg/prefs"
	"github.com/mathevilla/mathevilla/pkg/sound"
)

func newTestEngine(t *testing.T, settings *prefs.Settings) (*sound.Engine, *sound.NullSink, *prefs.Store) {
	t.Helper()
	sink := sound.NewNullSink()
	store := prefs.NewStoreAt(filepath.Join(t.TempDir(), "prefs.yaml"))
	if settings == nil {
		settings = prefs.Default()
	}
	engine := sound.NewEngine(sink, settings, store)
	t.Cleanup(engine.Close)
	return engine, sink, store
}

func TestPlayWritesFrames(t *testing.T) {
	t.Parallel()

	engine, sink, _ := newTestEngine(t, nil)
	engine.Play(sound.EventClick)
	engine.Wait()

	if sink.FrameCount() == 0 {
		t.Fatal("expected frames written for click")
	}
	if !sink.Started() {
		t.Fatal("sink must be started lazily on first play")
	}
}

func TestPlayDisabledIsSilentNoop(t *testing.T) {
	t.Parallel()

	settings := prefs.Default()
	settings.SoundEnabled = false
	engine, sink, _ := newTestEngine(t, settings)

	engine.Play(sound.EventClick)
	engine.Wait()

	if sink.FrameCount() != 0 {
		t.Fatalf("disabled engine wrote %d frames", sink.FrameCount())
	}
	if sink.Started() {
		t.Fatal("disabled engine must not touch the sink")
	}
}

func TestPlaySinkFailureDegradesSilently(t *testing.T) {
	t.Parallel()

	engine, sink, _ := newTestEngine(t, nil)
	sink.StartErr = errors.New("no output device")

	engine.Play(sound.EventSuccess) // must not panic or propagate
	engine.Wait()

	if sink.FrameCount() != 0 {
		t.Fatal("failed sink must not receive frames")
	}
}

func TestToggleSoundPersists(t *testing.T) {
	t.Parallel()

	engine, _, store := newTestEngine(t, nil)

	if got := engine.ToggleSound(); got {
		t.Fatal("toggle from enabled must disable")
	}
	if store.Load().SoundEnabled {
		t.Fatal("disabled flag must survive a fresh load")
	}

	if got := engine.ToggleSound(); !got {
		t.Fatal("second toggle must re-enable")
	}
	engine.Wait() // confirmation click
	if !store.Load().SoundEnabled {
		t.Fatal("enabled flag must survive a fresh load")
	}
}

func TestToggleSoundOnPlaysConfirmationClick(t *testing.T) {
	t.Parallel()

	settings := prefs.Default()
	settings.SoundEnabled = false
	engine, sink, _ := newTestEngine(t, settings)

	engine.ToggleSound()
	engine.Wait()
	if sink.FrameCount() == 0 {
		t.Fatal("enabling sound should play a confirmation click")
	}
}

func TestMusicLoopRunsAndStops(t *testing.T) {
	t.Parallel()

	engine, sink, store := newTestEngine(t, nil)

	if got := engine.ToggleMusic(); !got {
		t.Fatal("toggle must enable music")
	}
	if !store.Load().MusicEnabled {
		t.Fatal("music flag must persist")
	}

	waitFor(t, func() bool { return sink.FrameCount() > 0 })

	if got := engine.ToggleMusic(); got {
		t.Fatal("toggle must disable music")
	}

	// Nothing stays scheduled after the toggle returns.
	count := sink.FrameCount()
	time.Sleep(20 * time.Millisecond)
	if sink.FrameCount() != count {
		t.Fatalf("music still playing after stop: %d -> %d frames", count, sink.FrameCount())
	}
}

func TestDisablingSoundStopsMusicImmediately(t *testing.T) {
	t.Parallel()

	settings := prefs.Default()
	settings.MusicEnabled = true
	engine, sink, store := newTestEngine(t, settings)
	engine.Start()

	waitFor(t, func() bool { return sink.FrameCount() > 0 })

	engine.ToggleSound() // off

	count := sink.FrameCount()
	time.Sleep(20 * time.Millisecond)
	if sink.FrameCount() != count {
		t.Fatalf("audio still playing after sound disabled: %d -> %d frames", count, sink.FrameCount())
	}

	loaded := store.Load()
	if loaded.SoundEnabled {
		t.Fatal("sound=false must be persisted")
	}
	if !loaded.MusicEnabled {
		t.Fatal("music flag must survive a sound toggle so it resumes later")
	}
}

func TestMusicNotAudibleWhileSoundDisabled(t *testing.T) {
	t.Parallel()

	settings := prefs.Default()
	settings.SoundEnabled = false
	engine, sink, _ := newTestEngine(t, settings)

	engine.ToggleMusic() // flag on, but sound is off
	time.Sleep(20 * time.Millisecond)
	if sink.FrameCount() != 0 {
		t.Fatal("music must stay silent while sound is disabled")
	}
	if !engine.MusicEnabled() {
		t.Fatal("music flag itself must still flip")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
