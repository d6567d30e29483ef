package sound_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mathevilla/mathevilla/pkg/sound"
)

func TestRecipesAreDeterministic(t *testing.T) {
	t.Parallel()

	events := []sound.Event{
		sound.EventSuccess, sound.EventError, sound.EventLevelUp,
		sound.EventBadge, sound.EventChallengeComplete, sound.EventClick,
	}
	for _, ev := range events {
		if diff := cmp.Diff(sound.RecipeFor(ev), sound.RecipeFor(ev)); diff != "" {
			t.Errorf("%s recipe not deterministic (-first +second):\n%s", ev, diff)
		}
		if len(sound.RecipeFor(ev)) == 0 {
			t.Errorf("%s has an empty recipe", ev)
		}
	}
}

func TestSuccessIsAscendingDoubleDing(t *testing.T) {
	t.Parallel()

	r := sound.RecipeFor(sound.EventSuccess)
	if len(r) != 2 {
		t.Fatalf("want 2 notes, got %d", len(r))
	}
	if r[1].Freq <= r[0].Freq {
		t.Fatalf("second ding must be brighter: %v then %v", r[0].Freq, r[1].Freq)
	}
	if r[1].Start <= r[0].Start {
		t.Fatal("notes must be sequential")
	}
}

func TestErrorIsDescendingGlide(t *testing.T) {
	t.Parallel()

	r := sound.RecipeFor(sound.EventError)
	if len(r) != 1 {
		t.Fatalf("want 1 note, got %d", len(r))
	}
	n := r[0]
	if n.EndFreq == 0 || n.EndFreq >= n.Freq {
		t.Fatalf("error cue must glide downward: %v -> %v", n.Freq, n.EndFreq)
	}
}

func TestFanfaresAscend(t *testing.T) {
	t.Parallel()

	for _, ev := range []sound.Event{sound.EventLevelUp, sound.EventChallengeComplete, sound.EventBadge} {
		r := sound.RecipeFor(ev)
		if len(r) != 4 {
			t.Fatalf("%s: want 4 notes, got %d", ev, len(r))
		}
		for i := 1; i < len(r); i++ {
			if r[i].Freq <= r[i-1].Freq {
				t.Errorf("%s: note %d does not ascend (%v after %v)", ev, i, r[i].Freq, r[i-1].Freq)
			}
			if r[i].Start <= r[i-1].Start {
				t.Errorf("%s: note %d does not start later", ev, i)
			}
		}
	}
}

func TestLevelUpHoldsFinalNote(t *testing.T) {
	t.Parallel()

	r := sound.RecipeFor(sound.EventLevelUp)
	last := r[len(r)-1]
	for _, n := range r[:len(r)-1] {
		if last.Duration <= n.Duration {
			t.Fatalf("final note must be held longest: %v vs %v", last.Duration, n.Duration)
		}
	}
}

func TestClickIsVeryShort(t *testing.T) {
	t.Parallel()

	r := sound.RecipeFor(sound.EventClick)
	if len(r) != 1 {
		t.Fatalf("want 1 note, got %d", len(r))
	}
	if d := r.Duration(); d > 50*time.Millisecond {
		t.Fatalf("click must stay under 50ms, got %v", d)
	}
}

func TestRecipeDuration(t *testing.T) {
	t.Parallel()

	r := sound.Recipe{
		{Freq: 440, Start: 0, Duration: 100 * time.Millisecond, Peak: 0.2},
		{Freq: 550, Start: 50 * time.Millisecond, Duration: 200 * time.Millisecond, Peak: 0.2},
	}
	if got := r.Duration(); got != 250*time.Millisecond {
		t.Fatalf("want 250ms, got %v", got)
	}
	if got := (sound.Recipe{}).Duration(); got != 0 {
		t.Fatalf("empty recipe must have zero duration, got %v", got)
	}
}

func TestMusicPhraseLoopsCleanly(t *testing.T) {
	t.Parallel()

	phrase := sound.MusicPhrase()
	if len(phrase) == 0 {
		t.Fatal("music phrase must not be empty")
	}
	// Notes tile the phrase back to back so the loop has no gap.
	for i := 1; i < len(phrase); i++ {
		if phrase[i].Start != phrase[i-1].End() {
			t.Fatalf("note %d leaves a gap: starts %v, previous ends %v", i, phrase[i].Start, phrase[i-1].End())
		}
	}
	// Ambient accompaniment stays far below cue volume.
	for _, n := range phrase {
		if n.Peak > 0.1 {
			t.Fatalf("music peak %v too loud for background", n.Peak)
		}
	}
}
