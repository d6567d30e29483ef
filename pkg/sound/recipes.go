// Package sound synthesizes the client's audio feedback cues.
//
// No audio assets ship with the binary: every cue is rendered from a fixed
// oscillator/envelope recipe. Recipes are pure data so frequencies,
// ordering, and durations can be tested without an output device.
package sound

import "time"

// Event identifies a feedback cue.
type Event int

const (
	EventSuccess Event = iota
	EventError
	EventLevelUp
	EventBadge
	EventChallengeComplete
	EventClick
)

func (e Event) String() string {
	switch e {
	case EventSuccess:
		return "success"
	case EventError:
		return "error"
	case EventLevelUp:
		return "levelUp"
	case EventBadge:
		return "badge"
	case EventChallengeComplete:
		return "challengeComplete"
	case EventClick:
		return "click"
	default:
		return "unknown"
	}
}

// Wave selects the oscillator shape.
type Wave int

const (
	WaveSine     Wave = iota
	WaveTriangle      // softer than sine, used for the celebratory cues
)

// Note is one oscillator voice within a cue: a (possibly gliding) pitch
// with a linear-attack, exponential-decay envelope.
type Note struct {
	Freq     float64       // starting frequency in Hz
	EndFreq  float64       // 0 = constant pitch, otherwise linear glide target
	Start    time.Duration // offset from the cue start
	Duration time.Duration
	Wave     Wave
	Peak     float64       // envelope peak gain, 0..1
	Attack   time.Duration // linear ramp 0→Peak; 0 = start at Peak
}

// End returns the offset at which the note falls silent.
func (n Note) End() time.Duration {
	return n.Start + n.Duration
}

// Recipe is the full note list for one cue. Notes may overlap.
type Recipe []Note

// Duration returns the total length of the cue.
func (r Recipe) Duration() time.Duration {
	var max time.Duration
	for _, n := range r {
		if end := n.End(); end > max {
			max = end
		}
	}
	return max
}

// RecipeFor returns the fixed recipe for an event. The same event always
// yields the same acoustic shape.
func RecipeFor(e Event) Recipe {
	switch e {
	case EventSuccess:
		// Quick upbeat double ding: A5 then a brighter C#6.
		return Recipe{
			{Freq: 880.00, Start: 0, Duration: 80 * time.Millisecond, Wave: WaveSine, Peak: 0.4, Attack: 10 * time.Millisecond},
			{Freq: 1108.73, Start: 100 * time.Millisecond, Duration: 150 * time.Millisecond, Wave: WaveSine, Peak: 0.4, Attack: 10 * time.Millisecond},
		}
	case EventError:
		// Gentle descending boop, not harsh: 300 Hz gliding down to 200 Hz.
		return Recipe{
			{Freq: 300, EndFreq: 200, Start: 0, Duration: 150 * time.Millisecond, Wave: WaveSine, Peak: 0.3},
		}
	case EventLevelUp:
		// Ascending celebration: C5 E5 G5, then C6 held longer.
		return Recipe{
			{Freq: 523.25, Start: 0, Duration: 80 * time.Millisecond, Wave: WaveTriangle, Peak: 0.35, Attack: 10 * time.Millisecond},
			{Freq: 659.25, Start: 80 * time.Millisecond, Duration: 80 * time.Millisecond, Wave: WaveTriangle, Peak: 0.35, Attack: 10 * time.Millisecond},
			{Freq: 783.99, Start: 160 * time.Millisecond, Duration: 80 * time.Millisecond, Wave: WaveTriangle, Peak: 0.35, Attack: 10 * time.Millisecond},
			{Freq: 1046.50, Start: 240 * time.Millisecond, Duration: 200 * time.Millisecond, Wave: WaveTriangle, Peak: 0.35, Attack: 10 * time.Millisecond},
		}
	case EventBadge:
		// Sparkle: E6 G6 A6 C7 in quick succession.
		return Recipe{
			{Freq: 1318.51, Start: 0, Duration: 100 * time.Millisecond, Wave: WaveSine, Peak: 0.2, Attack: 10 * time.Millisecond},
			{Freq: 1567.98, Start: 50 * time.Millisecond, Duration: 100 * time.Millisecond, Wave: WaveSine, Peak: 0.2, Attack: 10 * time.Millisecond},
			{Freq: 1760.00, Start: 100 * time.Millisecond, Duration: 100 * time.Millisecond, Wave: WaveSine, Peak: 0.2, Attack: 10 * time.Millisecond},
			{Freq: 2093.00, Start: 150 * time.Millisecond, Duration: 100 * time.Millisecond, Wave: WaveSine, Peak: 0.2, Attack: 10 * time.Millisecond},
		}
	case EventChallengeComplete:
		// Victory fanfare: E5 G5 B5, closing on C6.
		return Recipe{
			{Freq: 659.25, Start: 0, Duration: 100 * time.Millisecond, Wave: WaveTriangle, Peak: 0.3, Attack: 20 * time.Millisecond},
			{Freq: 783.99, Start: 100 * time.Millisecond, Duration: 100 * time.Millisecond, Wave: WaveTriangle, Peak: 0.3, Attack: 20 * time.Millisecond},
			{Freq: 987.77, Start: 200 * time.Millisecond, Duration: 100 * time.Millisecond, Wave: WaveTriangle, Peak: 0.3, Attack: 20 * time.Millisecond},
			{Freq: 1046.50, Start: 300 * time.Millisecond, Duration: 250 * time.Millisecond, Wave: WaveTriangle, Peak: 0.3, Attack: 20 * time.Millisecond},
		}
	case EventClick:
		// A single very short tap.
		return Recipe{
			{Freq: 600, Start: 0, Duration: 30 * time.Millisecond, Wave: WaveSine, Peak: 0.15},
		}
	default:
		return nil
	}
}

// MusicPhrase returns the looping ambient accompaniment: a quiet C-major
// noodle that repeats seamlessly. The loop scheduler replays it until the
// music flag is cleared.
func MusicPhrase() Recipe {
	steps := []float64{
		261.63, // C4
		329.63, // E4
		392.00, // G4
		329.63, // E4
		220.00, // A3
		261.63, // C4
		329.63, // E4
		293.66, // D4
	}
	const step = 450 * time.Millisecond
	phrase := make(Recipe, 0, len(steps))
	for i, f := range steps {
		phrase = append(phrase, Note{
			Freq:     f,
			Start:    time.Duration(i) * step,
			Duration: step,
			Wave:     WaveTriangle,
			Peak:     0.08,
			Attack:   60 * time.Millisecond,
		})
	}
	return phrase
}
