package sound

import (
	"math"
	"time"
)

// SampleRate is the output rate for all rendered cues (mono int16 PCM).
const SampleRate = 44100

// FrameSize is the number of samples handed to the sink per write.
const FrameSize = 1024

// Render synthesizes a recipe into a mono int16 PCM buffer. Rendering is
// deterministic: the same recipe always yields identical samples.
func Render(r Recipe) []int16 {
	total := samplesFor(r.Duration())
	if total == 0 {
		return nil
	}

	// Accumulate voices in int32 and clamp once, so overlapping notes mix
	// without wrapping.
	acc := make([]int32, total)
	for _, n := range r {
		renderNote(n, acc)
	}

	out := make([]int16, total)
	for i, v := range acc {
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return out
}

// renderNote adds one voice into the accumulator.
func renderNote(n Note, acc []int32) {
	start := samplesFor(n.Start)
	count := samplesFor(n.Duration)
	if count == 0 || n.Peak <= 0 {
		return
	}

	// Phase is integrated sample by sample so pitch glides stay smooth.
	var phase float64
	for i := 0; i < count && start+i < len(acc); i++ {
		t := float64(i) / SampleRate
		freq := n.Freq
		if n.EndFreq > 0 {
			freq += (n.EndFreq - n.Freq) * (t / n.Duration.Seconds())
		}
		phase += freq / SampleRate
		sample := oscillate(n.Wave, phase) * envelope(t, n)
		acc[start+i] += int32(sample * math.MaxInt16)
	}
}

// oscillate evaluates the waveform at the given phase (in cycles).
func oscillate(w Wave, phase float64) float64 {
	p := phase - math.Floor(phase)
	switch w {
	case WaveTriangle:
		return 4*math.Abs(p-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}

// decayFloor is the residual gain the exponential decay targets at the end
// of a note, relative to full scale.
const decayFloor = 0.01

// envelope shapes the amplitude at time t (seconds into the note): linear
// ramp 0→Peak over Attack, then exponential decay from Peak to decayFloor
// at the note's end.
func envelope(t float64, n Note) float64 {
	attack := n.Attack.Seconds()
	dur := n.Duration.Seconds()

	if t >= dur {
		return 0
	}
	if attack > 0 && t < attack {
		return n.Peak * (t / attack)
	}

	decaySpan := dur - attack
	if decaySpan <= 0 {
		return n.Peak
	}
	progress := (t - attack) / decaySpan
	return n.Peak * math.Pow(decayFloor/n.Peak, progress)
}

// samplesFor converts a duration to a sample count at SampleRate.
func samplesFor(d time.Duration) int {
	return int(math.Round(d.Seconds() * SampleRate))
}
