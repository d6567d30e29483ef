package sound

import "sync"

// Sink is where rendered PCM ends up. The engine treats every sink error
// as a reason to go quiet, never as a reason to fail the caller.
type Sink interface {
	// Start prepares the output device. Safe to call once before writes.
	Start(sampleRate float64, frameSize int) error
	// WriteFrame plays one frame of mono PCM. Blocks until consumed.
	WriteFrame(frame []int16) error
	// Stop tears the device down. Safe to call when never started.
	Stop() error
}

// NullSink discards audio while recording what would have been played.
// It backs headless environments and the package tests.
type NullSink struct {
	mu       sync.Mutex
	started  bool
	frames   [][]int16
	StartErr error // returned from Start, for failure-path tests
}

// NewNullSink creates an empty NullSink.
func NewNullSink() *NullSink {
	return &NullSink{}
}

func (s *NullSink) Start(sampleRate float64, frameSize int) error {
	if s.StartErr != nil {
		return s.StartErr
	}
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *NullSink) WriteFrame(frame []int16) error {
	cp := make([]int16, len(frame))
	copy(cp, frame)
	s.mu.Lock()
	s.frames = append(s.frames, cp)
	s.mu.Unlock()
	return nil
}

func (s *NullSink) Stop() error {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	return nil
}

// Started reports whether the sink has been started and not stopped.
func (s *NullSink) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// FrameCount returns how many frames have been written so far.
func (s *NullSink) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

// Frames returns a copy of all written frames.
func (s *NullSink) Frames() [][]int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]int16, len(s.frames))
	copy(out, s.frames)
	return out
}

var _ Sink = (*NullSink)(nil)
