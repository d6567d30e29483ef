package sound

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSink plays PCM on the system default output device.
type PortAudioSink struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []int16
	running bool
}

// NewPortAudioSink creates an unstarted PortAudio sink.
func NewPortAudioSink() *PortAudioSink {
	return &PortAudioSink{}
}

// Start initializes PortAudio and opens an output-only stream on the
// default device.
func (s *PortAudioSink) Start(sampleRate float64, frameSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("sound: init portaudio: %w", err)
	}

	output, err := portaudio.DefaultOutputDevice()
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("sound: no output device: %w", err)
	}

	params := portaudio.LowLatencyParameters(nil, output)
	params.Output.Channels = 1
	params.Input.Device = nil
	params.Input.Channels = 0
	params.SampleRate = sampleRate
	params.FramesPerBuffer = frameSize

	s.buffer = make([]int16, frameSize)
	stream, err := portaudio.OpenStream(params, s.buffer)
	if err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("sound: open output stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return fmt.Errorf("sound: start output: %w", err)
	}

	s.stream = stream
	s.running = true
	slog.Debug("audio output started", "device", output.Name, "rate", sampleRate)
	return nil
}

// WriteFrame writes one frame of PCM to the output. Blocks until written.
func (s *PortAudioSink) WriteFrame(frame []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("sound: sink not started")
	}
	if len(frame) != len(s.buffer) {
		return fmt.Errorf("sound: frame size mismatch: got %d, want %d", len(frame), len(s.buffer))
	}
	copy(s.buffer, frame)
	if err := s.stream.Write(); err != nil {
		return fmt.Errorf("sound: write frame: %w", err)
	}
	return nil
}

// Stop closes the stream and terminates PortAudio.
func (s *PortAudioSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.stream != nil {
		_ = s.stream.Stop()
		_ = s.stream.Close()
		s.stream = nil
	}
	_ = portaudio.Terminate()
	return nil
}

var _ Sink = (*PortAudioSink)(nil)
