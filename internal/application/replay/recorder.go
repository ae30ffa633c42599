package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/motionctl/internal/application/system"
)

// ErrEmpty is returned when saving a recording with no frames
var ErrEmpty = errors.New("no frames to save")

// Recorder wraps an input device and records what it reports each frame.
// The controller reads input through the recorder so what it sees is exactly
// what gets saved.
type Recorder struct {
	frameDevice
	device    system.InputDevice
	data      ReplayData
	recording bool
}

// NewRecorder creates a recorder over device
func NewRecorder(device system.InputDevice, stage string, tickRate int) *Recorder {
	return &Recorder{
		device: device,
		data: ReplayData{
			Version:   Version,
			Stage:     stage,
			TickRate:  tickRate,
			StartTime: time.Now().Format(time.RFC3339),
			Frames:    make([]FrameInput, 0, 3600), // Pre-allocate for ~1 minute at 60fps
		},
		recording: true,
	}
}

// RecordFrame samples the wrapped device for a frame lasting delta seconds.
// Call it once per frame before the controller gathers input.
func (r *Recorder) RecordFrame(delta float64) {
	r.cur = capture(r.device)
	r.cur.F = len(r.data.Frames)
	r.cur.DT = delta
	if r.recording {
		r.data.Frames = append(r.data.Frames, r.cur)
	}
}

// SetBackend notes which physics collaborator produced the recording
func (r *Recorder) SetBackend(name string) {
	r.data.Backend = name
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	if len(r.data.Frames) == 0 {
		return ErrEmpty
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// Stop stops recording. The wrapped device keeps passing through.
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the recorded replay data
func (r *Recorder) Data() ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
