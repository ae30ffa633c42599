package replay

import (
	"encoding/json"
	"fmt"
	"os"
)

// Replayer plays recorded frames back as an input device
type Replayer struct {
	frameDevice
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}

	return &data, nil
}

// Advance moves to the next recorded frame and returns it.
// It returns false once every frame has been played; the device then reports no input.
func (r *Replayer) Advance() (FrameInput, bool) {
	if r.frame >= len(r.data.Frames) {
		r.cur = FrameInput{}
		return FrameInput{}, false
	}

	r.cur = r.data.Frames[r.frame]
	r.frame++
	return r.cur, true
}

// Done reports whether every frame has been played
func (r *Replayer) Done() bool {
	return r.frame >= len(r.data.Frames)
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Data returns the replay data being played
func (r *Replayer) Data() ReplayData {
	return r.data
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
	r.cur = FrameInput{}
}
