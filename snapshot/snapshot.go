// Package snapshot captures the live state of a pinball.Space after a step
// and records sequences of frames as msgpack.
package snapshot

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/setanarut/pinball"
	"github.com/vmihailenco/msgpack/v5"
)

// Body is the committed state of one thing. Index is the position of the
// thing in the space, which stays the same across spaces built from the same
// table while ids do not.
type Body struct {
	Index   int     `msgpack:"i"`
	Name    string  `msgpack:"n"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	VX      float64 `msgpack:"vx"`
	VY      float64 `msgpack:"vy"`
	AX      float64 `msgpack:"ax"`
	AY      float64 `msgpack:"ay"`
	Contact bool    `msgpack:"c"`
	Visible bool    `msgpack:"v"`
}

type Frame struct {
	Stamp  uint   `msgpack:"stamp"`
	Bodies []Body `msgpack:"bodies"`
}

// Capture reads the committed state of every thing in space, in insertion order.
func Capture(space *pinball.Space) Frame {
	things := space.Things()
	frame := Frame{
		Stamp:  space.Stamp(),
		Bodies: make([]Body, 0, len(things)),
	}
	for i, t := range things {
		s := t.State()
		frame.Bodies = append(frame.Bodies, Body{
			Index:   i,
			Name:    t.Name,
			X:       s.Position.X,
			Y:       s.Position.Y,
			VX:      s.Velocity.X,
			VY:      s.Velocity.Y,
			AX:      s.Acceleration.X,
			AY:      s.Acceleration.Y,
			Contact: t.InContact(),
			Visible: t.Visible(),
		})
	}
	return frame
}

func Encode(f Frame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: encode frame")
	}
	return data, nil
}

func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return f, errors.Wrap(err, "snapshot: decode frame")
	}
	return f, nil
}

// Recorder keeps encoded frames in step order.
type Recorder struct {
	frames [][]byte
}

// Record captures and encodes the current frame of space.
func (r *Recorder) Record(space *pinball.Space) error {
	data, err := Encode(Capture(space))
	if err != nil {
		return err
	}
	r.frames = append(r.frames, data)
	return nil
}

func (r *Recorder) Len() int {
	return len(r.frames)
}

// Frames decodes every recorded frame.
func (r *Recorder) Frames() ([]Frame, error) {
	frames := make([]Frame, 0, len(r.frames))
	for i, data := range r.frames {
		f, err := Decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", i)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Equal reports whether both recordings hold byte-identical frames.
func (r *Recorder) Equal(other *Recorder) bool {
	if len(r.frames) != len(other.frames) {
		return false
	}
	for i := range r.frames {
		if !bytes.Equal(r.frames[i], other.frames[i]) {
			return false
		}
	}
	return true
}

// MarshalMsgpack writes the whole recording as one msgpack array of frames.
func (r *Recorder) MarshalMsgpack() ([]byte, error) {
	frames, err := r.Frames()
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(frames)
}

// ReadRecording decodes a recording written with MarshalMsgpack.
func ReadRecording(data []byte) ([]Frame, error) {
	var frames []Frame
	if err := msgpack.Unmarshal(data, &frames); err != nil {
		return nil, errors.Wrap(err, "snapshot: decode recording")
	}
	return frames, nil
}
