package camera

import (
	"context"
	"fmt"
	"image"
)

// Device is a source of live camera streams. Implementations decide
// where frames actually come from; the service never links a video
// driver directly.
type Device interface {
	// Open acquires a live stream. A failed acquisition needs no
	// cleanup on the caller's side.
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera stream. Close stops every underlying track;
// it must be called exactly once for each successful Open.
type Stream interface {
	// ReadFrame returns the current frame.
	ReadFrame() (image.Image, error)
	Close() error
}

// Capture owns the camera stream for the selfie step. The stream is
// released as soon as a photo exists and on Close, so the camera is
// never left open once the step is done or abandoned.
type Capture struct {
	device Device
	stream Stream
	image  string
}

func NewCapture(device Device) *Capture {
	return &Capture{device: device}
}

// Start acquires the camera stream. If acquisition fails the capture
// stays in the not-streaming baseline.
func (c *Capture) Start(ctx context.Context) error {
	if c.stream != nil {
		return nil
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		return fmt.Errorf("unable to access camera: %w", err)
	}
	c.stream = stream
	return nil
}

// Streaming reports whether a stream is currently held.
func (c *Capture) Streaming() bool {
	return c.stream != nil
}

// TakePhoto snapshots the current frame, encodes it as a JPEG data URL
// and releases the stream. The stream is released even when reading or
// encoding fails.
func (c *Capture) TakePhoto() (string, error) {
	if c.stream == nil {
		return "", fmt.Errorf("camera is not streaming")
	}

	frame, readErr := c.stream.ReadFrame()
	closeErr := c.stream.Close()
	c.stream = nil

	if readErr != nil {
		return "", fmt.Errorf("failed to read camera frame: %w", readErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("failed to release camera stream: %w", closeErr)
	}

	encoded, err := EncodeFrame(frame)
	if err != nil {
		return "", err
	}
	c.image = encoded
	return encoded, nil
}

// Image returns the last captured photo, empty if none.
func (c *Capture) Image() string {
	return c.image
}

// Retake discards the captured photo and re-acquires the stream.
func (c *Capture) Retake(ctx context.Context) error {
	c.image = ""
	return c.Start(ctx)
}

// Close releases the stream if one is still held. Safe to call on any
// state, including after a capture or a failed Start.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	err := c.stream.Close()
	c.stream = nil
	return err
}
