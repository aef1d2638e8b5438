package camera

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// SpoolDevice reads frames that an external capture daemon drops into a
// directory, newest file first. It lets a kiosk feed the selfie step
// without this service linking a video driver.
type SpoolDevice struct {
	dir string
}

func NewSpoolDevice(dir string) *SpoolDevice {
	return &SpoolDevice{dir: dir}
}

func (d *SpoolDevice) Open(ctx context.Context) (Stream, error) {
	info, err := os.Stat(d.dir)
	if err != nil {
		return nil, fmt.Errorf("camera spool directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("camera spool path %s is not a directory", d.dir)
	}
	return &spoolStream{dir: d.dir}, nil
}

type spoolStream struct {
	dir    string
	closed bool
}

func (s *spoolStream) ReadFrame() (image.Image, error) {
	if s.closed {
		return nil, fmt.Errorf("stream is closed")
	}

	path, err := newestFrame(s.dir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame %s: %w", path, err)
	}
	defer f.Close()

	frame, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return frame, nil
}

func (s *spoolStream) Close() error {
	if s.closed {
		return fmt.Errorf("stream already closed")
	}
	s.closed = true
	return nil
}

func newestFrame(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read camera spool: %w", err)
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, entry.Name())
			newestMod = mod
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no frames in camera spool %s", dir)
	}
	return newest, nil
}
