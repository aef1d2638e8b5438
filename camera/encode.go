package camera

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// jpegQuality matches the lossy quality factor the wizard has always
// used for selfies.
const jpegQuality = 80

// maxFrameWidth bounds the encoded selfie; camera frames can be much
// larger than the issuance API needs.
const maxFrameWidth = 1280

// EncodeFrame downscales a frame to at most maxFrameWidth and encodes
// it as a data:image/jpeg;base64 URL.
func EncodeFrame(frame image.Image) (string, error) {
	frame = scaleDown(frame)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func scaleDown(frame image.Image) image.Image {
	bounds := frame.Bounds()
	if bounds.Dx() <= maxFrameWidth {
		return frame
	}

	scale := float64(maxFrameWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy()) * scale)

	scaled := image.NewRGBA(image.Rect(0, 0, maxFrameWidth, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), frame, bounds, draw.Over, nil)
	return scaled
}
