package provider

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/saturnino-fabrica-de-software/vigia/internal/domain"
)

// EncodePNG converts a raw RGBA frame into PNG bytes for providers that
// consume encoded images (HTTP sidecars, cloud APIs).
func EncodePNG(frame *domain.Frame) ([]byte, error) {
	if frame == nil || len(frame.Pixels) == 0 {
		return nil, domain.ErrEmptyFrame
	}
	if len(frame.Pixels) != frame.Width*frame.Height*4 {
		return nil, domain.ErrInvalidFrame
	}

	img := &image.NRGBA{
		Pix:    frame.Pixels,
		Stride: frame.Width * 4,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
