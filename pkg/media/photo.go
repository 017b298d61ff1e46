package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/disintegration/imaging"
)

// Options controls how meal photos are shrunk before they are uploaded to
// the vision model.
type Options struct {
	Quality   int   `yaml:"quality"`
	MaxWidth  int   `yaml:"max_width"`
	MaxHeight int   `yaml:"max_height"`
	Threshold int64 `yaml:"threshold_bytes"`
}

func DefaultOptions() Options {
	return Options{
		Quality:   80,
		MaxWidth:  1280,
		MaxHeight: 1280,
		Threshold: 512 * 1024,
	}
}

// Photo is an image ready to be sent to the backend.
type Photo struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

type PhotoProcessor struct {
	opts Options
}

func NewPhotoProcessor(opts Options) *PhotoProcessor {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultOptions().Quality
	}
	return &PhotoProcessor{opts: opts}
}

// Prepare decodes data and, when it is larger than the threshold, fits it
// inside the configured box and re-encodes it as JPEG. Small photos pass
// through untouched.
func (p *PhotoProcessor) Prepare(data []byte) (*Photo, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	bounds := img.Bounds()
	if int64(len(data)) < p.opts.Threshold {
		return &Photo{
			Data:     data,
			MimeType: mimeFor(format, data),
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
		}, nil
	}

	img = p.fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.opts.Quality}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}

	return &Photo{
		Data:     buf.Bytes(),
		MimeType: "image/jpeg",
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}

func (p *PhotoProcessor) fit(img image.Image) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	maxW, maxH := p.opts.MaxWidth, p.opts.MaxHeight
	if maxW <= 0 {
		maxW = w
	}
	if maxH <= 0 {
		maxH = h
	}
	if w <= maxW && h <= maxH {
		return img
	}
	// imaging.Fit keeps the aspect ratio and never upscales.
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

func mimeFor(format string, data []byte) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	}
	return http.DetectContentType(data)
}
