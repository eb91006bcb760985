package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder
	"image/png"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

// DefaultScanMaxEdge bounds the longest side of a stored list photo
const DefaultScanMaxEdge = 2000

// maxScanPixels caps the declared size of an upload before it is decoded
const maxScanPixels = 50_000_000

var allowedScanMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// scanImage is a list photo prepared for storage and OCR
type scanImage struct {
	Data []byte
	MIME string
}

// prepareScanImage sniffs the upload, downscales it to maxEdge and re-encodes
// it as grayscale PNG, which OCR reads more reliably than colour JPEG.
func prepareScanImage(data []byte, maxEdge int) (*scanImage, error) {
	if len(data) == 0 {
		return nil, errs.Validation("Image is required")
	}
	detected := http.DetectContentType(data)
	if !allowedScanMIME[detected] {
		return nil, errs.Validation("Image must be a JPEG or PNG")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.ErrValidation, "Image could not be decoded", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxScanPixels {
		return nil, errs.Validation("Image is too large")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errs.Wrap(errs.ErrValidation, "Image could not be decoded", err)
	}

	if maxEdge <= 0 {
		maxEdge = DefaultScanMaxEdge
	}
	src := img.Bounds()
	w, h := fitWithin(src.Dx(), src.Dy(), maxEdge)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return &scanImage{Data: buf.Bytes(), MIME: "image/png"}, nil
}

// fitWithin scales w x h down so neither side exceeds maxEdge, keeping the aspect ratio
func fitWithin(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w > h {
		h = int(float64(h) * float64(maxEdge) / float64(w))
		w = maxEdge
	} else {
		w = int(float64(w) * float64(maxEdge) / float64(h))
		h = maxEdge
	}
	return max(w, 1), max(h, 1)
}
