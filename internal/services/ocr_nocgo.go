//go:build windows || !cgo

package services

import (
	"errors"
)

var errOCRUnavailable = errors.New("OCR is not available on Windows - run in Docker container")

// OCRService is a stub; tesseract bindings need cgo and the Linux libraries
type OCRService struct{}

func NewOCRService(languages string) (*OCRService, error) {
	return nil, errOCRUnavailable
}

func (s *OCRService) Recognize(image []byte) (string, error) {
	return "", errOCRUnavailable
}

func (s *OCRService) Close() error {
	return nil
}
