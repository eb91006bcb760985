package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

type stubRecognizer struct {
	text string
	err  error
	got  []byte
}

func (r *stubRecognizer) Recognize(image []byte) (string, error) {
	r.got = image
	return r.text, r.err
}

type memoryScanStore struct {
	objects map[string][]byte
	fail    bool
}

func (s *memoryScanStore) Upload(_ context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	if s.fail {
		return nil, errors.New("bucket unavailable")
	}
	s.objects[key] = data
	return &UploadResult{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *memoryScanStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareScanImageDownscales(t *testing.T) {
	out, err := prepareScanImage(testPNG(t, 400, 100), 200)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.MIME)

	cfg, err := png.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
	assert.Equal(t, color.GrayModel, cfg.ColorModel)
}

func TestPrepareScanImageRejectsNonImages(t *testing.T) {
	_, err := prepareScanImage(nil, 100)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = prepareScanImage([]byte("%PDF-1.4 not an image"), 100)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestPrepareScanImageRejectsHugeDimensions(t *testing.T) {
	data := testPNG(t, 8, 8)
	// Rewrite the IHDR size to 100000 x 100000 and fix its checksum
	binary.BigEndian.PutUint32(data[16:], 100000)
	binary.BigEndian.PutUint32(data[20:], 100000)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))

	_, err := prepareScanImage(data, 100)
	require.ErrorIs(t, err, errs.ErrValidation)
	assert.Equal(t, "Image is too large", errs.UserMessage(err))
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 200, 100, 50},
		{4000, 3000, 2000, 2000, 1500},
		{1000, 3000, 1500, 500, 1500},
		{5000, 1, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}

func TestScanListImportsRecognizedLines(t *testing.T) {
	f := newFixture(t)
	seedCatalog(f)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	list := f.newList(t, aliceCtx, "Groceries")

	ocr := &stubRecognizer{text: "2 kg apples\nmilk 1,5 l\n\n"}
	store := &memoryScanStore{objects: map[string][]byte{}}
	scans := NewScanService(f.store.Lists(), auth.NewContextProvider(), f.items, ocr, store, 100, zap.NewNop())
	scans.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	result, err := scans.ScanList(aliceCtx, list.ID, testPNG(t, 300, 300))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.ImageKey, "scans/"+list.ID+"/2026-03-01/"))
	assert.Contains(t, store.objects, result.ImageKey)
	assert.Equal(t, "2 kg apples\nmilk 1,5 l", result.RawText)
	assert.Equal(t, 2, result.Import.TotalParsed)
	assert.Equal(t, 1, result.Import.LinkedCount)
	assert.NotEmpty(t, ocr.got)

	got, err := f.lists.GetList(aliceCtx, list.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestScanListFailures(t *testing.T) {
	f := newFixture(t)
	_, aliceCtx := f.signUp(t, "alice@example.com", "Alice")
	_, bobCtx := f.signUp(t, "bob@example.com", "Bob")
	list := f.newList(t, aliceCtx, "Groceries")
	photo := testPNG(t, 50, 50)

	newScans := func(ocr TextRecognizer, store ScanStore) *ScanService {
		return NewScanService(f.store.Lists(), auth.NewContextProvider(), f.items, ocr, store, 0, zap.NewNop())
	}

	_, err := newScans(&stubRecognizer{text: "apples"}, nil).ScanList(bobCtx, list.ID, photo)
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = newScans(&stubRecognizer{text: "  \n "}, nil).ScanList(aliceCtx, list.ID, photo)
	require.ErrorIs(t, err, errs.ErrBusinessRule)

	_, err = newScans(&stubRecognizer{err: errors.New("tesseract crashed")}, nil).ScanList(aliceCtx, list.ID, photo)
	require.ErrorIs(t, err, errs.ErrBusinessRule)

	// A failing bucket does not fail the scan
	result, err := newScans(&stubRecognizer{text: "apples"}, &memoryScanStore{fail: true}).ScanList(aliceCtx, list.ID, photo)
	require.NoError(t, err)
	assert.Empty(t, result.ImageKey)
	assert.Len(t, result.Import.Added, 1)
}
