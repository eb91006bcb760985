package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Deazl-Comparator/deazl-sub001/internal/auth"
	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
	"github.com/Deazl-Comparator/deazl-sub001/internal/models"
	"github.com/Deazl-Comparator/deazl-sub001/internal/repository"
)

// TextRecognizer extracts text from an encoded image
type TextRecognizer interface {
	Recognize(image []byte) (string, error)
}

// ScanStore keeps the uploaded list photos
type ScanStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}

// ScanService turns a photo of a handwritten list into list items
type ScanService struct {
	access  listAccess
	items   *ShoppingListItemService
	ocr     TextRecognizer
	store   ScanStore
	maxEdge int
	now     func() time.Time
	log     *zap.Logger
}

// NewScanService wires the scan pipeline. store may be nil, in which case photos are not kept.
func NewScanService(
	lists repository.ShoppingListRepository,
	authProvider auth.Provider,
	items *ShoppingListItemService,
	ocr TextRecognizer,
	store ScanStore,
	maxEdge int,
	log *zap.Logger,
) *ScanService {
	return &ScanService{
		access:  listAccess{auth: authProvider, lists: lists},
		items:   items,
		ocr:     ocr,
		store:   store,
		maxEdge: maxEdge,
		now:     time.Now,
		log:     log,
	}
}

// ScanList normalizes the photo, keeps a copy, reads it and imports every recognized line
func (s *ScanService) ScanList(ctx context.Context, listID string, photo []byte) (*models.ScanResult, error) {
	_, list, err := s.access.list(ctx, listID, canModify)
	if err != nil {
		return nil, err
	}

	img, err := prepareScanImage(photo, s.maxEdge)
	if err != nil {
		return nil, err
	}

	text, err := s.ocr.Recognize(img.Data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrBusinessRule, "Could not read the photo", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.BusinessRule("No text found in the photo")
	}

	imageKey := s.keep(ctx, list.ID, img)

	imported, err := s.items.ImportItems(ctx, list.ID, text)
	if err != nil {
		s.discard(ctx, imageKey)
		return nil, err
	}

	return &models.ScanResult{ImageKey: imageKey, RawText: text, Import: *imported}, nil
}

// keep stores the photo; storage is best effort and never fails the scan
func (s *ScanService) keep(ctx context.Context, listID string, img *scanImage) string {
	if s.store == nil {
		return ""
	}
	key := scanObjectKey(listID, s.now())
	if _, err := s.store.Upload(ctx, key, img.Data, img.MIME); err != nil {
		s.log.Warn("failed to store list photo", zap.String("list_id", listID), zap.Error(err))
		return ""
	}
	return key
}

func (s *ScanService) discard(ctx context.Context, key string) {
	if s.store == nil || key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to delete list photo", zap.String("key", key), zap.Error(err))
	}
}
