package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"photodrop/internal/filestore"
	"photodrop/internal/model"
	appErr "photodrop/internal/pkg/errors"
	"photodrop/internal/pkg/timeutil"
	"photodrop/internal/quota"
)

const (
	mailSubject = "Photo Upload Confirmation"
	mailBody    = "Your photo has been successfully uploaded."
)

// Ledger is the durable record of accepted uploads.
type Ledger interface {
	CountSince(ctx context.Context, email string, sinceMillis int64) (int, error)
	Create(ctx context.Context, upload *model.Upload) error
}

// UploadService runs one upload end to end: store the file, check the daily
// quota, append the ledger record, send the confirmation mail. The quota
// check and the append are serialized per email so concurrent uploads
// cannot overshoot the limit.
type UploadService struct {
	ledger   Ledger
	store    filestore.Store
	notifier Notifier
	limit    int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUploadService(ledger Ledger, store filestore.Store, notifier Notifier, limit int) *UploadService {
	return &UploadService{
		ledger:   ledger,
		store:    store,
		notifier: notifier,
		limit:    limit,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Upload accepts one file for email. The file is stored before the quota
// check, so a rejected request still leaves the file behind; nothing rolls
// back the stored file or the ledger row when a later stage fails.
func (s *UploadService) Upload(ctx context.Context, email string, fh *multipart.FileHeader) (*model.Upload, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("email", email))
	if fh == nil {
		return nil, fmt.Errorf("%w: image part is missing", appErr.ErrInvalid)
	}
	part, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open image part: %v", appErr.ErrInvalid, err)
	}
	defer part.Close()

	storedName := buildStoredName(fh.Filename)
	if err := s.store.Save(ctx, storedName, part, fh.Size); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	logger.Info("file stored", zap.String("file", storedName), zap.Int64("size", fh.Size))

	upload, err := s.recordUpload(ctx, email, storedName)
	if err != nil {
		return nil, err
	}
	logger.Info("upload recorded", zap.String("file", storedName), zap.String("id", upload.ID))

	if err := s.notify(ctx, email, storedName, fh); err != nil {
		logger.Error("confirmation mail failed", zap.String("file", storedName), zap.Error(err))
		return upload, fmt.Errorf("%w: %v", appErr.ErrMailFailed, err)
	}
	logger.Info("confirmation mail sent", zap.String("file", storedName))
	return upload, nil
}

// recordUpload holds the per-email lock across the count and the append.
func (s *UploadService) recordUpload(ctx context.Context, email, storedName string) (*model.Upload, error) {
	lock := s.emailLock(email)
	lock.Lock()
	defer lock.Unlock()

	count, err := s.ledger.CountSince(ctx, email, timeutil.StartOfTodayMillis())
	if err != nil {
		return nil, fmt.Errorf("count uploads: %w", err)
	}
	if !quota.Allow(count, s.limit) {
		logutil.GetLogger(ctx).Info("upload rejected, quota reached",
			zap.String("email", email), zap.Int("count", count), zap.Int("limit", s.limit))
		return nil, appErr.ErrQuotaExceeded
	}
	upload := &model.Upload{
		Email:    email,
		FileName: storedName,
	}
	if err := s.ledger.Create(ctx, upload); err != nil {
		return nil, fmt.Errorf("append ledger: %w", err)
	}
	return upload, nil
}

func (s *UploadService) notify(ctx context.Context, email, storedName string, fh *multipart.FileHeader) error {
	attachment, err := s.store.Open(ctx, storedName)
	if err != nil {
		// stores without read-back (s3) fall back to the request part
		attachment, err = fh.Open()
		if err != nil {
			return err
		}
	}
	defer attachment.Close()
	return s.notifier.Send(email, mailSubject, mailBody, storedName, attachment)
}

// emailLock returns the mutex for email. The account set is fixed at
// startup, so the map never grows past the configured users.
func (s *UploadService) emailLock(email string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[email]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[email] = lock
	}
	return lock
}

// buildStoredName keeps the receipt-time prefix of the original naming
// scheme and adds a random suffix so identical names in the same
// millisecond cannot collide.
func buildStoredName(original string) string {
	base := filepath.Base(original)
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return strconv.FormatInt(timeutil.NowMillis(), 10) + "-" + randomHex(6) + "-" + base
}

func randomHex(size int) string {
	buf := make([]byte, size)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
