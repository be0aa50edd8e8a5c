package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"photodrop/internal/config"
	"photodrop/internal/filestore"
	"photodrop/internal/model"
	appErr "photodrop/internal/pkg/errors"
	"photodrop/internal/pkg/timeutil"
)

type memLedger struct {
	mu      sync.Mutex
	records []model.Upload
	err     error
}

func (l *memLedger) CountSince(ctx context.Context, email string, sinceMillis int64) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	count := 0
	for _, rec := range l.records {
		if rec.Email == email && rec.UploadTS >= sinceMillis {
			count++
		}
	}
	return count, nil
}

func (l *memLedger) Create(ctx context.Context, upload *model.Upload) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	if upload.UploadTS == 0 {
		upload.UploadTS = timeutil.NowMillis()
	}
	l.records = append(l.records, *upload)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []string
	files []string
	err   error
}

func (n *recordingNotifier) Send(to, subject, body, fileName string, attachment io.Reader) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	if _, err := io.Copy(io.Discard, attachment); err != nil {
		return err
	}
	n.sent = append(n.sent, to)
	n.files = append(n.files, fileName)
	return nil
}

func makeFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

func setupUploadService(t *testing.T, limit int) (*UploadService, *memLedger, *recordingNotifier, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": dir},
	})
	require.NoError(t, err)
	ledger := &memLedger{}
	notifier := &recordingNotifier{}
	return NewUploadService(ledger, store, notifier, limit), ledger, notifier, dir
}

func TestUploadHappyPath(t *testing.T) {
	svc, ledger, notifier, dir := setupUploadService(t, 2)

	upload, err := svc.Upload(context.Background(), "alice@x.com", makeFileHeader(t, "cat.jpg", []byte("img")))
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", upload.Email)
	require.NotEmpty(t, upload.ID)
	require.Contains(t, upload.FileName, "cat.jpg")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, upload.FileName, entries[0].Name())

	require.Len(t, ledger.records, 1)
	require.Equal(t, []string{"alice@x.com"}, notifier.sent)
	require.Equal(t, []string{upload.FileName}, notifier.files)
}

func TestUploadQuotaExceeded(t *testing.T) {
	svc, ledger, notifier, dir := setupUploadService(t, 2)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "alice@x.com", makeFileHeader(t, "one.jpg", []byte("1")))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "alice@x.com", makeFileHeader(t, "two.jpg", []byte("2")))
	require.NoError(t, err)

	_, err = svc.Upload(ctx, "alice@x.com", makeFileHeader(t, "three.jpg", []byte("3")))
	require.ErrorIs(t, err, appErr.ErrQuotaExceeded)

	require.Len(t, ledger.records, 2, "rejected upload must not be recorded")
	require.Len(t, notifier.sent, 2, "rejected upload must not be mailed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3, "the rejected file stays on disk")
}

func TestUploadQuotaIsPerEmail(t *testing.T) {
	svc, _, _, _ := setupUploadService(t, 1)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "alice@x.com", makeFileHeader(t, "a.jpg", []byte("a")))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "bob@x.com", makeFileHeader(t, "b.jpg", []byte("b")))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "alice@x.com", makeFileHeader(t, "a2.jpg", []byte("a")))
	require.ErrorIs(t, err, appErr.ErrQuotaExceeded)
}

func TestUploadZeroLimitRejectsEverything(t *testing.T) {
	svc, ledger, _, _ := setupUploadService(t, 0)
	_, err := svc.Upload(context.Background(), "alice@x.com", makeFileHeader(t, "a.jpg", []byte("a")))
	require.ErrorIs(t, err, appErr.ErrQuotaExceeded)
	require.Empty(t, ledger.records)
}

func TestUploadMailFailureKeepsRecord(t *testing.T) {
	svc, ledger, notifier, dir := setupUploadService(t, 2)
	notifier.err = errors.New("smtp connect refused")

	upload, err := svc.Upload(context.Background(), "alice@x.com", makeFileHeader(t, "cat.jpg", []byte("img")))
	require.ErrorIs(t, err, appErr.ErrMailFailed)
	require.NotNil(t, upload)

	require.Len(t, ledger.records, 1, "ledger row is committed before the mail attempt")
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Len(t, entries, 1, "the stored file survives the mail failure")
}

func TestUploadLedgerFailure(t *testing.T) {
	svc, ledger, notifier, _ := setupUploadService(t, 2)
	ledger.err = errors.New("connection reset")

	_, err := svc.Upload(context.Background(), "alice@x.com", makeFileHeader(t, "cat.jpg", []byte("img")))
	require.Error(t, err)
	require.NotErrorIs(t, err, appErr.ErrQuotaExceeded)
	require.Empty(t, notifier.sent, "no mail without a ledger record")
}

func TestUploadMissingPart(t *testing.T) {
	svc, ledger, _, _ := setupUploadService(t, 2)
	_, err := svc.Upload(context.Background(), "alice@x.com", nil)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Empty(t, ledger.records)
}

func TestUploadConcurrentAtQuotaBoundary(t *testing.T) {
	svc, ledger, _, _ := setupUploadService(t, 1)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	headers := make([]*multipart.FileHeader, workers)
	for i := range headers {
		headers[i] = makeFileHeader(t, "race.jpg", []byte("img"))
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Upload(context.Background(), "alice@x.com", headers[i])
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, appErr.ErrQuotaExceeded)
		}
	}
	require.Equal(t, 1, accepted, "the per-email lock must keep enforcement strict")
	require.Len(t, ledger.records, 1)
}

func TestBuildStoredName(t *testing.T) {
	first := buildStoredName("cat.jpg")
	second := buildStoredName("cat.jpg")
	require.NotEqual(t, first, second)
	require.Contains(t, first, "cat.jpg")

	require.Contains(t, buildStoredName("../../etc/passwd"), "passwd")
	require.NotContains(t, buildStoredName("../../etc/passwd"), "/")
	require.Contains(t, buildStoredName(""), "upload")
}
