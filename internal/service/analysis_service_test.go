package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"tennis-analyzer/internal/analyzer"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/filestore"
	"tennis-analyzer/internal/repository"
	"tennis-analyzer/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type analysisFixture struct {
	svc     AnalysisService
	storage *repository.MemStorage
	files   *filestore.LocalStore
}

func newAnalysisFixture(t *testing.T) *analysisFixture {
	t.Helper()
	storage := repository.NewMemStorage()
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return &analysisFixture{
		svc:     NewAnalysisService(storage, files, analyzer.New(), validation.NewValidator(1024*1024), nil),
		storage: storage,
		files:   files,
	}
}

func swingUpload() UploadRequest {
	return UploadRequest{UploadInput: validation.UploadInput{
		FileName: "swing.mp4",
		MimeType: "video/mp4",
		Size:     16,
		Data:     []byte("fake video bytes"),
	}}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func assertCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestAnalysisService_CreateAnalysis_Success(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateAnalysis(ctx, swingUpload())
	require.NoError(t, err)

	assert.Positive(t, a.ID)
	assert.Nil(t, a.UserID)
	assert.Equal(t, "swing.mp4", a.OriginalFileName)
	assert.Equal(t, ".mp4", filepath.Ext(a.FileName))
	assert.NotEqual(t, "swing.mp4", a.FileName)
	assert.Equal(t, domain.MediaVideo, a.FileType)
	assert.Equal(t, int64(16), a.FileSize)
	assert.True(t, a.ActionStage.IsValid())
	for _, s := range []int{a.Scores.Preparation, a.Scores.SwingPath, a.Scores.BodyPosition, a.Scores.FollowThrough} {
		assert.GreaterOrEqual(t, s, 70)
		assert.LessOrEqual(t, s, 99)
	}
	assert.Equal(t, (a.Scores.Preparation+a.Scores.SwingPath+a.Scores.BodyPosition+a.Scores.FollowThrough)/4, a.Scores.Overall)
	assert.True(t, a.CreatedAt.Equal(a.ActionDate))

	assert.Equal(t, []string{a.FileName}, storedFiles(t, f.files.Dir()))

	got, err := f.svc.GetAnalysis(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestAnalysisService_CreateAnalysis_Base64AndOwner(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()
	require.NoError(t, repository.SeedDemoUser(ctx, f.storage))

	req := UploadRequest{
		UploadInput: validation.UploadInput{
			FileName:   "serve.PNG",
			MimeType:   "image/png",
			Size:       3,
			Base64Data: "data:image/png;base64,YWJj",
		},
		UserID:     "1",
		ActionDate: "2024-05-20",
	}
	a, err := f.svc.CreateAnalysis(ctx, req)
	require.NoError(t, err)

	require.NotNil(t, a.UserID)
	assert.Equal(t, int64(1), *a.UserID)
	assert.Equal(t, domain.MediaImage, a.FileType)
	assert.Equal(t, ".png", filepath.Ext(a.FileName))
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), a.ActionDate)

	owned, err := f.svc.ListAnalyses(ctx, domain.AnalysisFilter{UserID: a.UserID})
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestAnalysisService_CreateAnalysis_Validation(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	t.Run("every malformed field is reported", func(t *testing.T) {
		_, err := f.svc.CreateAnalysis(ctx, UploadRequest{UserID: "abc", ActionDate: "yesterday"})
		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)

		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		for _, want := range []string{"fileName", "fileType", "fileSize", "fileData", "userId", "actionDate"} {
			assert.True(t, fields[want], "missing %s", want)
		}
	})

	t.Run("unsupported media", func(t *testing.T) {
		req := swingUpload()
		req.FileName = "notes.pdf"
		req.MimeType = "application/pdf"
		_, err := f.svc.CreateAnalysis(ctx, req)
		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.True(t, errs.HasCode(domain.CodeUnsupportedMedia))
	})

	t.Run("bad base64", func(t *testing.T) {
		req := UploadRequest{UploadInput: validation.UploadInput{
			FileName: "a.png", MimeType: "image/png", Size: 3, Base64Data: "***",
		}}
		_, err := f.svc.CreateAnalysis(ctx, req)
		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "fileData", errs[0].Field)
	})

	t.Run("decoded payload larger than declared size", func(t *testing.T) {
		oversized := bytes.Repeat([]byte("x"), 1024*1024+1)
		req := UploadRequest{UploadInput: validation.UploadInput{
			FileName: "big.mp4", MimeType: "video/mp4", Size: 1,
			Base64Data: base64.StdEncoding.EncodeToString(oversized),
		}}
		_, err := f.svc.CreateAnalysis(ctx, req)
		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		require.Len(t, errs, 1)
		assert.Equal(t, "fileData", errs[0].Field)
		assert.Equal(t, domain.CodeOutOfRange, errs[0].Code)
	})

	t.Run("unknown owner", func(t *testing.T) {
		req := swingUpload()
		req.UserID = "77"
		_, err := f.svc.CreateAnalysis(ctx, req)
		var errs domain.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Equal(t, "userId", errs[0].Field)
	})

	assert.Empty(t, storedFiles(t, f.files.Dir()), "nothing is written for invalid uploads")
}

func TestAnalysisService_CreateAnalysis_RemovesOrphanOnStorageFailure(t *testing.T) {
	storage := new(MockStorage)
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	svc := NewAnalysisService(storage, files, analyzer.New(), validation.NewValidator(0), nil)

	storage.On("CreateAnalysis", mock.Anything, mock.AnythingOfType("*domain.NewAnalysis")).
		Return(nil, domain.NewStorageError("CreateAnalysis", errors.New("disk full")))

	_, err = svc.CreateAnalysis(context.Background(), swingUpload())
	assertCode(t, err, domain.CodeStorage)
	assert.Empty(t, storedFiles(t, files.Dir()))
	storage.AssertExpectations(t)
}

func TestAnalysisService_CreateAnalysis_GeneratorFailure(t *testing.T) {
	files := &fakeFileStore{}
	gen := generatorFunc(func(ctx context.Context, meta domain.FileMeta) (*domain.GeneratedAnalysis, error) {
		assert.Equal(t, "stored-swing.mp4", meta.FileName)
		assert.Equal(t, domain.MediaVideo, meta.Kind)
		return nil, errors.New("model unavailable")
	})
	svc := NewAnalysisService(new(MockStorage), files, gen, validation.NewValidator(0), nil)

	_, err := svc.CreateAnalysis(context.Background(), swingUpload())
	assertCode(t, err, domain.CodeInternal)
	assert.Equal(t, []string{"stored-swing.mp4"}, files.deleted)
}

func TestAnalysisService_CreateAnalysis_SaveFailure(t *testing.T) {
	files := &fakeFileStore{saveFn: func(r io.Reader, name string) (string, int64, error) {
		return "", 0, errors.New("read-only file system")
	}}
	svc := NewAnalysisService(new(MockStorage), files, analyzer.New(), validation.NewValidator(0), nil)

	_, err := svc.CreateAnalysis(context.Background(), swingUpload())
	assertCode(t, err, domain.CodeInternal)
	assert.Empty(t, files.deleted)
}

func TestAnalysisService_GetAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		f := newAnalysisFixture(t)
		_, err := f.svc.GetAnalysis(ctx, 999999)
		assertCode(t, err, domain.CodeNotFound)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		storage := new(MockStorage)
		cache := new(MockAnalysisCacheService)
		svc := NewAnalysisService(storage, &fakeFileStore{}, analyzer.New(), validation.NewValidator(0), cache)

		cached := &domain.Analysis{ID: 4, ActionType: domain.ActionVolley}
		cache.On("GetAnalysis", mock.Anything, int64(4)).Return(cached, nil)

		got, err := svc.GetAnalysis(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		storage.AssertNotCalled(t, "GetAnalysis", mock.Anything, mock.Anything)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss populates cache", func(t *testing.T) {
		storage := new(MockStorage)
		cache := new(MockAnalysisCacheService)
		svc := NewAnalysisService(storage, &fakeFileStore{}, analyzer.New(), validation.NewValidator(0), cache)

		stored := &domain.Analysis{ID: 5, ActionType: domain.ActionServe}
		cache.On("GetAnalysis", mock.Anything, int64(5)).Return(nil, nil)
		storage.On("GetAnalysis", mock.Anything, int64(5)).Return(stored, nil)
		cache.On("PutAnalysis", mock.Anything, stored).Return(nil)

		got, err := svc.GetAnalysis(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		storage.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls back to storage", func(t *testing.T) {
		storage := new(MockStorage)
		cache := new(MockAnalysisCacheService)
		svc := NewAnalysisService(storage, &fakeFileStore{}, analyzer.New(), validation.NewValidator(0), cache)

		stored := &domain.Analysis{ID: 6}
		cache.On("GetAnalysis", mock.Anything, int64(6)).Return(nil, errors.New("connection refused"))
		storage.On("GetAnalysis", mock.Anything, int64(6)).Return(stored, nil)
		cache.On("PutAnalysis", mock.Anything, stored).Return(errors.New("connection refused"))

		got, err := svc.GetAnalysis(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("concurrent misses share one read", func(t *testing.T) {
		storage := new(MockStorage)
		svc := NewAnalysisService(storage, &fakeFileStore{}, analyzer.New(), validation.NewValidator(0), nil)

		stored := &domain.Analysis{ID: 7}
		storage.On("GetAnalysis", mock.Anything, int64(7)).
			WaitUntil(time.After(100*time.Millisecond)).
			Return(stored, nil)

		const callers = 8
		var wg sync.WaitGroup
		results := make([]*domain.Analysis, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				got, err := svc.GetAnalysis(ctx, 7)
				assert.NoError(t, err)
				results[i] = got
			}(i)
		}
		wg.Wait()

		for _, got := range results {
			assert.Equal(t, stored, got)
		}
		assert.Less(t, len(storage.Calls), callers)
	})
}

func newCachedService(t *testing.T, storage domain.Storage, c domain.Cache) AnalysisService {
	t.Helper()
	files, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return NewAnalysisService(storage, files, analyzer.New(), validation.NewValidator(1024*1024),
		NewAnalysisCacheService(c, time.Minute))
}

func TestAnalysisService_DeleteDuringCacheFill(t *testing.T) {
	ctx := context.Background()
	storage := newGatedStorage()
	cache := newMemoryCache()
	svc := newCachedService(t, storage, cache)

	created, err := svc.CreateAnalysis(ctx, swingUpload())
	require.NoError(t, err)

	// The reader loads the record, then stalls before filling the cache.
	storage.armed.Store(true)
	readerDone := make(chan error, 1)
	go func() {
		_, err := svc.GetAnalysis(ctx, created.ID)
		readerDone <- err
	}()
	<-storage.reached

	require.NoError(t, svc.DeleteAnalysis(ctx, created.ID))
	close(storage.release)
	require.NoError(t, <-readerDone)

	assert.Zero(t, cache.len(), "deleted record must not be cached")
	_, err = svc.GetAnalysis(ctx, created.ID)
	assertCode(t, err, domain.CodeNotFound)
	_, _, err = svc.OpenFile(ctx, created.ID)
	assertCode(t, err, domain.CodeNotFound)
}

func TestAnalysisService_GetAnalysis_CachesWithoutDelete(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	svc := newCachedService(t, newGatedStorage(), cache)

	created, err := svc.CreateAnalysis(ctx, swingUpload())
	require.NoError(t, err)

	_, err = svc.GetAnalysis(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.len())
}

func TestAnalysisService_GetAnalysis_SharedReadOutlivesCancelledCaller(t *testing.T) {
	storage := newGatedStorage()
	svc := newCachedService(t, storage, newMemoryCache())

	created, err := svc.CreateAnalysis(context.Background(), swingUpload())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := svc.GetAnalysis(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestAnalysisService_DeleteAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("removes record and binary, second delete is not found", func(t *testing.T) {
		f := newAnalysisFixture(t)
		a, err := f.svc.CreateAnalysis(ctx, swingUpload())
		require.NoError(t, err)

		require.NoError(t, f.svc.DeleteAnalysis(ctx, a.ID))
		assert.Empty(t, storedFiles(t, f.files.Dir()))

		_, err = f.svc.GetAnalysis(ctx, a.ID)
		assertCode(t, err, domain.CodeNotFound)

		err = f.svc.DeleteAnalysis(ctx, a.ID)
		assertCode(t, err, domain.CodeNotFound)
	})

	t.Run("binary removal failure does not block", func(t *testing.T) {
		storage := new(MockStorage)
		cache := new(MockAnalysisCacheService)
		files := &fakeFileStore{deleteFn: func(string) error { return errors.New("permission denied") }}
		svc := NewAnalysisService(storage, files, analyzer.New(), validation.NewValidator(0), cache)

		storage.On("GetAnalysis", mock.Anything, int64(8)).Return(&domain.Analysis{ID: 8, FileName: "x.mp4"}, nil)
		storage.On("DeleteAnalysis", mock.Anything, int64(8)).Return(true, nil)
		cache.On("InvalidateAnalysis", mock.Anything, int64(8)).Return(nil)

		require.NoError(t, svc.DeleteAnalysis(ctx, 8))
		assert.Equal(t, []string{"x.mp4"}, files.deleted)
		storage.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		storage := new(MockStorage)
		svc := NewAnalysisService(storage, &fakeFileStore{}, analyzer.New(), validation.NewValidator(0), nil)

		storage.On("GetAnalysis", mock.Anything, int64(9)).Return(nil, domain.NewStorageError("GetAnalysis", errors.New("timeout")))

		err := svc.DeleteAnalysis(ctx, 9)
		assertCode(t, err, domain.CodeStorage)
	})
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-02-29T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 8, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestAnalysisService_OpenFile(t *testing.T) {
	f := newAnalysisFixture(t)
	ctx := context.Background()

	a, err := f.svc.CreateAnalysis(ctx, swingUpload())
	require.NoError(t, err)

	got, file, err := f.svc.OpenFile(ctx, a.ID)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, a.ID, got.ID)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake video bytes"), content)

	_, _, err = f.svc.OpenFile(ctx, 999)
	assertCode(t, err, domain.CodeNotFound)

	require.NoError(t, f.files.Delete(a.FileName))
	_, _, err = f.svc.OpenFile(ctx, a.ID)
	assertCode(t, err, domain.CodeNotFound)
}
