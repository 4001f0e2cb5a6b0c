package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/filestore"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UploadRequest is one upload as received from a client. UserID and
// ActionDate are raw strings so that every malformed field can be reported
// together.
type UploadRequest struct {
	validation.UploadInput
	UserID     string
	ActionDate string
}

// AnalysisService orchestrates uploads and the analysis lifecycle.
type AnalysisService interface {
	CreateAnalysis(ctx context.Context, req UploadRequest) (*domain.Analysis, error)
	ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error)
	GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error)
	DeleteAnalysis(ctx context.Context, id int64) error
	// OpenFile returns the record together with its stored binary; the caller closes it.
	OpenFile(ctx context.Context, id int64) (*domain.Analysis, io.ReadSeekCloser, error)
}

type analysisServiceImpl struct {
	storage   domain.Storage
	files     filestore.FileStore
	generator domain.AnalysisGenerator
	validator *validation.Validator
	cache     AnalysisCacheService
	loads     singleflight.Group

	// cacheMu orders cache fills against delete invalidations. deletes
	// counts completed deletes; a fill that raced one is dropped.
	cacheMu sync.Mutex
	deletes uint64
}

// sharedLoadTimeout bounds a storage read shared by concurrent callers.
const sharedLoadTimeout = 10 * time.Second

// NewAnalysisService creates a new instance of AnalysisService. cache may be nil.
func NewAnalysisService(
	storage domain.Storage,
	files filestore.FileStore,
	generator domain.AnalysisGenerator,
	validator *validation.Validator,
	cache AnalysisCacheService,
) AnalysisService {
	return &analysisServiceImpl{
		storage:   storage,
		files:     files,
		generator: generator,
		validator: validator,
		cache:     cache,
	}
}

// parsedUpload is an UploadRequest that passed validation.
type parsedUpload struct {
	data       []byte
	kind       domain.MediaKind
	userID     *int64
	actionDate *time.Time
}

func (s *analysisServiceImpl) parseUpload(req UploadRequest) (*parsedUpload, error) {
	errs := s.validator.ValidateUpload(req.UploadInput)
	out := &parsedUpload{data: req.Data}

	if len(out.data) == 0 && strings.TrimSpace(req.Base64Data) != "" {
		data, err := validation.DecodeFileData(req.Base64Data)
		if err != nil {
			errs = append(errs, domain.NewFieldError("fileData", "fileData must be base64 encoded file content"))
		}
		out.data = data
	}
	errs = append(errs, s.validator.ValidatePayloadSize(int64(len(out.data)))...)

	if raw := strings.TrimSpace(req.UserID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, domain.NewInvalidFormatError("userId", raw))
		} else {
			out.userID = &id
		}
	}

	if raw := strings.TrimSpace(req.ActionDate); raw != "" {
		t, err := ParseDate(raw)
		if err != nil {
			errs = append(errs, domain.NewInvalidFormatError("actionDate", raw))
		} else {
			out.actionDate = &t
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	out.kind, _ = domain.MediaKindFor(req.MimeType)
	return out, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC midnight).
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, raw)
}

// CreateAnalysis validates, stores the binary, generates and persists the record.
func (s *analysisServiceImpl) CreateAnalysis(ctx context.Context, req UploadRequest) (*domain.Analysis, error) {
	upload, err := s.parseUpload(req)
	if err != nil {
		return nil, err
	}

	if upload.userID != nil {
		user, err := s.storage.GetUser(ctx, *upload.userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ValidationErrors{
				domain.NewFieldError("userId", fmt.Sprintf("user %d does not exist", *upload.userID)),
			}
		}
	}

	storedName, written, err := s.files.Save(bytes.NewReader(upload.data), req.FileName)
	if err != nil {
		return nil, domain.NewInternalError("Failed to store uploaded file", err)
	}

	generated, err := s.generator.Generate(ctx, domain.FileMeta{
		FileName: storedName,
		MimeType: req.MimeType,
		Size:     written,
		Kind:     upload.kind,
	})
	if err != nil {
		s.removeOrphan(storedName, err)
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, domain.NewInternalError("Failed to analyze upload", err)
	}

	record := &domain.NewAnalysis{
		UserID:           upload.userID,
		FileName:         storedName,
		OriginalFileName: strings.TrimSpace(req.FileName),
		FileType:         upload.kind,
		MimeType:         strings.ToLower(strings.TrimSpace(req.MimeType)),
		FileSize:         written,
		ActionType:       generated.ActionType,
		ActionStage:      generated.ActionStage,
		Scores:           generated.Scores,
		Feedback:         generated.Feedback,
		Keypoints:        generated.Keypoints,
		Connections:      generated.Connections,
		Observations:     generated.Observations,
		Suggestions:      generated.Suggestions,
		ActionDate:       upload.actionDate,
	}
	if errs := s.validator.ValidateInsert(record); len(errs) > 0 {
		s.removeOrphan(storedName, errs)
		return nil, errs
	}

	created, err := s.storage.CreateAnalysis(ctx, record)
	if err != nil {
		s.removeOrphan(storedName, err)
		return nil, err
	}

	logger.Get().Info("Analysis created",
		zap.Int64("analysisID", created.ID),
		zap.String("fileName", created.FileName),
		zap.String("actionType", string(created.ActionType)),
		zap.Int("overallScore", created.Scores.Overall))
	return created, nil
}

// removeOrphan deletes a binary whose record could not be created.
func (s *analysisServiceImpl) removeOrphan(storedName string, cause error) {
	l := logger.Get().With(zap.String("fileName", storedName), zap.NamedError("cause", cause))
	if err := s.files.Delete(storedName); err != nil {
		l.Error("Failed to remove orphaned upload", zap.Error(err))
		return
	}
	l.Warn("Removed orphaned upload after failed analysis creation")
}

func (s *analysisServiceImpl) ListAnalyses(ctx context.Context, filter domain.AnalysisFilter) ([]*domain.Analysis, error) {
	return s.storage.GetAnalyses(ctx, filter)
}

// GetAnalysis reads through the cache when one is configured.
func (s *analysisServiceImpl) GetAnalysis(ctx context.Context, id int64) (*domain.Analysis, error) {
	if s.cache != nil {
		cached, err := s.cache.GetAnalysis(ctx, id)
		if err != nil {
			logger.Get().Error("AnalysisService: cache read failed", zap.Int64("analysisID", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	// Concurrent misses for the same id share one storage read, which must
	// not fail because the caller that started it went away.
	res, err, _ := s.loads.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()

		epoch := s.deleteEpoch()
		analysis, err := s.storage.GetAnalysis(loadCtx, id)
		if err != nil {
			return nil, err
		}
		if analysis == nil {
			return nil, domain.NewAnalysisNotFoundError().WithContext("id", id)
		}
		s.fillCache(loadCtx, analysis, epoch)
		return analysis, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*domain.Analysis), nil
}

func (s *analysisServiceImpl) deleteEpoch() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.deletes
}

// fillCache stores a record read at epoch unless a delete finished since.
func (s *analysisServiceImpl) fillCache(ctx context.Context, analysis *domain.Analysis, epoch uint64) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.deletes != epoch {
		logger.Get().Debug("AnalysisService: skipping cache fill after concurrent delete", zap.Int64("analysisID", analysis.ID))
		return
	}
	if err := s.cache.PutAnalysis(ctx, analysis); err != nil {
		logger.Get().Error("AnalysisService: cache write failed", zap.Int64("analysisID", analysis.ID), zap.Error(err))
	}
}

// DeleteAnalysis removes the binary best-effort, then the record, then the cache entry.
func (s *analysisServiceImpl) DeleteAnalysis(ctx context.Context, id int64) error {
	analysis, err := s.storage.GetAnalysis(ctx, id)
	if err != nil {
		return err
	}
	if analysis == nil {
		return domain.NewAnalysisNotFoundError().WithContext("id", id)
	}

	if err := s.files.Delete(analysis.FileName); err != nil {
		logger.Get().Warn("Failed to delete uploaded file",
			zap.Int64("analysisID", id), zap.String("fileName", analysis.FileName), zap.Error(err))
	}

	deleted, err := s.storage.DeleteAnalysis(ctx, id)
	if err != nil {
		return err
	}

	s.loads.Forget(strconv.FormatInt(id, 10))
	s.invalidate(ctx, id)

	if !deleted {
		// Removed concurrently between lookup and delete.
		return domain.NewAnalysisNotFoundError().WithContext("id", id)
	}
	logger.Get().Info("Analysis deleted", zap.Int64("analysisID", id))
	return nil
}

// invalidate bumps the delete epoch and drops the cache entry in one step, so
// a reader that loaded the record earlier cannot write it back afterwards.
func (s *analysisServiceImpl) invalidate(ctx context.Context, id int64) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.deletes++
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAnalysis(ctx, id); err != nil {
		logger.Get().Error("AnalysisService: cache invalidation failed", zap.Int64("analysisID", id), zap.Error(err))
	}
}

func (s *analysisServiceImpl) OpenFile(ctx context.Context, id int64) (*domain.Analysis, io.ReadSeekCloser, error) {
	analysis, err := s.GetAnalysis(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	file, err := s.files.Open(analysis.FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.NewNotFoundError("File not found").WithContext("id", id)
		}
		return nil, nil, domain.NewInternalError("Failed to open uploaded file", err)
	}
	return analysis, file, nil
}
