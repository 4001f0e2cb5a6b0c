package handler

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/dto"
	"tennis-analyzer/internal/logger"
	"tennis-analyzer/internal/middleware"
	"tennis-analyzer/internal/service"
	"tennis-analyzer/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// AnalysisHandler handles upload and analysis HTTP requests
type AnalysisHandler struct {
	service service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler instance
func NewAnalysisHandler(service service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
	}
}

// ListAnalyses godoc
// @Summary List analyses
// @Description Returns analyses newest first, optionally filtered by owner, stroke and date
// @Tags analyses
// @Produce json
// @Param userId query int false "Owner user ID"
// @Param actionType query string false "Stroke type (forehand, backhand, serve, volley)"
// @Param since query string false "Only analyses on or after this date (YYYY-MM-DD)"
// @Param limit query int false "Page size (max 100)"
// @Param page query int false "Page number, 1-based (default 1)"
// @Success 200 {array} domain.Analysis
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /analyses [get]
func (h *AnalysisHandler) ListAnalyses(c *fiber.Ctx) error {
	var query dto.AnalysisListQuery
	if err := c.QueryParser(&query); err != nil {
		return domain.NewInvalidInputError("Invalid query parameters")
	}

	filter, err := parseAnalysisFilter(query)
	if err != nil {
		return err
	}

	analyses, err := h.service.ListAnalyses(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(analyses)
}

// parseAnalysisFilter reports every malformed parameter at once. Pagination is
// only applied when limit or page is given.
func parseAnalysisFilter(q dto.AnalysisListQuery) (domain.AnalysisFilter, error) {
	var (
		filter domain.AnalysisFilter
		errs   domain.ValidationErrors
	)

	if id, set, ok := dto.ParsePositive(strings.TrimSpace(q.UserID)); !ok {
		errs = append(errs, domain.NewInvalidFormatError("userId", q.UserID))
	} else if set {
		filter.UserID = &id
	}

	if raw := strings.ToLower(strings.TrimSpace(q.ActionType)); raw != "" && raw != "all" {
		if action := domain.ActionType(raw); action.IsValid() {
			filter.ActionType = action
		} else {
			errs = append(errs, domain.NewInvalidFormatError("actionType", q.ActionType))
		}
	}

	if raw := strings.TrimSpace(q.Since); raw != "" {
		since, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			errs = append(errs, domain.NewInvalidFormatError("since", raw))
		} else {
			filter.Since = since
		}
	}

	limit, limitSet, ok := dto.ParsePositive(strings.TrimSpace(q.Limit))
	if !ok {
		errs = append(errs, domain.NewInvalidFormatError("limit", q.Limit))
	} else if limit > maxPageSize {
		errs = append(errs, domain.NewOutOfRangeError("limit", limit, 1, maxPageSize))
	}
	page, pageSet, ok := dto.ParsePositive(strings.TrimSpace(q.Page))
	if !ok {
		errs = append(errs, domain.NewInvalidFormatError("page", q.Page))
	}

	if len(errs) > 0 {
		return domain.AnalysisFilter{}, errs
	}

	if limitSet || pageSet {
		p := newPagination(int(limit), int(page))
		filter.Limit = p.Limit
		filter.Offset = p.Offset
	}
	return filter, nil
}

func newPagination(limit, page int) dto.Pagination {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	return dto.Pagination{Limit: limit, Offset: offset, Page: page}
}

// GetAnalysis godoc
// @Summary Get an analysis
// @Description Returns a single analysis record
// @Tags analyses
// @Produce json
// @Param id path int true "Analysis ID"
// @Success 200 {object} domain.Analysis
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Analysis not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	id, ok := middleware.ValidatedID(c)
	if !ok {
		return domain.NewInvalidInputError("Invalid analysis ID")
	}

	analysis, err := h.service.GetAnalysis(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(analysis)
}

// CreateAnalysis godoc
// @Summary Upload a file for analysis
// @Description Accepts a multipart image or video, runs the analysis and stores the record
// @Tags analyses
// @Accept mpfd
// @Produce json
// @Param file formData file true "Image or video"
// @Param userId formData int false "Owner user ID"
// @Param actionDate formData string false "When the stroke was played (YYYY-MM-DD or RFC 3339)"
// @Success 201 {object} domain.Analysis
// @Failure 400 {object} middleware.ErrorResponse "No file uploaded"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /analyses [post]
func (h *AnalysisHandler) CreateAnalysis(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Get().Debug("Multipart upload without file", zap.Error(err))
		return domain.NewInvalidInputError("No file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}

	mimeType := fileHeader.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || strings.HasPrefix(mimeType, fiber.MIMEOctetStream) {
		if guessed := domain.MimeTypeForFileName(fileHeader.Filename); guessed != "" {
			mimeType = guessed
		}
	}

	return h.create(c, service.UploadRequest{
		UploadInput: validation.UploadInput{
			FileName: fileHeader.Filename,
			MimeType: mimeType,
			Size:     fileHeader.Size,
			Data:     data,
		},
		UserID:     c.FormValue("userId"),
		ActionDate: c.FormValue("actionDate"),
	})
}

// UploadBase64 godoc
// @Summary Upload a base64 encoded file for analysis
// @Description Accepts a JSON body with base64 (or data URL) file content
// @Tags analyses
// @Accept json
// @Produce json
// @Param request body dto.UploadRequest true "Upload"
// @Success 201 {object} domain.Analysis
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /upload [post]
func (h *AnalysisHandler) UploadBase64(c *fiber.Ctx) error {
	var req dto.UploadRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Invalid upload body", zap.Error(err))
		return domain.NewInvalidInputError("Invalid request body")
	}

	return h.create(c, service.UploadRequest{
		UploadInput: validation.UploadInput{
			FileName:   req.FileName,
			MimeType:   req.FileType,
			Size:       req.FileSize,
			Base64Data: req.FileData,
		},
		UserID:     string(req.UserID),
		ActionDate: req.ActionDate,
	})
}

func (h *AnalysisHandler) create(c *fiber.Ctx, req service.UploadRequest) error {
	analysis, err := h.service.CreateAnalysis(c.Context(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(analysis)
}

// DeleteAnalysis godoc
// @Summary Delete an analysis
// @Description Deletes the record and its stored file
// @Tags analyses
// @Produce json
// @Param id path int true "Analysis ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Analysis not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /analyses/{id} [delete]
func (h *AnalysisHandler) DeleteAnalysis(c *fiber.Ctx) error {
	id, ok := middleware.ValidatedID(c)
	if !ok {
		return domain.NewInvalidInputError("Invalid analysis ID")
	}

	if err := h.service.DeleteAnalysis(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.DeleteResponse{Success: true})
}

// GetAnalysisFile godoc
// @Summary Download the uploaded file
// @Description Streams the stored image or video of an analysis
// @Tags analyses
// @Produce octet-stream
// @Param id path int true "Analysis ID"
// @Success 200 {file} binary
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Analysis not found"
// @Failure 500 {object} middleware.ErrorResponse
// @Router /analyses/{id}/file [get]
func (h *AnalysisHandler) GetAnalysisFile(c *fiber.Ctx) error {
	id, ok := middleware.ValidatedID(c)
	if !ok {
		return domain.NewInvalidInputError("Invalid analysis ID")
	}

	analysis, file, err := h.service.OpenFile(c.Context(), id)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, analysis.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", analysis.OriginalFileName))
	// fasthttp closes the stream once the body is written.
	return c.SendStream(file, int(analysis.FileSize))
}
