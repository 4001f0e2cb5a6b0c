package middleware

import (
	"errors"
	"net/http"
	"tennis-analyzer/internal/domain"
	"tennis-analyzer/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-validation failure.
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse lists every malformed field of a rejected request.
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

const genericServerMessage = "Internal server error"

// ErrorHandler renders handler errors as JSON. Causes of 5xx errors are
// logged but never sent to the client.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(
			zap.String("request_id", RequestID(c)),
			zap.String("path", c.Path()),
		)

		var (
			validationErrs domain.ValidationErrors
			domainErr      *domain.DomainError
			fiberErr       *fiber.Error
		)
		switch {
		case errors.As(err, &validationErrs):
			return renderValidation(c, log, validationErrs)
		case errors.As(err, &domainErr):
			return renderDomain(c, log, domainErr)
		case errors.As(err, &fiberErr):
			log.Warn("Request rejected by router", zap.Int("status", fiberErr.Code), zap.String("reason", fiberErr.Message))
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unhandled error", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: genericServerMessage,
			Status:  http.StatusInternalServerError,
		})
	}
}

func renderValidation(c *fiber.Ctx, log *zap.Logger, errs domain.ValidationErrors) error {
	log.Warn("Request failed validation", zap.Int("error_count", len(errs)), zap.Error(errs))

	code := domain.CodeValidation
	if errs.HasCode(domain.CodeUnsupportedMedia) {
		code = domain.CodeUnsupportedMedia
	}
	return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
		Code:    string(code),
		Message: "Request validation failed: " + errs.Error(),
		Status:  http.StatusBadRequest,
		Errors:  errs,
	})
}

func renderDomain(c *fiber.Ctx, log *zap.Logger, err *domain.DomainError) error {
	status := statusForCode(err.Code)
	fields := []zap.Field{
		zap.String("code", string(err.Code)),
		zap.String("message", err.Message),
		zap.Int("status", status),
		zap.Any("context", err.Context),
	}
	if err.Cause != nil {
		fields = append(fields, zap.NamedError("cause", err.Cause))
	}

	resp := ErrorResponse{Code: string(err.Code), Message: err.Message, Status: status}
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
		resp.Message = genericServerMessage
	} else {
		log.Info("Request refused", fields...)
		if len(err.Context) > 0 {
			resp.Details = err.Context
		}
	}
	return c.Status(status).JSON(resp)
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField,
		domain.CodeInvalidFormat, domain.CodeOutOfRange, domain.CodeUnsupportedMedia:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
