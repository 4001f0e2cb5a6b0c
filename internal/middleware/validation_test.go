package middleware_test

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"tennis-analyzer/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIDParam(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	vm := middleware.NewValidationMiddleware()
	app.Get("/analyses/:id", vm.ValidateIDParam("id"), func(c *fiber.Ctx) error {
		id, ok := middleware.ValidatedID(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(strconv.FormatInt(id, 10))
	})

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/analyses/42", fiber.StatusOK, "42"},
		{"/analyses/abc", fiber.StatusBadRequest, ""},
		{"/analyses/0", fiber.StatusBadRequest, ""},
		{"/analyses/-3", fiber.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}
