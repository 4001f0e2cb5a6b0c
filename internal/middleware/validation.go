package middleware

import (
	"strconv"
	"tennis-analyzer/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// IDKey is the fiber.Locals key holding a validated path id.
const IDKey = "validated_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct{}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{}
}

// ValidateIDParam requires the named path parameter to be a positive integer.
func (vm *ValidationMiddleware) ValidateIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params(name)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.ValidationErrors{
				domain.NewInvalidFormatError(name, raw),
			} // This will be handled by ErrorHandler middleware
		}

		// Store validated value in context for handlers to use
		c.Locals(IDKey, id)
		return c.Next()
	}
}

// ValidatedID returns the id stored by ValidateIDParam.
func ValidatedID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(IDKey).(int64)
	return id, ok
}
