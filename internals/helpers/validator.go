package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateStruct runs validator/v10 tags over a DTO.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationErrorResponse converts a validator error into the standard 422 shape.
func ValidationErrorResponse(c *fiber.Ctx, err error) error {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fieldErrors := make(map[string][]string, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		fieldErrors[field] = append(fieldErrors[field], fe.Tag())
	}
	return JsonValidationError(c, fieldErrors)
}
