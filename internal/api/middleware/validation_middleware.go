package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ValidationMiddleware handles request validation
type ValidationMiddleware struct {
	validator *validator.Validate
}

// NewValidationMiddleware creates a new validation middleware
func NewValidationMiddleware() *ValidationMiddleware {
	v := validator.New()
	v.RegisterValidation("not_empty", validateNotEmpty)

	return &ValidationMiddleware{validator: v}
}

// ValidateQuery validates query parameters against the provided struct
func (m *ValidationMiddleware) ValidateQuery(model interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		modelType := reflect.TypeOf(model)
		if modelType.Kind() == reflect.Ptr {
			modelType = modelType.Elem()
		}
		modelValue := reflect.New(modelType).Interface()

		if err := c.ShouldBindQuery(modelValue); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
			c.Abort()
			return
		}

		if err := m.validator.Struct(modelValue); err != nil {
			errs := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errs[strings.ToLower(fieldErr.Field())] = formatValidationError(fieldErr)
			}

			log.Warn("Query validation failed",
				zap.Any("errors", errs),
				zap.String("path", c.Request.URL.Path))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": errs,
			})
			c.Abort()
			return
		}

		c.Set("validated_query", modelValue)
		c.Next()
	}
}

func validateNotEmpty(fl validator.FieldLevel) bool {
	return len(strings.TrimSpace(fl.Field().String())) > 0
}

func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "not_empty":
		return "this field cannot be empty"
	default:
		return "invalid value"
	}
}
