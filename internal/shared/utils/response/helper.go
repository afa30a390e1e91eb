package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"seatify/internal/shared/apperrors"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error maps a tagged application error to its HTTP status and writes an
// error envelope carrying the error category. Untagged errors become 500s
// with a generic message.
func Error(c *gin.Context, err error) {
	c.JSON(apperrors.HTTPStatus(err), StandardApiResponse{
		Status:     "error",
		StatusCode: apperrors.HTTPStatus(err),
		Code:       string(apperrors.KindOf(err)),
		Message:    apperrors.MessageOf(err),
	})
}

// BadRequest writes a validation failure envelope with binding details.
func BadRequest(c *gin.Context, message string, details interface{}) {
	RespondJSON(c, "error", http.StatusBadRequest, message, nil, details)
}

// ValidationDetails flattens binding errors into per-field messages.
// Non-validator errors collapse to a single generic entry.
func ValidationDetails(err error) map[string]string {
	details := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["body"] = "request body is malformed"
		return details
	}

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			details[field] = "this field is required"
		case "min":
			details[field] = "must be at least " + fe.Param()
		default:
			details[field] = "failed " + fe.Tag() + " validation"
		}
	}
	return details
}
