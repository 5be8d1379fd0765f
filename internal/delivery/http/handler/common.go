package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the error structure
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the generic success structure
type SuccessResponse struct {
	Message string `json:"message"`
}

// bindingError turns gin binding failures into a readable message, listing
// the offending fields when the validator produced them.
func bindingError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return "invalid request fields: " + strings.Join(fields, ", ")
	}
	return "invalid request body"
}

// userID reads the authenticated user ID set by the auth middleware.
func userID(c *gin.Context) uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
