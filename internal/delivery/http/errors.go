package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// Error codes returned in APIError.Code
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeEmptyInput     = "EMPTY_INPUT"
	CodeNotFound       = "NOT_FOUND"
	CodeNoRecipeData   = "NO_RECIPE_DATA"
	CodeFetchFailed    = "FETCH_FAILED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
)

// APIError is the body of every non-2xx JSON response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
	{domain.ErrEmptyInput, http.StatusUnprocessableEntity, CodeEmptyInput},
	{domain.ErrRecipeNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrNoRecipeData, http.StatusUnprocessableEntity, CodeNoRecipeData},
	{domain.ErrFetchFailure, http.StatusBadGateway, CodeFetchFailed},
	{domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited},
}

// statusForError maps a domain sentinel to an HTTP status and error code
func statusForError(err error) (int, string) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, CodeInternal
}

// respondError writes err as an APIError. Internal errors are not echoed to clients.
func respondError(c *gin.Context, err error) {
	status, code := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: APIError{Code: code, Message: message}})
}
