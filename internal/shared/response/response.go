package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/validator/v10"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta describes one page of a paginated list.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewMeta derives the page bookkeeping from page, page size and total rows.
// An empty result still has one (empty) page.
func NewMeta(page, limit int, total int64) *Meta {
	totalPages := 1
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Error codes
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeNotFound         = "NOT_FOUND"
	CodeTooManyAttempts  = "TOO_MANY_ATTEMPTS"
	CodeInternal         = "INTERNAL_ERROR"
)

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, CodeBadRequest, message)
}

// NotAuthenticated rejects a request that carries no usable credentials.
func NotAuthenticated(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, CodeNotAuthenticated, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, CodeNotFound, message)
}

func TooManyRequests(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusTooManyRequests, CodeTooManyAttempts, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, CodeInternal, message)
}

// ValidationError writes a 400 whose details map each offending field to its message.
// Errors that carry no field information degrade to a plain bad request.
func ValidationError(c *gin.Context, err error) {
	details, ok := ValidationDetails(err)
	if !ok {
		BadRequest(c, err.Error())
		return
	}
	ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "Invalid input.", details)
}

// ValidationDetails flattens ozzo-validation and go-playground/validator errors
// into a field -> message map.
func ValidationDetails(err error) (map[string]string, bool) {
	var ozzoErrs validation.Errors
	if errors.As(err, &ozzoErrs) {
		details := make(map[string]string, len(ozzoErrs))
		flattenOzzo("", ozzoErrs, details)
		return details, len(details) > 0
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = fieldMessage(fe)
		}
		return details, len(details) > 0
	}

	return nil, false
}

func flattenOzzo(prefix string, errs validation.Errors, out map[string]string) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			flattenOzzo(key, nested, out)
			continue
		}
		out[key] = fieldErr.Error()
	}
}
