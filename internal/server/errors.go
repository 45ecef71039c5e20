// Package server provides the SkillMatch HTTP API: resume analysis, the
// resume builder, feedback and the admin dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/extract"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/roles"
	"github.com/jonathan/skillmatch/internal/types"
)

// ErrStoreUnavailable is returned by endpoints that need a database when none is configured.
var ErrStoreUnavailable = errors.New("storage is not configured")

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		credentials *ErrInvalidCredentials
		invalid     *ErrValidation
		fieldErrs   validator.ValidationErrors
		tooLarge    *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &credentials):
		return http.StatusUnauthorized
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalid),
		errors.As(err, &fieldErrs),
		errors.Is(err, pipeline.ErrEmptyResume),
		errors.Is(err, analyzer.ErrInvalidArgument),
		errors.Is(err, builder.ErrUnknownTemplate):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrNoText),
		errors.Is(err, ingestion.ErrEmptyContent),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	case errors.Is(err, db.ErrResumeNotFound),
		errors.Is(err, roles.ErrCategoryNotFound),
		errors.Is(err, roles.ErrRoleNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrAdminExists):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON error payload. Details lists field-level validation
// failures.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func newErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		body.Error = "validation failed"
		body.Details = types.ValidationMessages(fieldErrs)
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	return body
}
