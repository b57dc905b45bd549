package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/uriz/internal/entity"
)

const statusError = "error"

// shortenRequest is the body of POST /api/v1/shorten.
type shortenRequest struct {
	URL string `json:"url" validate:"required,url,min=11,max=8192"`
}

type shortenResponse struct {
	Token    string `json:"token"`
	LongURL  string `json:"long_url"`
	ShortURL string `json:"short_url"`
}

// statsResponse carries the record behind a token. Created is the raw epoch
// value as stored, CreatedAt is the same instant formatted as RFC 3339 UTC.
type statsResponse struct {
	Token     string `json:"token"`
	LongURL   string `json:"long_url"`
	Visits    int64  `json:"visits"`
	Created   int64  `json:"created"`
	CreatedAt string `json:"created_at"`
}

func toStatsResponse(url *entity.ShortURL) statsResponse {
	return statsResponse{
		Token:     url.Token,
		LongURL:   url.LongURL,
		Visits:    url.Visits,
		Created:   url.CreatedAt,
		CreatedAt: time.Unix(url.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	urlNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "url not found",
	}

	storageUnavailableResponse = errorResponse{
		Status:  statusError,
		Message: "storage unavailable, try again later",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}
