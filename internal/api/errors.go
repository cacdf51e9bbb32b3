package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/roach88/listq/internal/filter"
	"github.com/roach88/listq/internal/store"
)

// Error codes for ErrorObject.Code.
const (
	CodeMalformedFilter     = string(filter.ErrCodeMalformed)
	CodeAmbiguousExpression = string(filter.ErrCodeAmbiguous)
	CodeUnknownType         = "UNKNOWN_TYPE"
	CodeUnknownRelation     = "UNKNOWN_RELATION"
	CodeNotFound            = "NOT_FOUND"
	CodeBadParameter        = "BAD_PARAMETER"
	CodeNotAcceptable       = "NOT_ACCEPTABLE"
	CodeInternal            = "INTERNAL"
)

// APIError is an error carrying its HTTP status and error code.
type APIError struct {
	Status int
	Code   string
	Detail string
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return e.Code + ": " + e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(status int, code, detail string) *APIError {
	return &APIError{Status: status, Code: code, Detail: detail}
}

// classify maps an error from the request pipeline to an APIError.
//
//	*filter.Error          400 with the filter's code
//	store.ErrNotFound      404
//	*echo.HTTPError        its own status
//	anything else          500
func classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var ferr *filter.Error
	if errors.As(err, &ferr) {
		return &APIError{Status: http.StatusBadRequest, Code: string(ferr.Code), Detail: ferr.Error(), Err: err}
	}

	if errors.Is(err, store.ErrNotFound) {
		return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Detail: err.Error(), Err: err}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return &APIError{Status: httpErr.Code, Code: statusCode(httpErr.Code), Detail: fmt.Sprint(httpErr.Message), Err: err}
	}

	return &APIError{Status: http.StatusInternalServerError, Code: CodeInternal, Detail: "internal error", Err: err}
}

func statusCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusInternalServerError:
		return CodeInternal
	default:
		return "HTTP_" + strconv.Itoa(status)
	}
}

// errorHandler renders every handler error as a JSON:API error document.
// Internal errors are logged; their detail is not sent to the client.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	apiErr := classify(err)
	reqID := c.Response().Header().Get(echo.HeaderXRequestID)

	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", reqID,
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"error", err)
	} else {
		slog.Debug("request rejected",
			"request_id", reqID,
			"status", apiErr.Status,
			"code", apiErr.Code,
			"error", err)
	}

	doc := ErrorDocument{Errors: []ErrorObject{{
		ID:     reqID,
		Status: strconv.Itoa(apiErr.Status),
		Code:   apiErr.Code,
		Title:  http.StatusText(apiErr.Status),
		Detail: apiErr.Detail,
	}}}

	if err := writeJSON(c, apiErr.Status, doc); err != nil {
		slog.Error("failed to write error response", "request_id", reqID, "error", err)
	}
}
