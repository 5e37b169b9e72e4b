package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/KiramZodiac/sdms-mobile-shopfront-sub000/pkg/errors"
)

// UpstreamErrorResponse mirrors the JSON error envelope returned by the hosted
// backend's REST endpoints. It is used to parse structured error bodies from
// upstream HTTP calls.
type UpstreamErrorResponse struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// Flat shape used by the hosted backend's table endpoints.
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and translates
// it into an appropriate AppError. If the response body matches a structured
// error format, the code and message are preserved. Otherwise a generic error
// is returned with the status code and raw body.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, upstreamName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", upstreamName, resp.StatusCode, err)
	}

	var upstream UpstreamErrorResponse
	if json.Unmarshal(bodyBytes, &upstream) == nil {
		if upstream.Error != nil {
			return mapUpstreamError(resp.StatusCode, upstream.Error.Code, upstream.Error.Message, upstreamName)
		}
		if upstream.Message != "" {
			return mapUpstreamError(resp.StatusCode, upstream.Code, upstream.Message, upstreamName)
		}
	}

	// Fallback: unstructured error body.
	return fmt.Errorf("%s returned status %d: %s", upstreamName, resp.StatusCode, string(bodyBytes))
}

// mapUpstreamError translates an upstream HTTP status code and error code into
// an AppError that preserves the error semantics.
func mapUpstreamError(status int, code, message, upstreamName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", upstreamName, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(upstreamName, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualifiedMsg)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualifiedMsg)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualifiedMsg)
	case status >= 500:
		return fmt.Errorf("%s server error (%d/%s): %s", upstreamName, status, code, message)
	default:
		return &apperrors.AppError{
			Code:    code,
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
