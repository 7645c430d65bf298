// internal/common/errors/handler.go
package errors

import "net/http"

// HTTPStatus maps an error code to the status the API surface returns.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeMissingPreferences, ErrCodeInvalidVibe, ErrCodeInvalidTheme, ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeMovieNotFound:
		return http.StatusNotFound
	case ErrCodeProviderNotReady:
		return http.StatusServiceUnavailable
	case ErrCodeProviderRequestFailed, ErrCodeRetrievalFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ToResponse converts any error into the API error body plus status code.
func ToResponse(err error) (int, ErrorResponse) {
	stdErr := AsStandardError(err)
	return HTTPStatus(stdErr.Code), ErrorResponse{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	}
}
