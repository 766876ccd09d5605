// Package domain provides canonical error types for the gateway.
package domain

import (
	"fmt"
	"net/http"
)

// Kind is the taxonomy of failures the translation core can produce. Every
// Kind maps to one OpenAI error.type and a default HTTP status; an
// APIError's Status field (set for UpstreamError) overrides that status.
type Kind string

const (
	KindInvalidParameter     Kind = "invalid_parameter"
	KindMissingRequiredField Kind = "missing_required_field"
	KindBadRequest           Kind = "bad_request"
	KindUnauthorized         Kind = "unauthorized"
	KindForbidden            Kind = "forbidden"
	KindNotFound             Kind = "not_found"
	KindRateLimited          Kind = "rate_limited"
	KindUpstreamError        Kind = "upstream_error"
	KindServiceUnavailable   Kind = "service_unavailable"
	KindServerConfiguration  Kind = "server_configuration"
	KindNetworkTimeout       Kind = "network_timeout"
	KindNetworkConnect       Kind = "network_connect"
	KindResponseParse        Kind = "response_parse"
	KindSerde                Kind = "serde"
)

// APIError is the canonical error type threaded through the translation
// core. It carries everything needed to render both a JSON error body and
// an SSE error chunk without re-deriving the mapping at the call site.
type APIError struct {
	Kind    Kind
	Field   string // populated for InvalidParameter / MissingRequiredField
	Message string

	// Status overrides the kind's default HTTP status, used for
	// UpstreamError(status, msg) which echoes the upstream's own status.
	Status int

	// RetryAfter preserves an upstream Retry-After header, when present, so
	// RateLimited bodies can surface it to the client.
	RetryAfter string
}

func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatusCode returns the HTTP status this error maps to.
func (e *APIError) HTTPStatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindInvalidParameter, KindMissingRequiredField, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindServiceUnavailable, KindServerConfiguration:
		return http.StatusServiceUnavailable
	case KindNetworkTimeout:
		return http.StatusGatewayTimeout
	case KindNetworkConnect:
		return http.StatusBadGateway
	case KindResponseParse, KindSerde:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorType returns the OpenAI error.type string for this error's kind.
func (e *APIError) ErrorType() string {
	switch e.Kind {
	case KindInvalidParameter, KindMissingRequiredField, KindBadRequest, KindNotFound:
		return "invalid_request_error"
	case KindUnauthorized:
		return "authentication_error"
	case KindForbidden:
		return "permission_error"
	case KindRateLimited:
		return "rate_limit_error"
	default:
		return "api_error"
	}
}

// ErrorCode returns the OpenAI error.code string for this error's kind, or
// "" when the taxonomy defines none.
func (e *APIError) ErrorCode() string {
	switch e.Kind {
	case KindMissingRequiredField:
		return "missing_field"
	case KindInvalidParameter, KindBadRequest:
		return "invalid_parameter"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limit_exceeded"
	case KindUpstreamError:
		return "upstream_error"
	case KindServiceUnavailable, KindServerConfiguration:
		return "unavailable"
	case KindNetworkTimeout:
		return "timeout"
	case KindNetworkConnect:
		return "bad_gateway"
	case KindResponseParse, KindSerde:
		return "internal"
	default:
		return ""
	}
}

// Body is the `{"error": {...}}` shape every error, streaming or not, is
// rendered as.
type Body struct {
	Error BodyDetail `json:"error"`
}

// BodyDetail is the inner error object of Body.
type BodyDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Code    *string `json:"code"`
}

// ToBody renders e as the OpenAI-shaped error body.
func (e *APIError) ToBody() Body {
	msg := e.Message
	if e.RetryAfter != "" {
		msg = fmt.Sprintf("%s (retry after %s seconds)", msg, e.RetryAfter)
	}
	var code *string
	if c := e.ErrorCode(); c != "" {
		code = &c
	}
	return Body{Error: BodyDetail{Message: msg, Type: e.ErrorType(), Code: code}}
}

// ErrInvalidParameter reports a request field with an invalid value.
func ErrInvalidParameter(field, reason string) *APIError {
	return &APIError{Kind: KindInvalidParameter, Field: field, Message: fmt.Sprintf("%s: %s", field, reason)}
}

// ErrMissingRequiredField reports an absent required request field.
func ErrMissingRequiredField(field string) *APIError {
	return &APIError{Kind: KindMissingRequiredField, Field: field, Message: fmt.Sprintf("missing required field: %s", field)}
}

// ErrBadRequest reports a generic malformed request.
func ErrBadRequest(message string) *APIError {
	return &APIError{Kind: KindBadRequest, Message: message}
}

// ErrUnauthorized reports a missing or invalid credential.
func ErrUnauthorized(message string) *APIError {
	return &APIError{Kind: KindUnauthorized, Message: message}
}

// ErrForbidden reports a permission failure.
func ErrForbidden(message string) *APIError {
	return &APIError{Kind: KindForbidden, Message: message}
}

// ErrNotFound reports a missing resource.
func ErrNotFound(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

// ErrRateLimited reports a rate-limit rejection, optionally preserving the
// upstream's Retry-After value.
func ErrRateLimited(message, retryAfter string) *APIError {
	return &APIError{Kind: KindRateLimited, Message: message, RetryAfter: retryAfter}
}

// ErrUpstream reports a failure the upstream itself returned, echoing its
// HTTP status.
func ErrUpstream(status int, message string) *APIError {
	return &APIError{Kind: KindUpstreamError, Status: status, Message: message}
}

// ErrServiceUnavailable reports the gateway being unable to serve a request.
func ErrServiceUnavailable(message string) *APIError {
	return &APIError{Kind: KindServiceUnavailable, Message: message}
}

// ErrServerConfiguration reports a misconfigured gateway (e.g. missing
// bearer token).
func ErrServerConfiguration(message string) *APIError {
	return &APIError{Kind: KindServerConfiguration, Message: message}
}

// ErrNetworkTimeout reports an upstream call that timed out.
func ErrNetworkTimeout(message string) *APIError {
	return &APIError{Kind: KindNetworkTimeout, Message: message}
}

// ErrNetworkConnect reports a failure to establish the upstream connection.
func ErrNetworkConnect(message string) *APIError {
	return &APIError{Kind: KindNetworkConnect, Message: message}
}

// ErrResponseParse reports a failure to parse the upstream's response body,
// or (per the tool-call extractor) malformed tool-call markup.
func ErrResponseParse(message string) *APIError {
	return &APIError{Kind: KindResponseParse, Message: message}
}

// ErrSerde reports a JSON encode/decode failure outside the response body
// itself (e.g. re-serializing extracted tool-call arguments).
func ErrSerde(message string) *APIError {
	return &APIError{Kind: KindSerde, Message: message}
}
