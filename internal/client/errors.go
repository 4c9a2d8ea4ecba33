package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrEndpointRequired = errors.New("endpoint is required")

// ResponseError reports a status other than the one an operation expects.
type ResponseError struct {
	Response *Response
}

func (e *ResponseError) Error() string {
	details := e.Response.Status
	if details == "" {
		details = fmt.Sprintf("%d %s", e.Response.StatusCode, http.StatusText(e.Response.StatusCode))
	}
	if msg := apiErrorMessage(e.Response.Body); msg != "" {
		return fmt.Sprintf("server returned an error: %s: %s", details, msg)
	}
	return "server returned an error: " + details
}

// ResourceNotFoundError reports a 404. It unwraps to a *ResponseError so
// callers handling every failed response match it too.
type ResourceNotFoundError struct {
	Response *Response
}

func (e *ResourceNotFoundError) Error() string {
	return "404 resource not found"
}

func (e *ResourceNotFoundError) Unwrap() error {
	return &ResponseError{Response: e.Response}
}

type apiErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorBody struct {
	Error *apiErrorDetail `json:"error"`
}

func apiErrorMessage(body []byte) string {
	var parsed apiErrorBody
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil || parsed.Error == nil {
		return ""
	}
	if parsed.Error.Code == "" {
		return parsed.Error.Message
	}
	return parsed.Error.Code + ": " + parsed.Error.Message
}

func checkStatus(resp *Response, expected int) error {
	if resp.StatusCode == http.StatusNotFound {
		return &ResourceNotFoundError{Response: resp}
	}
	if resp.StatusCode != expected {
		return &ResponseError{Response: resp}
	}
	return nil
}
