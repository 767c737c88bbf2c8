/*
Copyright 2020 The Flux CD contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package gitprovider

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidArgument describes a generic error where an invalid argument have been specified to a function.
	ErrInvalidArgument = errors.New("invalid argument specified")

	// ErrAlreadyExists is returned by CreateRepository if the repository already exists.
	ErrAlreadyExists = errors.New("resource already exists, cannot create object")
	// ErrNotFound is returned if the given resource doesn't exist, e.g. a path that isn't in the tree.
	ErrNotFound = errors.New("the requested resource was not found")
	// ErrInvalidServerData is returned when the server returned invalid data, e.g. missing required fields in the response.
	ErrInvalidServerData = errors.New("got invalid data from server, don't know how to handle")

	// ErrInvalidClientOptions is the error returned when calling NewClient() with
	// invalid options (e.g. specifying mutually exclusive options).
	ErrInvalidClientOptions = errors.New("invalid options given to NewClient()")
	// ErrInvalidTransportChainReturn is returned if a ChainableRoundTripperFunc returns nil, which is invalid.
	ErrInvalidTransportChainReturn = errors.New("the return value of a ChainableRoundTripperFunc must not be nil")
)

// ConfigurationError is returned by the providers' NewClient when the given Config
// can't be used. It is the only error returned before any request is made.
type ConfigurationError struct {
	// Err holds the validation error(s), e.g. wrapping ErrMissingAccessToken.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

// Unwrap returns the underlying validation error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// HTTPError is an error that contains context about the HTTP request/response that failed.
type HTTPError struct {
	// HTTP response that caused this error.
	Response *http.Response `json:"-"`
	// Full error message, human-friendly and formatted.
	ErrorMessage string `json:"errorMessage"`
	// Message about what happened, as returned by the server.
	Message string `json:"message"`
	// Where to find more information about the error.
	DocumentationURL string `json:"documentationURL"`
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.ErrorMessage
}

// StatusCode returns the HTTP status code of the failed response, or 0 if unknown.
func (e *HTTPError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// httpError gives access to the HTTPError embedded in all the HTTP error types.
func (e *HTTPError) httpError() *HTTPError {
	return e
}

// ValidationError is an error, extending HTTPError, that contains context about failed server-side validation.
type ValidationError struct {
	// ValidationError extends HTTPError.
	HTTPError `json:",inline"`

	// Errors contain context about what validation(s) failed.
	Errors []ValidationErrorItem `json:"errors"`
}

// ValidationErrorItem represents a single invalid field in an invalid request.
type ValidationErrorItem struct {
	// Resource on which the error occurred.
	Resource string `json:"resource"`
	// Field on which the error occurred.
	Field string `json:"field"`
	// Code for the validation error.
	Code string `json:"code"`
	// Message describing the error. Errors with Code == "custom" will always have this set.
	Message string `json:"message"`
}

// InvalidCredentialsError describes that that the request login credentials (e.g. an access token)
// was invalid (i.e. a 401 Unauthorized or 403 Forbidden status was returned). This does NOT mean that
// "the login was successful but you don't have permission to access this resource". In that case, a
// 404 Not Found error would be returned.
type InvalidCredentialsError struct {
	// InvalidCredentialsError extends HTTPError.
	HTTPError `json:",inline"`
}
