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

package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v55/github"

	"github.com/fluxcd/go-git-backup/gitprovider"
	"github.com/fluxcd/go-git-backup/validation"
)

const (
	alreadyExistsMagicString = "name already exists on this account"
)

// handleHTTPError checks the type of err, and returns typed variants of it
// However, it _always_ keeps the original error too, and just wraps it in a MultiError
// The consumer must use errors.Is and errors.As to check for equality and get data out of it
func handleHTTPError(err error) error {
	// Short-circuit quickly if possible, allow always piping through this function
	if err == nil {
		return nil
	}
	ghRateLimitError := &github.RateLimitError{}
	ghErrorResponse := &github.ErrorResponse{}
	if errors.As(err, &ghRateLimitError) {
		// Rate limits aren't handled in any special way, but the payload is still logged
		return validation.NewMultiError(err, &gitprovider.HTTPError{
			Response:     ghRateLimitError.Response,
			ErrorMessage: ghRateLimitError.Error(),
			Message:      ghRateLimitError.Message,
		})
	} else if errors.As(err, &ghErrorResponse) {
		httpErr := gitprovider.HTTPError{
			Response:         ghErrorResponse.Response,
			ErrorMessage:     ghErrorResponse.Error(),
			Message:          ghErrorResponse.Message,
			DocumentationURL: ghErrorResponse.DocumentationURL,
		}
		statusCode := 0
		if ghErrorResponse.Response != nil {
			statusCode = ghErrorResponse.Response.StatusCode
		}
		// Check for invalid credentials, and return a typed error in that case
		if statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized {
			return validation.NewMultiError(err,
				&gitprovider.InvalidCredentialsError{HTTPError: httpErr},
			)
		}
		// Check for 404 Not Found
		if statusCode == http.StatusNotFound {
			return validation.NewMultiError(err, &httpErr, gitprovider.ErrNotFound)
		}
		// Server-side validation errors carry the items rendered in the error log block
		if len(ghErrorResponse.Errors) != 0 {
			validationErr := &gitprovider.ValidationError{
				HTTPError: httpErr,
				Errors:    make([]gitprovider.ValidationErrorItem, 0, len(ghErrorResponse.Errors)),
			}
			alreadyExists := false
			for _, item := range ghErrorResponse.Errors {
				validationErr.Errors = append(validationErr.Errors, gitprovider.ValidationErrorItem{
					Resource: item.Resource,
					Field:    item.Field,
					Code:     item.Code,
					Message:  item.Message,
				})
				alreadyExists = alreadyExists || item.Message == alreadyExistsMagicString
			}
			// Check for already exists errors
			if alreadyExists {
				return validation.NewMultiError(err, validationErr, gitprovider.ErrAlreadyExists)
			}
			return validation.NewMultiError(err, validationErr)
		}
		// Otherwise, return a generic *HTTPError
		return validation.NewMultiError(err, &httpErr)
	}
	// Do nothing, just pipe through the unknown err
	return err
}

// validateAPIObject creates a Validatior with the specified name, gives it to fn, and
// depending on if any error was registered with it; either returns nil, or a MultiError
// with both the validation error and ErrInvalidServerData, to mark that the server data
// was invalid.
func validateAPIObject(name string, fn func(validation.Validator)) error {
	v := validation.New(name)
	fn(v)
	// If there was a validation error, also mark it specifically as invalid server data
	if err := v.Error(); err != nil {
		return validation.NewMultiError(err, gitprovider.ErrInvalidServerData)
	}
	return nil
}

// validateTreeAPI validates the apiObj received from the server, to make sure that it is
// valid for our use.
func validateTreeAPI(apiObj *github.Tree) error {
	return validateAPIObject("GitHub.Tree", func(validator validation.Validator) {
		if apiObj.SHA == nil {
			validator.Required("SHA")
		}
		for _, entry := range apiObj.Entries {
			if entry == nil || entry.Path == nil {
				validator.Required("Entries", "Path")
				return
			}
		}
	})
}

// validateBlobAPI validates the apiObj received from the server, to make sure that it is
// valid for our use.
func validateBlobAPI(apiObj *github.Blob) error {
	return validateAPIObject("GitHub.Blob", func(validator validation.Validator) {
		if apiObj.Content == nil {
			validator.Required("Content")
		}
	})
}

// validateRepositoryAPI validates the apiObj received from the server, to make sure that it is
// valid for our use.
func validateRepositoryAPI(apiObj *github.Repository) error {
	return validateAPIObject("GitHub.Repository", func(validator validation.Validator) {
		if apiObj.Name == nil {
			validator.Required("Name")
		}
	})
}
