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

package gitea

import (
	"encoding/json"
	"net/http"
	"strings"

	"code.gitea.io/sdk/gitea"

	"github.com/fluxcd/go-git-backup/gitprovider"
	"github.com/fluxcd/go-git-backup/validation"
)

// handleHTTPError checks the status of res, and returns typed variants of err.
// However, it _always_ keeps the original error too, and just wraps it in a MultiError.
// The consumer must use errors.Is and errors.As to check for equality and get data out of it.
func handleHTTPError(res *gitea.Response, err error) error {
	// Short-circuit quickly if possible, allow always piping through this function
	if err == nil {
		return nil
	}
	// No response means the request never made it, e.g. a network error
	if res == nil || res.Response == nil {
		return err
	}

	httpErr := gitprovider.HTTPError{
		Response:     res.Response,
		ErrorMessage: err.Error(),
		Message:      serverMessage(err.Error()),
	}
	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return validation.NewMultiError(err, &gitprovider.InvalidCredentialsError{HTTPError: httpErr})
	case http.StatusNotFound:
		return validation.NewMultiError(err, &httpErr, gitprovider.ErrNotFound)
	}
	return validation.NewMultiError(err, &httpErr)
}

// serverMessage extracts the "message" of the JSON body the SDK appends to some errors,
// e.g. `422 Unprocessable Entity: {"message":"...","url":"..."}`. msg is returned as is otherwise.
func serverMessage(msg string) string {
	idx := strings.Index(msg, "{")
	if idx < 0 {
		return msg
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(msg[idx:]), &body); err != nil || body.Message == "" {
		return msg
	}
	return body.Message
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
func validateTreeAPI(apiObj *gitea.GitTreeResponse) error {
	return validateAPIObject("Gitea.Tree", func(validator validation.Validator) {
		if apiObj == nil {
			validator.Required("Tree")
			return
		}
		if apiObj.SHA == "" {
			validator.Required("SHA")
		}
	})
}

// validateRepositoryAPI validates the apiObj received from the server, to make sure that it is
// valid for our use.
func validateRepositoryAPI(apiObj *gitea.Repository) error {
	return validateAPIObject("Gitea.Repository", func(validator validation.Validator) {
		if apiObj == nil {
			validator.Required("Repository")
			return
		}
		if apiObj.Name == "" {
			validator.Required("Name")
		}
	})
}
