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
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v55/github"
	"github.com/hashicorp/go-multierror"

	"github.com/fluxcd/go-git-backup/gitprovider"
	"github.com/fluxcd/go-git-backup/validation"
)

func Test_validateAPIObject(t *testing.T) {
	tests := []struct {
		name         string
		structName   string
		fn           func(validation.Validator)
		expectedErrs []error
	}{
		{
			name:       "no error => nil",
			structName: "Foo",
			fn:         func(validation.Validator) {},
		},
		{
			name:       "one error => MultiError & InvalidServerData",
			structName: "Foo",
			fn: func(v validation.Validator) {
				v.Required("FieldBar")
			},
			expectedErrs: []error{gitprovider.ErrInvalidServerData, &multierror.Error{}, validation.ErrFieldRequired},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAPIObject(tt.structName, tt.fn)
			validation.TestExpectErrors(t, "validateAPIObject", err, tt.expectedErrs...)
		})
	}
}

func Test_validateTreeAPI(t *testing.T) {
	validation.TestExpectErrors(t, "validateTreeAPI", validateTreeAPI(&github.Tree{SHA: github.String("t")}))
	validation.TestExpectErrors(t, "validateTreeAPI", validateTreeAPI(&github.Tree{}), gitprovider.ErrInvalidServerData)
	validation.TestExpectErrors(t, "validateTreeAPI",
		validateTreeAPI(&github.Tree{SHA: github.String("t"), Entries: []*github.TreeEntry{{SHA: github.String("s")}}}),
		gitprovider.ErrInvalidServerData, validation.ErrFieldRequired)
	validation.TestExpectErrors(t, "validateBlobAPI", validateBlobAPI(&github.Blob{}), gitprovider.ErrInvalidServerData)
	validation.TestExpectErrors(t, "validateRepositoryAPI", validateRepositoryAPI(&github.Repository{}), gitprovider.ErrInvalidServerData)
}

func Test_handleHTTPError(t *testing.T) {
	alreadyExists := github.Error{Resource: "Repository", Code: "custom", Field: "name", Message: alreadyExistsMagicString}
	tests := []struct {
		name         string
		err          error
		expectedErrs []error
		wantItems    []gitprovider.ValidationErrorItem
		wantTypes    []string
	}{
		{
			name: "nil",
		},
		{
			name:         "unknown error is piped through",
			err:          errNonHTTP,
			expectedErrs: []error{errNonHTTP},
		},
		{
			name:         "401",
			err:          newGHError(http.StatusUnauthorized, "Bad credentials"),
			expectedErrs: []error{&multierror.Error{}},
			wantTypes:    []string{"credentials"},
		},
		{
			name:         "403",
			err:          newGHError(http.StatusForbidden, "Resource not accessible by integration"),
			expectedErrs: []error{&multierror.Error{}},
			wantTypes:    []string{"credentials"},
		},
		{
			name:         "404",
			err:          newGHError(http.StatusNotFound, "Not Found"),
			expectedErrs: []error{&multierror.Error{}, gitprovider.ErrNotFound},
			wantTypes:    []string{"http"},
		},
		{
			name:         "409 stale sha",
			err:          newGHError(http.StatusConflict, "a.txt does not match 1234"),
			expectedErrs: []error{&multierror.Error{}},
			wantTypes:    []string{"http"},
		},
		{
			name:         "422 name taken",
			err:          newGHError(http.StatusUnprocessableEntity, "Repository creation failed.", alreadyExists),
			expectedErrs: []error{&multierror.Error{}, gitprovider.ErrAlreadyExists},
			wantItems: []gitprovider.ValidationErrorItem{
				{Resource: "Repository", Code: "custom", Field: "name", Message: alreadyExistsMagicString},
			},
			wantTypes: []string{"validation"},
		},
		{
			name: "422 other validation error",
			err: newGHError(http.StatusUnprocessableEntity, "Validation Failed",
				github.Error{Resource: "Repository", Code: "invalid", Field: "name"}),
			expectedErrs: []error{&multierror.Error{}},
			wantItems: []gitprovider.ValidationErrorItem{
				{Resource: "Repository", Code: "invalid", Field: "name"},
			},
			wantTypes: []string{"validation"},
		},
		{
			name:         "wrapped error response",
			err:          fmt.Errorf("put: %w", newGHError(http.StatusInternalServerError, "Server Error")),
			expectedErrs: []error{&multierror.Error{}},
			wantTypes:    []string{"http"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handleHTTPError(tt.err)
			validation.TestExpectErrors(t, "handleHTTPError", err, tt.expectedErrs...)
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("handleHTTPError() dropped the original error")
			}
			if tt.err != nil && len(tt.wantItems) == 0 {
				if errors.Is(err, gitprovider.ErrAlreadyExists) {
					t.Errorf("handleHTTPError() unexpectedly returned ErrAlreadyExists")
				}
			}
			for _, typ := range tt.wantTypes {
				switch typ {
				case "credentials":
					target := &gitprovider.InvalidCredentialsError{}
					if !errors.As(err, &target) {
						t.Errorf("handleHTTPError() = %v, want an *InvalidCredentialsError", err)
					}
				case "http":
					target := &gitprovider.HTTPError{}
					if !errors.As(err, &target) {
						t.Errorf("handleHTTPError() = %v, want an *HTTPError", err)
					} else if target.StatusCode() == 0 {
						t.Errorf("HTTPError.StatusCode() = 0")
					}
				case "validation":
					target := &gitprovider.ValidationError{}
					if !errors.As(err, &target) {
						t.Fatalf("handleHTTPError() = %v, want a *ValidationError", err)
					}
					if diff := cmp.Diff(tt.wantItems, target.Errors); diff != "" {
						t.Errorf("ValidationError.Errors (-want, +got):\n%s", diff)
					}
				}
			}
		})
	}
}

var errNonHTTP = errors.New("dial tcp: connection refused")
