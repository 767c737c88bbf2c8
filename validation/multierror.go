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

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

// NewMultiError returns a *multierror.Error holding errs. Nil errors are dropped.
//
// Both errors.Is and errors.As look through every contained error, so a provider
// error can carry both the raw client error and a typed gitprovider error:
//
//	err := NewMultiError(ghErr, gitprovider.ErrNotFound)
//	errors.Is(err, gitprovider.ErrNotFound) // true
//
// To get at the individual errors, use
//
//	multiErr := &multierror.Error{}
//	if errors.As(err, &multiErr) { // multiErr.Errors holds them }
func NewMultiError(errs ...error) *multierror.Error {
	multiErr := &multierror.Error{ErrorFormat: listFormat}
	return multierror.Append(multiErr, errs...)
}

// listFormat renders the contained errors as a dashed list.
func listFormat(errs []error) string {
	var sb strings.Builder
	sb.WriteString("multiple errors occurred: ")
	for _, err := range errs {
		sb.WriteString("\n- ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// TestExpectErrors makes sure errors.Is returns true for err and every one of expectedErrs.
// A *multierror.Error in expectedErrs only requires err to be a multi-error. If there are
// no expected errors, err must be nil.
func TestExpectErrors(t testing.TB, funcName string, err error, expectedErrs ...error) {
	t.Helper()
	for _, expectedErr := range expectedErrs {
		if _, ok := expectedErr.(*multierror.Error); ok {
			multiErr := &multierror.Error{}
			if !errors.As(err, &multiErr) {
				t.Errorf("%s() error = %v, wanted a multi-error", funcName, err)
			}
			continue
		}
		if !errors.Is(err, expectedErr) {
			t.Errorf("%s() error = %v, wanted %v", funcName, err, expectedErr)
		}
	}
	if len(expectedErrs) == 0 && err != nil {
		t.Errorf("%s() expected no error, got %v", funcName, err)
	}
}
