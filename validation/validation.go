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
	"fmt"
	"strings"
)

var (
	// ErrFieldRequired specifies the case where a required field isn't populated at use time.
	ErrFieldRequired = errors.New("field is required")
	// ErrFieldInvalid specifies the case where a field isn't populated in a valid manner.
	ErrFieldInvalid = errors.New("field is invalid")
)

// Validator collects the validation errors of one object, so that the user gets to
// know about every problem at once instead of only the first one.
type Validator interface {
	// Append registers a validation error in the internal list, capturing the value and the field that
	// caused the problem.
	Append(err error, value interface{}, fieldPaths ...string)

	// Invalid is a helper method for Append, registering ErrFieldInvalid as the cause.
	Invalid(value interface{}, fieldPaths ...string)

	// Required is a helper method for Append, registering ErrFieldRequired as the cause.
	Required(fieldPaths ...string)

	// Error returns nil, the only registered error, or a multi-error (see NewMultiError)
	// holding all of them.
	Error() error
}

// ValidateTarget is implemented by structs that know how to register their own
// validation errors into a Validator.
type ValidateTarget interface {
	// ValidateFields registers any validation errors into the validator
	ValidateFields(v Validator)
}

// New creates a new validator struct for the given struct name.
func New(name string) Validator {
	return &validator{name: name}
}

// ValidateTargets runs the ValidateFields() method for each of the targets, and returns
// the aggregate error.
func ValidateTargets(name string, targets ...ValidateTarget) error {
	v := New(name)
	for _, target := range targets {
		target.ValidateFields(v)
	}
	return v.Error()
}

type validator struct {
	// name describes the name of the object being validated
	name string
	// errs is a list of errors that have occurred
	errs []error
}

func (v *validator) Required(fieldPaths ...string) {
	v.Append(ErrFieldRequired, nil, fieldPaths...)
}

func (v *validator) Invalid(value interface{}, fieldPaths ...string) {
	v.Append(ErrFieldInvalid, value, fieldPaths...)
}

func (v *validator) Append(err error, value interface{}, fieldPaths ...string) {
	if err == nil {
		return
	}
	// e.g. "Config.AccessToken"
	fieldPath := strings.Join(append([]string{v.name}, fieldPaths...), ".")
	valStr := ""
	if value != nil {
		valStr = fmt.Sprintf(" (value: %v)", value)
	}
	v.errs = append(v.errs, fmt.Errorf("validation error for %s%s: %w", fieldPath, valStr, err))
}

func (v *validator) Error() error {
	filteredErrs := make([]error, 0, len(v.errs))
	for _, err := range v.errs {
		if err != nil {
			filteredErrs = append(filteredErrs, err)
		}
	}
	switch len(filteredErrs) {
	case 0:
		return nil
	case 1:
		return filteredErrs[0]
	}
	return NewMultiError(filteredErrs...)
}
