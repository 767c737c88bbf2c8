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
	"strings"

	"github.com/go-logr/logr"
)

const (
	errorBlockSeparator = "<< ======================== >>"
	errorBlockLabel     = "[Error]"
)

// FormatError renders err as the multi-line block operators grep for:
//
//	<< ======================== >>
//	[Error]
//	Validation Failed
//	  -{Error Reason}: Repository
//	  -{Error Message}: name already exists on this account
//	  -{Error Field}: name
//
// There is one three-line group per server-side validation error, and none if the
// server didn't return any. Errors that carry no HTTP payload render err.Error().
func FormatError(err error) string {
	message, items := errorPayload(err)
	lines := make([]string, 0, 3+3*len(items))
	lines = append(lines, errorBlockSeparator, errorBlockLabel, message)
	for _, item := range items {
		lines = append(lines,
			fmt.Sprintf("  -{Error Reason}: %s", item.Resource),
			fmt.Sprintf("  -{Error Message}: %s", item.Message),
			fmt.Sprintf("  -{Error Field}: %s", item.Field),
		)
	}
	return strings.Join(lines, "\n")
}

// LogError logs err through log as a FormatError block. A nil err is ignored.
func LogError(log logr.Logger, err error) {
	if err == nil {
		return
	}
	log.Error(err, FormatError(err))
}

func errorPayload(err error) (string, []ValidationErrorItem) {
	validationErr := &ValidationError{}
	if errors.As(err, &validationErr) {
		return messageOf(&validationErr.HTTPError), validationErr.Errors
	}
	var carrier interface{ httpError() *HTTPError }
	if errors.As(err, &carrier) {
		return messageOf(carrier.httpError()), nil
	}
	return err.Error(), nil
}

func messageOf(httpErr *HTTPError) string {
	if httpErr.Message != "" {
		return httpErr.Message
	}
	return httpErr.ErrorMessage
}
