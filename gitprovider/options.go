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
	"fmt"
	"strings"

	"k8s.io/utils/pointer"

	"github.com/fluxcd/go-git-backup/validation"
)

// ContentOption is an interface for applying options to UpdateContent and GetContent.
type ContentOption interface {
	// ApplyToContentOptions should apply relevant options to the target.
	ApplyToContentOptions(target *ContentOptions)
}

// ContentOptions specifies optional options for UpdateContent and GetContent.
type ContentOptions struct {
	// File is the path of the file within the repository.
	// Default: nil (which means DefaultBackupFile)
	File *string
}

// ApplyToContentOptions applies the options defined in the options struct to the
// target struct that is being completed.
func (opts *ContentOptions) ApplyToContentOptions(target *ContentOptions) {
	if opts.File != nil {
		target.File = opts.File
	}
}

// GetFile returns the configured file path, or DefaultBackupFile.
func (opts *ContentOptions) GetFile() string {
	return pointer.StringDeref(opts.File, DefaultBackupFile)
}

// ValidateOptions validates that the options are valid.
func (opts *ContentOptions) ValidateOptions() error {
	v := validation.New("ContentOptions")
	if opts.File != nil {
		file := *opts.File
		switch {
		case file == "":
			v.Required("File")
		case strings.HasPrefix(file, "/"), strings.HasSuffix(file, "/"):
			v.Invalid(file, "File")
		}
	}
	if err := v.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// WithFile makes UpdateContent and GetContent operate on path instead of DefaultBackupFile.
// path is relative to the repository root, e.g. "backups/settings.json".
func WithFile(path string) ContentOption {
	return &ContentOptions{File: &path}
}

// MakeContentOptions returns a ContentOptions based off the mutator functions given to
// UpdateContent or GetContent, and validates it.
func MakeContentOptions(opts ...ContentOption) (ContentOptions, error) {
	o := &ContentOptions{}
	for _, opt := range opts {
		opt.ApplyToContentOptions(o)
	}
	return *o, o.ValidateOptions()
}
