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
	"testing"

	"github.com/hashicorp/go-multierror"

	"github.com/fluxcd/go-git-backup/validation"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name         string
		cfg          Config
		expectedErrs []error
	}{
		{
			name: "valid",
			cfg:  Config{User: "octocat", RepositoryName: "backup", AccessToken: "s3cr3t"},
		},
		{
			name:         "missing token",
			cfg:          Config{User: "octocat", RepositoryName: "backup"},
			expectedErrs: []error{ErrMissingAccessToken},
		},
		{
			name:         "missing user",
			cfg:          Config{RepositoryName: "backup", AccessToken: "s3cr3t"},
			expectedErrs: []error{validation.ErrFieldRequired},
		},
		{
			name:         "missing repository name",
			cfg:          Config{User: "octocat", AccessToken: "s3cr3t"},
			expectedErrs: []error{validation.ErrFieldRequired},
		},
		{
			name:         "empty",
			cfg:          Config{},
			expectedErrs: []error{ErrMissingAccessToken, validation.ErrFieldRequired, &multierror.Error{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			validation.TestExpectErrors(t, "Config.Validate", err, tt.expectedErrs...)
			if err == nil {
				return
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Config.Validate() error = %T, want *ConfigurationError", err)
			}
		})
	}
}

// Whatever else is missing, a Config without a token is always rejected because of it.
func TestConfig_Validate_missingTokenAlwaysReported(t *testing.T) {
	for _, user := range []string{"", "octocat"} {
		for _, repo := range []string{"", "backup"} {
			err := Config{User: user, RepositoryName: repo}.Validate()
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || !errors.Is(err, ErrMissingAccessToken) {
				t.Errorf("Config{User: %q, RepositoryName: %q}.Validate() = %v, want ErrMissingAccessToken", user, repo, err)
			}
		}
	}
}

func TestUpdateContentMessage(t *testing.T) {
	if got, want := UpdateContentMessage(DefaultBackupFile), "Updated 'dxz.backup.json' by GhApi."; got != want {
		t.Errorf("UpdateContentMessage() = %q, want %q", got, want)
	}
}
