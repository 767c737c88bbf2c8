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

	"github.com/fluxcd/go-git-backup/validation"
)

// ProviderID is a typed string for a given Git provider
// The provider constants are defined in their respective packages
type ProviderID string

const (
	// DefaultBackupFile is the file UpdateContent and GetContent operate on when
	// no WithFile option is given.
	DefaultBackupFile = "dxz.backup.json"

	// RepositoryDescription is the description set on repositories created by CreateRepository.
	RepositoryDescription = "Created by GhApi."

	// HeadRef is the tree reference blob SHAs are resolved against.
	HeadRef = "HEAD"
)

// ErrMissingAccessToken is returned (wrapped in a *ConfigurationError) when a Config
// doesn't carry an access token.
var ErrMissingAccessToken = errors.New("missing access token")

// UpdateContentMessage returns the commit message used when writing file.
func UpdateContentMessage(file string) string {
	return fmt.Sprintf("Updated '%s' by GhApi.", file)
}

// Config describes which repository a ContentClient operates on, and how to authenticate.
// There are no defaults: every field must be set.
type Config struct {
	// User is the owner of the repository, i.e. the login of the user the token belongs to.
	User string
	// RepositoryName is the name of the repository holding the backup file.
	RepositoryName string
	// AccessToken is sent as "Authorization: token <AccessToken>" on every request.
	AccessToken string
}

// ValidateFields implements validation.ValidateTarget.
func (c Config) ValidateFields(v validation.Validator) {
	if c.AccessToken == "" {
		v.Append(ErrMissingAccessToken, nil, "AccessToken")
	}
	if c.User == "" {
		v.Required("User")
	}
	if c.RepositoryName == "" {
		v.Required("RepositoryName")
	}
}

// Validate returns a *ConfigurationError if c can't be used to construct a client.
func (c Config) Validate() error {
	if err := validation.ValidateTargets("Config", c); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}
