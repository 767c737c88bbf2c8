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

import "context"

// ContentClient stores and retrieves a single backup file in a private repository.
//
// Every operation logs failures in the block format of FormatError to the client's
// logger, and also returns them. Operations are safe to call concurrently, but two
// concurrent UpdateContent calls for the same file race on the file's blob SHA; the
// loser gets a conflict error from the provider.
type ContentClient interface {
	// SupportedDomain returns the domain endpoint for this client, e.g. "github.com" or
	// "my-custom-git-server.com:6443". It is set at client creation time.
	SupportedDomain() string

	// ProviderID returns the provider ID (e.g. "github", "gitea").
	ProviderID() ProviderID

	// Raw returns the provider-specific client used under the hood.
	Raw() interface{}

	// ResolveBlobSHA returns the blob SHA of path in the tree at HEAD. The match on path
	// is exact. If there is no such entry, ErrNotFound is returned along with "".
	//
	// "" must be read as "no prior SHA known", not as proof that the file is absent: a
	// failed request also yields "", with the request error.
	ResolveBlobSHA(ctx context.Context, path string) (string, error)

	// CreateRepository creates a private repository for the authenticated user. An empty
	// name means the configured repository name.
	// ErrAlreadyExists is returned if the name is taken.
	CreateRepository(ctx context.Context, name string) error

	// UpdateContent writes content to the file given by WithFile (DefaultBackupFile by
	// default), creating it if it doesn't exist yet. The file's current blob SHA is resolved
	// first and sent along when known.
	UpdateContent(ctx context.Context, content string, opts ...ContentOption) error

	// GetContent returns the decoded content of the file given by WithFile (DefaultBackupFile
	// by default).
	GetContent(ctx context.Context, opts ...ContentOption) (string, error)
}
