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
	"context"

	"github.com/google/go-github/v55/github"
)

// githubClient is a wrapper around *github.Client, which implements higher-level methods,
// operating on the go-github structs. All returned objects are validated, and HTTP errors
// are handled/wrapped using handleHTTPError.
// This interface is also fakeable, in order to unit-test the client.
type githubClient interface {
	// Client returns the underlying *github.Client
	Client() *github.Client

	// GetTree is a wrapper for "GET /repos/{owner}/{repo}/git/trees/{tree_sha}?recursive=1".
	// This function handles HTTP error wrapping, and validates the server result.
	GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, error)
	// GetBlob is a wrapper for "GET /repos/{owner}/{repo}/git/blobs/{file_sha}".
	// This function handles HTTP error wrapping, and validates the server result.
	GetBlob(ctx context.Context, owner, repo, sha string) (*github.Blob, error)

	// CreateRepo is a wrapper for "POST /user/repos".
	// This function handles HTTP error wrapping, and validates the server result.
	CreateRepo(ctx context.Context, req *github.Repository) (*github.Repository, error)
	// PutContents is a wrapper for "PUT /repos/{owner}/{repo}/contents/{path}".
	// The file is created if req.SHA is nil, and updated otherwise.
	// This function handles HTTP error wrapping.
	PutContents(ctx context.Context, owner, repo, path string, req *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, error)
}

// githubClientImpl is a wrapper around *github.Client, which implements higher-level methods,
// operating on the go-github structs. See the githubClient interface for method documentation.
type githubClientImpl struct {
	c *github.Client
}

// githubClientImpl implements githubClient.
var _ githubClient = &githubClientImpl{}

func (c *githubClientImpl) Client() *github.Client {
	return c.c
}

func (c *githubClientImpl) GetTree(ctx context.Context, owner, repo, ref string) (*github.Tree, error) {
	// GET /repos/{owner}/{repo}/git/trees/{tree_sha}?recursive=1
	apiObj, _, err := c.c.Git.GetTree(ctx, owner, repo, ref, true)
	if err != nil {
		return nil, handleHTTPError(err)
	}
	// Validate the API object
	if err := validateTreeAPI(apiObj); err != nil {
		return nil, err
	}
	return apiObj, nil
}

func (c *githubClientImpl) GetBlob(ctx context.Context, owner, repo, sha string) (*github.Blob, error) {
	// GET /repos/{owner}/{repo}/git/blobs/{file_sha}
	apiObj, _, err := c.c.Git.GetBlob(ctx, owner, repo, sha)
	if err != nil {
		return nil, handleHTTPError(err)
	}
	// Validate the API object
	if err := validateBlobAPI(apiObj); err != nil {
		return nil, err
	}
	return apiObj, nil
}

func (c *githubClientImpl) CreateRepo(ctx context.Context, req *github.Repository) (*github.Repository, error) {
	// POST /user/repos
	apiObj, _, err := c.c.Repositories.Create(ctx, "", req)
	if err != nil {
		return nil, handleHTTPError(err)
	}
	// Validate the API object
	if err := validateRepositoryAPI(apiObj); err != nil {
		return nil, err
	}
	return apiObj, nil
}

func (c *githubClientImpl) PutContents(ctx context.Context, owner, repo, path string, req *github.RepositoryContentFileOptions) (*github.RepositoryContentResponse, error) {
	var (
		apiObj *github.RepositoryContentResponse
		err    error
	)
	// PUT /repos/{owner}/{repo}/contents/{path}
	if req.SHA == nil {
		apiObj, _, err = c.c.Repositories.CreateFile(ctx, owner, repo, path, req)
	} else {
		apiObj, _, err = c.c.Repositories.UpdateFile(ctx, owner, repo, path, req)
	}
	if err != nil {
		return nil, handleHTTPError(err)
	}
	return apiObj, nil
}
