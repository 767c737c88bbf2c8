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
	"context"
	"errors"
	"net/http"

	"code.gitea.io/sdk/gitea"

	"github.com/fluxcd/go-git-backup/gitprovider"
	"github.com/fluxcd/go-git-backup/validation"
)

// giteaClient is a wrapper around *gitea.Client, which implements higher-level methods,
// operating on the gitea structs.
// This interface is also fakeable, in order to unit-test the client.
type giteaClient interface {
	// Client returns the underlying *gitea.Client
	Client() *gitea.Client

	// GetTree is a wrapper for "GET /repos/{owner}/{repo}/git/trees/{sha}?recursive=true".
	// This function handles HTTP error wrapping, and validates the server result.
	GetTree(ctx context.Context, owner, repo, ref string) (*gitea.GitTreeResponse, error)
	// GetBlob is a wrapper for "GET /repos/{owner}/{repo}/git/blobs/{sha}".
	// This function handles HTTP error wrapping.
	GetBlob(ctx context.Context, owner, repo, sha string) (*gitea.GitBlobResponse, error)

	// CreateRepo is a wrapper for "POST /user/repos".
	// This function handles HTTP error wrapping, and validates the server result.
	CreateRepo(ctx context.Context, req *gitea.CreateRepoOption) (*gitea.Repository, error)
	// CreateFile is a wrapper for "POST /repos/{owner}/{repo}/contents/{filepath}".
	// This function handles HTTP error wrapping.
	CreateFile(ctx context.Context, owner, repo, path string, req *gitea.CreateFileOptions) (*gitea.FileResponse, error)
	// UpdateFile is a wrapper for "PUT /repos/{owner}/{repo}/contents/{filepath}".
	// This function handles HTTP error wrapping.
	UpdateFile(ctx context.Context, owner, repo, path string, req *gitea.UpdateFileOptions) (*gitea.FileResponse, error)
}

type giteaClientImpl struct {
	c *gitea.Client
}

var _ giteaClient = &giteaClientImpl{}

// Client returns the underlying *gitea.Client
func (c *giteaClientImpl) Client() *gitea.Client {
	return c.c
}

// GetTree returns the whole tree at ref.
func (c *giteaClientImpl) GetTree(_ context.Context, owner, repo, ref string) (*gitea.GitTreeResponse, error) {
	apiObj, res, err := c.c.GetTrees(owner, repo, ref, true)
	if err != nil {
		return nil, handleHTTPError(res, err)
	}
	if err := validateTreeAPI(apiObj); err != nil {
		return nil, err
	}
	return apiObj, nil
}

// GetBlob returns the blob identified by sha.
func (c *giteaClientImpl) GetBlob(_ context.Context, owner, repo, sha string) (*gitea.GitBlobResponse, error) {
	apiObj, res, err := c.c.GetBlob(owner, repo, sha)
	if err != nil {
		return nil, handleHTTPError(res, err)
	}
	if apiObj == nil {
		return nil, validation.NewMultiError(errors.New("empty blob response"), gitprovider.ErrInvalidServerData)
	}
	return apiObj, nil
}

// CreateRepo creates a new repository for the authenticated user.
func (c *giteaClientImpl) CreateRepo(_ context.Context, req *gitea.CreateRepoOption) (*gitea.Repository, error) {
	apiObj, res, err := c.c.CreateRepo(*req)
	if err != nil {
		err = handleHTTPError(res, err)
		// Gitea answers 409 Conflict if the name is taken
		if res != nil && res.StatusCode == http.StatusConflict {
			err = validation.NewMultiError(err, gitprovider.ErrAlreadyExists)
		}
		return nil, err
	}
	if err := validateRepositoryAPI(apiObj); err != nil {
		return nil, err
	}
	return apiObj, nil
}

// CreateFile creates a file that doesn't exist yet.
func (c *giteaClientImpl) CreateFile(_ context.Context, owner, repo, path string, req *gitea.CreateFileOptions) (*gitea.FileResponse, error) {
	apiObj, res, err := c.c.CreateFile(owner, repo, path, *req)
	if err != nil {
		return nil, handleHTTPError(res, err)
	}
	return apiObj, nil
}

// UpdateFile overwrites an existing file, whose current blob SHA is given in req.
func (c *giteaClientImpl) UpdateFile(_ context.Context, owner, repo, path string, req *gitea.UpdateFileOptions) (*gitea.FileResponse, error) {
	apiObj, res, err := c.c.UpdateFile(owner, repo, path, *req)
	if err != nil {
		return nil, handleHTTPError(res, err)
	}
	return apiObj, nil
}
