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

	"code.gitea.io/sdk/gitea"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// CreateRepository creates a private repository for the authenticated user, named name or,
// if name is empty, the configured repository name.
//
// ErrAlreadyExists will be returned if the resource already exists.
func (c *Client) CreateRepository(ctx context.Context, name string) error {
	if name == "" {
		name = c.repo
	}

	apiObj, err := c.c.CreateRepo(ctx, &gitea.CreateRepoOption{
		Name:        name,
		Private:     true,
		Description: gitprovider.RepositoryDescription,
	})
	if err != nil {
		gitprovider.LogError(c.log, err)
		return err
	}
	c.log.Info("created repository", "repository", apiObj.FullName, "private", apiObj.Private)
	return nil
}
