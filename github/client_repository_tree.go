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
	"fmt"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// ResolveBlobSHA returns the blob SHA of path in the tree at HEAD. Only blob entries whose
// path equals path exactly are considered, and the first one wins.
//
// "" is returned along with an error wrapping ErrNotFound if there's no such entry or it
// has no SHA. Request failures are logged and also yield "".
// uses https://docs.github.com/en/rest/git/trees#get-a-tree
func (c *Client) ResolveBlobSHA(ctx context.Context, path string) (string, error) {
	tree, err := c.c.GetTree(ctx, c.owner, c.repo, gitprovider.HeadRef)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}

	for _, entry := range tree.Entries {
		switch entry.GetType() {
		case "tree", "commit":
			continue
		}
		if entry.GetPath() != path {
			continue
		}
		if sha := entry.GetSHA(); sha != "" {
			return sha, nil
		}
		break
	}

	c.log.V(1).Info("file not found", "repository", c.repository(), "path", path, "ref", gitprovider.HeadRef)
	return "", fmt.Errorf("file %q at %s: %w", path, gitprovider.HeadRef, gitprovider.ErrNotFound)
}
