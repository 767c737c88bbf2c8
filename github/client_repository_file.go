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

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// UpdateContent writes content to the file given by WithFile, DefaultBackupFile by default.
//
// The current blob SHA of the file is resolved first. If that fails for any reason the write is
// still made, without a SHA, which creates the file or is rejected by GitHub if it exists.
// A SHA that went stale in between is rejected with 409 Conflict.
// uses https://docs.github.com/en/rest/repos/contents#create-or-update-file-contents
func (c *Client) UpdateContent(ctx context.Context, content string, optFns ...gitprovider.ContentOption) error {
	opts, err := gitprovider.MakeContentOptions(optFns...)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return err
	}
	file := opts.GetFile()

	sha, _ := c.ResolveBlobSHA(ctx, file)

	// go-github sends Content base64 encoded
	req := &github.RepositoryContentFileOptions{
		Message: github.String(gitprovider.UpdateContentMessage(file)),
		Content: []byte(content),
	}
	if sha != "" {
		req.SHA = &sha
	}

	apiObj, err := c.c.PutContents(ctx, c.owner, c.repo, file, req)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return err
	}
	c.log.Info("updated file", "repository", c.repository(), "path", file,
		"previousSHA", sha, "sha", apiObj.GetContent().GetSHA())
	return nil
}

// GetContent returns the content of the file given by WithFile, DefaultBackupFile by default.
//
// The blob is fetched by the SHA ResolveBlobSHA returns, even if that is "", in which case
// GitHub answers 404 Not Found.
// uses https://docs.github.com/en/rest/git/blobs#get-a-blob
func (c *Client) GetContent(ctx context.Context, optFns ...gitprovider.ContentOption) (string, error) {
	opts, err := gitprovider.MakeContentOptions(optFns...)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}
	file := opts.GetFile()

	sha, _ := c.ResolveBlobSHA(ctx, file)

	blob, err := c.c.GetBlob(ctx, c.owner, c.repo, sha)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}
	content, err := gitprovider.DecodeContent(blob.GetContent(), blob.GetEncoding())
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}
	return content, nil
}
