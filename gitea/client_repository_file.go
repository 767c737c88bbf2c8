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
	"github.com/fluxcd/go-git-backup/validation"
)

// UpdateContent writes content to the file given by WithFile, DefaultBackupFile by default.
//
// The current blob SHA of the file is resolved first. Gitea creates files with POST and
// updates them with PUT, so the SHA also picks the request: without one the file is created,
// which Gitea rejects if it exists.
func (c *Client) UpdateContent(ctx context.Context, content string, optFns ...gitprovider.ContentOption) error {
	opts, err := gitprovider.MakeContentOptions(optFns...)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return err
	}
	file := opts.GetFile()

	sha, _ := c.ResolveBlobSHA(ctx, file)

	fileOpts := gitea.FileOptions{Message: gitprovider.UpdateContentMessage(file)}
	encoded := gitprovider.EncodeContent(content)

	var res *gitea.FileResponse
	if sha == "" {
		res, err = c.c.CreateFile(ctx, c.owner, c.repo, file, &gitea.CreateFileOptions{
			FileOptions: fileOpts,
			Content:     encoded,
		})
	} else {
		res, err = c.c.UpdateFile(ctx, c.owner, c.repo, file, &gitea.UpdateFileOptions{
			FileOptions: fileOpts,
			SHA:         sha,
			Content:     encoded,
		})
	}
	if err != nil {
		gitprovider.LogError(c.log, err)
		return err
	}

	newSHA := ""
	if res != nil && res.Content != nil {
		newSHA = res.Content.SHA
	}
	c.log.Info("updated file", "repository", c.repository(), "path", file, "previousSHA", sha, "sha", newSHA)
	return nil
}

// GetContent returns the content of the file given by WithFile, DefaultBackupFile by default.
//
// The blob is fetched by the SHA ResolveBlobSHA returns, even if that is "". The SDK refuses
// an empty SHA before making a request; the returned error then also carries the resolution error.
func (c *Client) GetContent(ctx context.Context, optFns ...gitprovider.ContentOption) (string, error) {
	opts, err := gitprovider.MakeContentOptions(optFns...)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}
	file := opts.GetFile()

	sha, resolveErr := c.ResolveBlobSHA(ctx, file)

	blob, err := c.c.GetBlob(ctx, c.owner, c.repo, sha)
	if err != nil {
		if resolveErr != nil {
			err = validation.NewMultiError(err, resolveErr)
		}
		gitprovider.LogError(c.log, err)
		return "", err
	}
	content, err := gitprovider.DecodeContent(blob.Content, blob.Encoding)
	if err != nil {
		gitprovider.LogError(c.log, err)
		return "", err
	}
	return content, nil
}
