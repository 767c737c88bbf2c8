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
	"github.com/go-logr/logr"
	"github.com/google/go-github/v55/github"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// ProviderID is the provider ID for GitHub.
const ProviderID = gitprovider.ProviderID("github")

func newClient(c *github.Client, domain string, cfg gitprovider.Config, log logr.Logger) *Client {
	return &Client{
		clientContext: &clientContext{
			c:      &githubClientImpl{c},
			domain: domain,
			owner:  cfg.User,
			repo:   cfg.RepositoryName,
			log:    log,
		},
	}
}

type clientContext struct {
	c      githubClient
	domain string
	owner  string
	repo   string
	log    logr.Logger
}

// Client implements the gitprovider.ContentClient interface.
var _ gitprovider.ContentClient = &Client{}

// Client stores and retrieves a backup file in a GitHub repository owned by the configured user.
// The operations are defined in client_repositories_user.go, client_repository_tree.go and
// client_repository_file.go.
type Client struct {
	*clientContext
}

// SupportedDomain returns the domain endpoint for this client, e.g. "github.com", "enterprise.github.com" or
// "my-custom-git-server.com:6443". This allows a higher-level user to know what Client to use for
// what endpoints.
// This field is set at client creation time, and can't be changed.
func (c *Client) SupportedDomain() string {
	return c.domain
}

// ProviderID returns the provider ID "github".
// This field is set at client creation time, and can't be changed.
func (c *Client) ProviderID() gitprovider.ProviderID {
	return ProviderID
}

// Raw returns the Go GitHub client (github.com/google/go-github/v55/github *Client)
// used under the hood for accessing GitHub.
func (c *Client) Raw() interface{} {
	return c.c.Client()
}

// repository returns "owner/name", for logging.
func (c *clientContext) repository() string {
	return c.owner + "/" + c.repo
}
