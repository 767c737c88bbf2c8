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
	"code.gitea.io/sdk/gitea"
	"github.com/go-logr/logr"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

// ProviderID is the provider ID for Gitea.
const ProviderID = gitprovider.ProviderID("gitea")

func newClient(c *gitea.Client, domain string, cfg gitprovider.Config, log logr.Logger) *Client {
	return &Client{
		clientContext: &clientContext{
			c:      &giteaClientImpl{c},
			domain: domain,
			owner:  cfg.User,
			repo:   cfg.RepositoryName,
			log:    log,
		},
	}
}

type clientContext struct {
	c      giteaClient
	domain string
	owner  string
	repo   string
	log    logr.Logger
}

// Client implements the gitprovider.ContentClient interface.
var _ gitprovider.ContentClient = &Client{}

// Client stores and retrieves a backup file in a Gitea repository owned by the configured user.
type Client struct {
	*clientContext
}

// SupportedDomain returns the domain endpoint for this client, e.g. "gitea.com" or
// "my-custom-git-server.com:6443". This allows a higher-level user to know what Client to use for
// what endpoints.
// This field is set at client creation time, and can't be changed.
func (c *Client) SupportedDomain() string {
	return c.domain
}

// ProviderID returns the provider ID "gitea".
// This field is set at client creation time, and can't be changed.
func (c *Client) ProviderID() gitprovider.ProviderID {
	return ProviderID
}

// Raw returns the Gitea client (code.gitea.io/sdk/gitea *Client)
// used under the hood for accessing Gitea.
func (c *Client) Raw() interface{} {
	return c.c.Client()
}

func (c *clientContext) repository() string {
	return c.owner + "/" + c.repo
}
