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
	"fmt"
	"strings"

	"code.gitea.io/sdk/gitea"
	"github.com/go-logr/logr"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

const (
	// DefaultDomain specifies the default domain used as the backend.
	DefaultDomain = "gitea.com"
	// TokenVariable is the common name for the environment variable
	// containing a Gitea authentication token.
	TokenVariable = "GITEA_TOKEN" // #nosec G101
)

// NewClient creates a new gitprovider.ContentClient for the Gitea repository described by cfg.
//
// cfg is validated before anything else; a *gitprovider.ConfigurationError is returned if a
// field is missing. cfg.AccessToken is sent with every request by the transport chain.
//
// Gitea Selfhosted can be used if you specify the domain using WithDomain. The domain may carry
// a scheme ("http://gitea.local:3000"), https is assumed otherwise.
//
// The server version isn't queried on creation, so NewClient makes no requests.
func NewClient(cfg gitprovider.Config, optFns ...gitprovider.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Complete the options struct
	optFns = append([]gitprovider.ClientOption{gitprovider.WithAccessToken(cfg.AccessToken)}, optFns...)
	opts, err := gitprovider.MakeClientOptions(optFns...)
	if err != nil {
		return nil, err
	}

	// Create a *http.Client using the transport chain
	httpClient, err := gitprovider.BuildClientFromTransportChain(opts.GetTransportChain())
	if err != nil {
		return nil, err
	}

	logger := logr.Discard()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	domain := DefaultDomain
	if opts.Domain != nil {
		domain = *opts.Domain
	}
	baseURL := domain
	if !strings.Contains(domain, "://") {
		baseURL = fmt.Sprintf("https://%s/", domain)
	}

	gt, err := gitea.NewClient(baseURL, gitea.SetHTTPClient(httpClient), gitea.SetGiteaVersion(""))
	if err != nil {
		return nil, err
	}

	return newClient(gt, domain, cfg, logger), nil
}
