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
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/go-github/v55/github"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

const (
	// DefaultDomain specifies the default domain used as the backend.
	DefaultDomain = "github.com"
	// TokenVariable is the common name for the environment variable
	// containing a GitHub authentication token.
	TokenVariable = "GITHUB_TOKEN" // #nosec G101
)

// NewClient creates a new gitprovider.ContentClient for the GitHub repository described by cfg.
//
// cfg is validated before anything else; a *gitprovider.ConfigurationError is returned if a
// field is missing, e.g. wrapping gitprovider.ErrMissingAccessToken. cfg.AccessToken is sent
// with every request, there is no unauthenticated mode.
//
// GitHub Enterprise can be used if you specify the domain using WithDomain. The domain may carry
// a scheme ("http://ghe.local:8080"), https is assumed otherwise.
//
// You can customize low-level HTTP Transport functionality by using the With{Pre,Post}ChainTransportHook options.
// You can also use conditional requests (and an in-memory cache) using WithConditionalRequests.
//
// The chain of transports looks like this:
// github.com API <-> "Post Chain" <-> Authentication <-> Cache <-> Logging <-> "Pre Chain" <-> *github.Client.
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

	// Create the GitHub client either for the default github.com domain, or
	// a custom enterprise domain if opts.Domain is set to something other than
	// the default.
	var gh *github.Client
	var domain string

	if opts.Domain == nil || *opts.Domain == DefaultDomain {
		// No domain or the default github.com used
		domain = DefaultDomain
		gh = github.NewClient(httpClient)
	} else {
		// GitHub Enterprise is used
		domain = *opts.Domain
		base := enterpriseBaseURL(domain)
		baseURL := fmt.Sprintf("%s/api/v3/", base)
		uploadURL := fmt.Sprintf("%s/api/uploads/", base)

		if gh, err = github.NewEnterpriseClient(baseURL, uploadURL, httpClient); err != nil {
			return nil, err
		}
	}

	return newClient(gh, domain, cfg, logger), nil
}

// enterpriseBaseURL returns domain as an URL without a trailing slash, defaulting to https.
func enterpriseBaseURL(domain string) string {
	domain = strings.TrimSuffix(domain, "/")
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}
