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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fluxcd/go-git-backup/gitea"
	"github.com/fluxcd/go-git-backup/github"
	"github.com/fluxcd/go-git-backup/gitprovider"
)

// clientFactory creates the client the commands operate on.
type clientFactory func(o *globalOptions) (gitprovider.ContentClient, error)

// globalOptions hold the persistent flags shared by all commands.
type globalOptions struct {
	Provider            string
	User                string
	Repo                string
	Token               string
	Domain              string
	CAFile              string
	ConditionalRequests bool
	Debug               bool

	log       logr.Logger
	syncLog   func() error
	newClient clientFactory
}

func newRootCommand(newClient clientFactory) *cobra.Command {
	o := &globalOptions{log: logr.Discard(), newClient: newClient}
	cmd := &cobra.Command{
		Use:   "git-backup",
		Short: "Store a backup file in a private Git repository",
		Long: `
git-backup keeps a single backup file in a private repository on GitHub or
Gitea, using the hosting provider's REST API only. No local clone is involved.
`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		DisableAutoGenTag: true,

		PersistentPreRunE: func(*cobra.Command, []string) error {
			return o.PreRun()
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if o.syncLog != nil {
				// Syncing stderr fails on some platforms, there's nothing to flush anyway
				_ = o.syncLog()
			}
			return nil
		},
	}
	o.AddFlags(cmd.PersistentFlags())
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(
		o.newCreateCommand(),
		o.newPushCommand(),
		o.newPullCommand(),
		o.newSHACommand(),
	)
	return cmd
}

// AddFlags registers the global flags on f.
func (o *globalOptions) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.Provider, "provider", string(github.ProviderID), "Git hosting `provider`, one of (github|gitea)")
	f.StringVarP(&o.User, "user", "u", "", "`login` owning the backup repository")
	f.StringVarP(&o.Repo, "repo", "r", "", "`name` of the backup repository")
	f.StringVar(&o.Token, "token", "", "access `token` (default: $GITHUB_TOKEN or $GITEA_TOKEN, depending on --provider)")
	f.StringVar(&o.Domain, "domain", "", "`domain` of a self-hosted instance, e.g. ghe.example.com or http://localhost:3000")
	f.StringVar(&o.CAFile, "ca-file", "", "PEM `file` with additional root certificates to trust")
	f.BoolVar(&o.ConditionalRequests, "conditional-requests", false, "cache GET responses in memory and revalidate them with ETags")
	f.BoolVar(&o.Debug, "debug", false, "log requests and other details in a human-friendly format")
}

// PreRun fills in the token from the environment, validates the flags and sets up logging.
func (o *globalOptions) PreRun() error {
	if o.Token == "" {
		o.Token = os.Getenv(tokenVariable(o.Provider))
	}
	if err := o.Validate(); err != nil {
		return err
	}
	log, syncLog, err := newLogger(o.Debug)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	o.log, o.syncLog = log, syncLog
	return nil
}

// Validate reports all flag problems at once.
func (o *globalOptions) Validate() error {
	var result *multierror.Error
	switch gitprovider.ProviderID(o.Provider) {
	case github.ProviderID, gitea.ProviderID:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown provider %q, expected one of (%s|%s)", o.Provider, github.ProviderID, gitea.ProviderID))
	}
	if o.User == "" {
		result = multierror.Append(result, errors.New("--user is required"))
	}
	if o.Repo == "" {
		result = multierror.Append(result, errors.New("--repo is required"))
	}
	if o.Token == "" {
		result = multierror.Append(result, fmt.Errorf("--token or $%s is required", tokenVariable(o.Provider)))
	}
	return result.ErrorOrNil()
}

func (o *globalOptions) client() (gitprovider.ContentClient, error) {
	return o.newClient(o)
}

func tokenVariable(provider string) string {
	if gitprovider.ProviderID(provider) == gitea.ProviderID {
		return gitea.TokenVariable
	}
	return github.TokenVariable
}

// newContentClient creates a GitHub or Gitea client from the global flags.
func newContentClient(o *globalOptions) (gitprovider.ContentClient, error) {
	cfg := gitprovider.Config{User: o.User, RepositoryName: o.Repo, AccessToken: o.Token}
	opts := []gitprovider.ClientOption{
		gitprovider.WithLogger(&o.log),
		gitprovider.WithConditionalRequests(o.ConditionalRequests),
	}
	if o.Domain != "" {
		opts = append(opts, gitprovider.WithDomain(o.Domain))
	}
	if o.CAFile != "" {
		caBundle, err := os.ReadFile(o.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA bundle: %w", err)
		}
		opts = append(opts, gitprovider.WithCustomCAPostChainTransportHook(caBundle))
	}

	if gitprovider.ProviderID(o.Provider) == gitea.ProviderID {
		c, err := gitea.NewClient(cfg, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	c, err := github.NewClient(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}
