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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

type pullOptions struct {
	File   string
	Output string
}

func (o *globalOptions) newPullCommand() *cobra.Command {
	var opts pullOptions
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Read the backup file",
		Long: `
The "pull" command prints the content of the backup file in the repository,
or writes it to --output.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := o.client()
			if err != nil {
				return err
			}
			content, err := c.GetContent(cmd.Context(), gitprovider.WithFile(opts.File))
			if err != nil {
				return err
			}
			if opts.Output != "" {
				return os.WriteFile(opts.Output, []byte(content), 0o600)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.File, "file", "f", gitprovider.DefaultBackupFile, "`path` of the backup file in the repository")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to `file` instead of stdout")
	return cmd
}
