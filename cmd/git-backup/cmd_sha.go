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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

func (o *globalOptions) newSHACommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sha [path]",
		Short: "Print the blob SHA of a file at HEAD",
		Long: `
The "sha" command prints the blob SHA of path, the backup file by default, in
the tree at HEAD of the repository.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := gitprovider.DefaultBackupFile
			if len(args) == 1 {
				path = args[0]
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			sha, err := c.ResolveBlobSHA(cmd.Context(), path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sha)
			return err
		},
	}
}
