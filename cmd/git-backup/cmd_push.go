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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fluxcd/go-git-backup/gitprovider"
)

type pushOptions struct {
	File string
}

func (o *globalOptions) newPushCommand() *cobra.Command {
	var opts pushOptions
	cmd := &cobra.Command{
		Use:   "push [local-file]",
		Short: "Write the backup file",
		Long: `
The "push" command replaces the content of the backup file in the repository
with the content of local-file, or of stdin if no file is given. The file is
created if it doesn't exist yet.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			var err error
			if len(args) == 1 {
				content, err = os.ReadFile(args[0])
			} else {
				content, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read content: %w", err)
			}
			c, err := o.client()
			if err != nil {
				return err
			}
			return c.UpdateContent(cmd.Context(), string(content), gitprovider.WithFile(opts.File))
		},
	}
	cmd.Flags().StringVarP(&opts.File, "file", "f", gitprovider.DefaultBackupFile, "`path` of the backup file in the repository")
	return cmd
}
