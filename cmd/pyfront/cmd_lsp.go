package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/codebase"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without --config the server looks the configuration up from
			// the workspace root the client sends.
			cfg := opts.cfg
			if opts.configPath == "" {
				cfg = nil
			}
			server := codebase.NewLSPServer(version, cfg)
			return server.RunStdio()
		},
	}
}
