package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dhamidi/pyfront/format"
)

func newTokenizeCmd(opts *globalOptions) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the tokens of a Python file line by line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := opts.tokenize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			useColor := color == "always" || (color == "auto" && term.IsTerminal(int(os.Stdout.Fd())))
			return format.NewTokenEncoder(os.Stdout).WithColor(useColor).Encode(tz)
		},
	}

	cmd.Flags().StringVar(&color, "color", "auto", "colorize token classes (auto, always, never)")
	cmd.Flags().Lookup("color").NoOptDefVal = "always"

	return cmd
}
