package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/format"
)

func newPrintCmd(opts *globalOptions) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Reprint a Python file from its syntax tree",
		Long: `Reprint a Python file from its syntax tree, including whitespace,
comments and invalid code.

With --verify nothing is printed; the command fails when the reprint
differs from the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := opts.tokenize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree, err := opts.parse(cmd.Context(), tz, nil)
			if err != nil {
				return err
			}

			if !verify {
				return format.NewSourceEncoder(os.Stdout).Encode(tree)
			}
			got, want := format.Source(tree), tz.Source()
			if got != want {
				loc := tz.Location(commonPrefix(got, want))
				return fmt.Errorf("%s: reprint differs from the input at %v", args[0], loc)
			}
			fmt.Printf("%s: ok\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "check that the reprint matches the input")

	return cmd
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
