package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/python/encoding"
)

func newEncodingCmd(opts *globalOptions) *cobra.Command {
	var listCodecs bool

	cmd := &cobra.Command{
		Use:   "encoding [file]",
		Short: "Show the source encoding Python would use for a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listCodecs {
				for _, name := range encoding.Names() {
					fmt.Println(name)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a file argument is required unless --list is given")
			}

			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(os.Stdin)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			_, res := encoding.Decode(data)
			fmt.Printf("codec:    %s\n", res.Codec)
			fmt.Printf("bom:      %t\n", res.HasBOM)
			if res.Declared != "" {
				fmt.Printf("declared: %s (line %d)\n", res.Declared, res.DeclaredLine)
			}

			failed := false
			for _, d := range res.Diagnostics {
				fmt.Printf("%v: %s: %s\n", d.Span.Start, d.Severity, d.Message)
				failed = true
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&listCodecs, "list", "l", false, "list the supported codec names")

	return cmd
}
