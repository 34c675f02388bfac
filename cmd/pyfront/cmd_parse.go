package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/format"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var outputFormat string
	var includePositions bool
	var includeTrivia bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Python file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := opts.tokenize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			log := commonlog.GetLogger("pyfront.parser")
			tree, err := opts.parse(cmd.Context(), tz, diag.LogSink{Log: log, Name: tz.Moniker()})
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewASTJSONEncoder(os.Stdout).WithPositions(includePositions).WithTrivia(includeTrivia)
			case "tree":
				encoder = format.NewTreeEncoder(os.Stdout).WithPositions(includePositions)
			default:
				return fmt.Errorf("unknown format: %s (expected json or tree)", outputFormat)
			}

			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source spans")
	cmd.Flags().BoolVar(&includeTrivia, "trivia", false, "include whitespace and comments in json output")

	return cmd
}

// parse parses tz with the configured options. Diagnostics stay on the
// tree and are also sent to sink when it is not nil.
func (o *globalOptions) parse(ctx context.Context, tz *tokenizer.Tokenization, sink diag.ErrorSink) (*parser.AST, error) {
	popts := append(o.cfg.ParserOptions(), parser.WithLogger(commonlog.GetLogger("pyfront.parser")))
	tree, err := parser.New(tz, popts...).Parse(ctx, sink)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", tz.Moniker(), err)
	}
	return tree, nil
}
