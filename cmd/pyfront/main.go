package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/token"
	"github.com/dhamidi/pyfront/python/tokenizer"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

// errFailed is returned by commands that already reported their
// problems and only need a non-zero exit status.
var errFailed = errors.New("failed")

type globalOptions struct {
	configPath string
	verbose    int
	language   string

	cfg *config.Config
}

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:           "pyfront",
		Short:         "Tokenize, parse and check Python 2.4 to 3.6 source",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: nearest .pyfront.toml or .pyfront.yaml)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more (repeat for debug output)")
	flags.StringVar(&opts.language, "version", "", "Python language version, e.g. 2.7 or 3.6")

	rootCmd.AddCommand(newTokenizeCmd(&opts))
	rootCmd.AddCommand(newParseCmd(&opts))
	rootCmd.AddCommand(newCheckCmd(&opts))
	rootCmd.AddCommand(newPrintCmd(&opts))
	rootCmd.AddCommand(newEncodingCmd(&opts))
	rootCmd.AddCommand(newLSPCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "pyfront: %s\n", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration and applies the global flags to it.
func (o *globalOptions) setup() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.Load(o.configPath)
	} else {
		o.cfg, err = config.LoadDir(".")
	}
	if err != nil {
		return err
	}

	if o.language != "" {
		v, err := token.ParseVersion(o.language)
		if err != nil {
			return fmt.Errorf("--version: %w", err)
		}
		o.cfg.Parser.Version = v
	}

	verbosity := o.cfg.LSP.Verbosity
	if o.verbose > 0 {
		verbosity = o.verbose
	}
	var logFile *string
	if o.cfg.LSP.LogFile != "" {
		logFile = &o.cfg.LSP.LogFile
	}
	commonlog.Configure(verbosity, logFile)
	return nil
}

// tokenize reads path, or stdin for "-", and tokenizes it with the
// configured language version.
func (o *globalOptions) tokenize(ctx context.Context, path string) (*tokenizer.Tokenization, error) {
	var doc tokenizer.Document = tokenizer.FileDocument{Path: path}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		doc = tokenizer.BytesDocument{Name: "<stdin>", Data: data}
	}
	tz, err := tokenizer.Tokenize(ctx, doc, o.cfg.Parser.Version, o.cfg.TokenizerOptions())
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", path, err)
	}
	return tz, nil
}
