// Command gnomad composes staged gnomAD variant records and loads gene
// and variant documents into Elasticsearch.
package main

import (
	"fmt"
	"io"
	"os"

	"gnomad/pipeline/models"
	"gnomad/pipeline/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// usageError marks failures caused by how the command was invoked
// (flags, arguments or configuration) rather than by the work itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return &usageError{err: errors.Errorf(format, args...)}
}

type app struct {
	cfg    models.Config
	logger *zap.Logger

	stdout io.Writer
	stderr io.Writer

	// persistent flag overrides
	esUrl string
	debug bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rc := newRootCommand(a)
	rc.SetArgs(args)

	err := rc.Execute()
	if a.logger != nil {
		a.logger.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var uerr *usageError
	if errors.As(err, &uerr) {
		return ExitUsage
	}
	return ExitError
}

func newRootCommand(a *app) *cobra.Command {
	rc := &cobra.Command{
		Use:   "gnomad",
		Short: "Compose gnomAD variant records and load them into Elasticsearch",
		Long: `Composes staged gnomAD variant records with their coverage statistics
and loads gene and variant documents into Elasticsearch.

Connection settings are read from GNOMAD_* environment variables.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          unknownCommand,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setUp(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Help()
			return usagef("a command is required")
		},
	}

	rc.PersistentFlags().StringVar(&a.esUrl, "es-url", "", "Elasticsearch url (overrides GNOMAD_ES_URL)")
	rc.PersistentFlags().BoolVar(&a.debug, "debug", false, "verbose logging (overrides GNOMAD_DEBUG)")

	rc.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rc.AddCommand(newLoadGenesCommand(a))
	rc.AddCommand(newComposeCommand(a))
	rc.AddCommand(newServeCommand(a))

	rc.SetOut(a.stdout)
	rc.SetErr(a.stderr)
	return rc
}

// setUp gathers the configuration from the environment and builds the logger.
func (a *app) setUp(cmd *cobra.Command) error {
	if err := envconfig.Process("", &a.cfg); err != nil {
		return &usageError{err: errors.Wrap(err, "reading configuration")}
	}

	if cmd.Flags().Changed("es-url") {
		a.cfg.Elasticsearch.Url = a.esUrl
	}
	if cmd.Flags().Changed("debug") {
		a.cfg.Debug = a.debug
	}

	logger, err := utils.NewLogger(a.cfg.Debug)
	if err != nil {
		return errors.Wrap(err, "building logger")
	}
	a.logger = logger

	a.logger.Debug("using configuration",
		zap.Bool("debug", a.cfg.Debug),
		zap.String("elasticsearchUrl", a.cfg.Elasticsearch.Url),
		zap.String("elasticsearchUsername", a.cfg.Elasticsearch.Username),
		zap.Bool("verifyCerts", a.cfg.Elasticsearch.VerifyCerts),
		zap.Duration("timeout", a.cfg.Elasticsearch.Timeout),
		zap.String("genesIndex", a.cfg.Api.GenesIndex),
		zap.String("variantsIndex", a.cfg.Api.VariantsIndex))

	return nil
}

// unknownCommand rejects positional arguments that did not resolve
// to a subcommand.
func unknownCommand(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}
