package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/internal/cli"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
)

// Exit codes.
const (
	exitFailure  = 1
	exitInvalid  = 2   // the document or configuration was rejected
	exitCanceled = 130 // standard shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level is only known once flags are parsed.
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code for it.
func report(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return exitCanceled
	}
	if code := errors.RootCode(err); code != "" {
		fmt.Fprintf(os.Stderr, "Error: %s [%s]\n", errors.UserMessage(err), code)
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	if errors.IsValidation(err) || errors.Has(err, errors.ErrCodeInvalidConfig) {
		return exitInvalid
	}
	return exitFailure
}
