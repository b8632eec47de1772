// Command adcanvas analyzes generated ad images and composes copy over them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adcanvas/internal/cli"
	adcerrors "github.com/matzehuels/adcanvas/pkg/errors"
)

// Exit statuses, so scripts batching ads can tell bad input from a flaky
// image host.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitNotFound    = 3
	exitUnavailable = 4
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	cancel()
	report(os.Stderr, err)
	os.Exit(exitCode(err))
}

func run(ctx context.Context, args []string) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.SetArgs(args)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", os.Getenv("ADCANVAS_DEBUG") != "", "enable debug logging (or set ADCANVAS_DEBUG)")

	// The level is set before the config loads so config errors log at the
	// requested verbosity.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// report prints err with its code when it carries one.
func report(w io.Writer, err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case adcerrors.GetCode(err) != "":
		fmt.Fprintf(w, "Error [%s]: %s\n", adcerrors.GetCode(err), adcerrors.UserMessage(err))
	default:
		fmt.Fprintln(w, "Error:", err)
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch adcerrors.GetCode(err) {
	case adcerrors.ErrCodeInvalidInput, adcerrors.ErrCodeInvalidFormat, adcerrors.ErrCodeInvalidImage,
		adcerrors.ErrCodeInvalidTreatment, adcerrors.ErrCodeInvalidConfig, adcerrors.ErrCodeInvalidPath:
		return exitUsage
	case adcerrors.ErrCodeNotFound:
		return exitNotFound
	case adcerrors.ErrCodeNetwork, adcerrors.ErrCodeTimeout:
		return exitUnavailable
	}
	return exitFailure
}
