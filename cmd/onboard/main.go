// Command onboard renders support onboarding emails, manages the customer
// records they are generated from, and serves both over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/onboardkit/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newRootCmd wires every subcommand. opts reach each config.Load call.
func newRootCmd(opts ...config.Option) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "onboard",
		Short:         "Generate support onboarding emails and manage customers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			built, err := newApp(cmd.Context(), cmd.ErrOrStderr(), opts...)
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}

	root.AddCommand(
		newRenderCmd(a),
		newTiersCmd(a),
		newCustomerCmd(a),
		newServeCmd(a),
	)
	return root
}
