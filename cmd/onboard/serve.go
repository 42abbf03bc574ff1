package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/onboardkit/pkg/api"
	"github.com/dmitrymomot/onboardkit/pkg/config"
	"github.com/dmitrymomot/onboardkit/pkg/environment"
	"github.com/dmitrymomot/onboardkit/pkg/httpserver"
	"github.com/dmitrymomot/onboardkit/pkg/ratelimiter"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			srvCfg, err := config.Load[httpserver.Config](a.loadOpts...)
			if err != nil {
				return err
			}
			if addr != "" {
				srvCfg.Addr = addr
			}

			exp, err := a.exporterFor(ctx)
			if err != nil {
				return err
			}
			repo, err := a.repository(ctx)
			if err != nil {
				return err
			}
			authSvc, checks, err := a.authService(ctx)
			if err != nil {
				return err
			}
			tc, err := a.ticketClient(authSvc)
			if err != nil {
				return err
			}

			limitCfg, err := config.Load[ratelimiter.Config](a.loadOpts...)
			if err != nil {
				return err
			}
			limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), limitCfg)
			if err != nil {
				return err
			}

			opts := []api.Option{
				api.WithCustomers(repo),
				api.WithExporter(exp),
				api.WithMetrics(a.metrics, a.registry),
				api.WithHealthChecks(checks...),
				api.WithRateLimiter(limiter),
				api.WithLogger(a.logger),
			}
			if authSvc != nil {
				opts = append(opts, api.WithAuth(authSvc, a.cfg.AuthSubject))
			}
			if tc != nil {
				opts = append(opts, api.WithTickets(tc))
			}
			handler := api.New(a.engine, a.catalog, opts...).Router()
			handler = environment.Middleware(environment.Parse(a.cfg.Env))(handler)

			return httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(a.logger)).Run(ctx, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR or :8080)")
	return cmd
}
