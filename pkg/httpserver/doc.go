// Package httpserver runs the onboarding API with graceful shutdown.
//
// Server binds its listener before Run blocks, so a bad address fails fast
// with ErrStart and Addr reports the real port when ":0" was requested. Run
// returns when the context is cancelled, SIGINT/SIGTERM arrives or Shutdown
// is called; in-flight requests get Config.ShutdownTimeout to finish.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
//
// HealthCheckHandler serves /healthz: 200 with every named check "ok", or 503
// listing the failing ones.
package httpserver
