// Package redis connects to the optional Redis server that backs shared
// OAuth state when the API runs as more than one replica.
//
// Connect parses a redis:// URL and pings the server, retrying until the
// configured attempts run out or the context is done. Probe returns a
// readiness check for the /healthz handler.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//	states := auth.NewRedisStateStore(client)
//
// Errors are sentinel values (ErrNotReady and friends) joined with the
// go-redis error.
package redis
