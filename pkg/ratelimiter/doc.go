// Package ratelimiter implements a token bucket limiter with an in-memory
// store and HTTP middleware.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that would leave
// the bucket negative is denied until the next refill.
//
//	store := ratelimiter.NewMemoryStore()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	mw := ratelimiter.Middleware(limiter, clientip.FromRequest)
//
// Idle buckets expire from the memory store after an hour.
package ratelimiter
