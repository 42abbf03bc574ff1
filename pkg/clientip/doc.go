// Package clientip resolves the address of the client behind reverse
// proxies. GetIP checks X-Forwarded-For (first valid entry), then X-Real-IP,
// then the TCP peer; Middleware stores the result in the request context.
//
// Proxy headers are trusted as sent, so only deploy behind a proxy that
// overwrites them.
package clientip
