// Package api exposes the onboarding engine, the CRM and the ticket client
// over HTTP.
//
// Routes (all JSON unless noted):
//
//	GET    /healthz
//	GET    /metrics                      Prometheus exposition
//	GET    /v1/tiers                     catalog with localized narrative
//	GET    /v1/tiers/{key}
//	GET    /v1/tiers/compare?from=&to=
//	POST   /v1/render                    subject, text, html, filename, sections
//	POST   /v1/render/html               text/html
//	POST   /v1/render/text               text/plain
//	POST   /v1/render/download           text/html attachment
//	POST   /v1/render/export             stores the HTML, returns its URL
//	POST   /v1/render/mailto             {"url": "mailto:..."}
//	POST   /v1/render/send               delivers the email
//	GET    /v1/customers
//	POST   /v1/customers
//	GET    /v1/customers/{id}            ETag header
//	PUT    /v1/customers/{id}            If-Match required
//	DELETE /v1/customers/{id}
//	POST   /v1/customers/{id}/tier       truncates tenants and contacts
//	GET    /v1/customers/{id}/email      renders the email from the record
//	GET    /v1/customers/{id}/tickets
//	POST   /v1/customers/{id}/tickets
//	GET    /v1/auth/login                redirects to the identity provider
//	GET    /v1/auth/callback
//	GET    /v1/auth/status
//	POST   /v1/auth/logout
//
// Render requests without a language use the one negotiated by the i18n
// middleware (lang cookie, ?lang= or Accept-Language). Errors use the
// envelope {"error":{"code","message","details"}}; an unknown tier is 422,
// a validation failure 400, a stale If-Match 412.
package api
