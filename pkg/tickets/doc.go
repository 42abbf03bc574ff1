// Package tickets reads and opens support tickets in the cloud ticket
// service on behalf of a signed-in operator.
//
// Every request carries a bearer token from an auth.TokenProvider. A 401
// from the service surfaces as ErrUnauthorized so callers can send the
// operator through the sign-in flow again.
//
//	client, err := tickets.NewClient(cfg, authService.Provider("operator"))
//	list, err := client.List(ctx, tickets.Filter{CustomerID: id})
//
// Allowance checks a customer's tickets against the tier quota and severity
// levels before Create is called.
package tickets
