// Package crm persists onboarding customers (company, tier, tenants and
// contacts) as JSON documents in file.Storage.
//
// Writes use ETag preconditions: Create fails if the ID exists and Update
// fails with ErrConflict when the stored document changed since it was read.
// Reads go through an in-memory go-cache layer that is refreshed on every
// write from this process.
//
// Tenants and contacts are bounded by the customer's tier. Create, Update and
// ChangeTier drop the tail of each list beyond the tier limit; the dropped
// records are gone and a later upgrade does not restore them.
package crm
