// Package tier holds the support tier catalog.
//
// A Catalog maps tier keys (bronze, silver, gold, platinum) to immutable Tier
// records. The process-wide catalog returned by Default is parsed once from
// the embedded tiers.yaml. Lookups of unknown keys fail with ErrUnknownTier;
// there is no default tier.
//
// Marketing copy for each tier lives in a separate narrative table
// (Narrative) and is not derived from the catalog numbers.
//
// Tier limits are Quota values where Unlimited (-1) means no bound. Truncate
// enforces a limit by dropping records from the tail, and Compare reports
// which limits a tier change raises or lowers.
package tier
