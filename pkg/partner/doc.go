// Package partner owns the verified-partner record.
//
// A VerifiedPartner exists once a partner has followed a verification link;
// absence means unverified. Records are created once and never updated or
// deleted, so MarkVerified is idempotent and a cached positive answer never
// goes stale.
//
// Repositories are provided for memory, a JSON file, PostgreSQL (pgx) and
// MongoDB. NewPartnerRepository picks one by name, and CachedPartnerRepository
// wraps any of them with a process-local read-through cache of positive answers.
package partner
