// Package verification implements the partner-verification token lifecycle.
//
// A Ledger issues one-time tokens bound to a claimed partner email and consumes
// each one at most once. Tokens live in a TokenStore keyed by a blake2b hash of
// the token value, so a store dump does not contain usable links. Two stores are
// provided: MemoryTokenStore for a single process and RedisTokenStore, which
// also expires tokens natively.
//
// Service sits on top of the ledger. RequestVerification issues a token and
// mails the link; Verify consumes the token and then records the partner as
// verified. The order is consume then persist: a store failure after a
// successful consume loses that token and the partner must request a new link.
//
// Token states:
//
//	Issued -> Consumed
//	Issued -> Expired
//
// Both end states are terminal.
package verification
