package giveaway

import "errors"

// Expected, user-facing outcomes. Callers branch on these rather than retry:
// a DuplicateEntry routes the user to lookup, an AlreadyClaimed bonus is not
// an error state worth retrying differently.
var (
	ErrGiveawayClosed   = errors.New("giveaway is not accepting entries")
	ErrStateRestricted  = errors.New("state is not eligible for this giveaway")
	ErrConsentRequired  = errors.New("consent is required to enter")
	ErrAlreadyClaimed   = errors.New("bonus already claimed")
	ErrBonusUnavailable = errors.New("bonus entries are not offered for this giveaway")
	ErrNoEntries        = errors.New("giveaway has no entries")

	// ErrTransientStore wraps store failures that did not reach a decision.
	// Reads may be retried; writes are surfaced so a retry can never
	// double-credit.
	ErrTransientStore = errors.New("transient store failure")
)
