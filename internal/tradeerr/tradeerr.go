// Package tradeerr defines the sentinel errors used across the trading
// decision core so callers can classify failures with errors.Is instead of
// string matching.
package tradeerr

import "errors"

// ErrInvalidInput marks a programming-error-grade contract violation in one
// of the pure evaluators (nil/empty required collections, an inventory that
// does not actually contain what is being given, and similar). It is fatal
// to the caller: evaluators never recover from it internally.
var ErrInvalidInput = errors.New("trading: invalid input")

// ErrTransient marks a network or parse failure that should surface as
// TryAgain rather than a semantic decision. Offer IDs associated with a
// transient failure are removed from the handled-offer set so a later pass
// retries them.
var ErrTransient = errors.New("trading: transient failure")
