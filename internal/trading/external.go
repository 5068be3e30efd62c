package trading

import "context"

// ConfirmationKind distinguishes the kind of mobile authenticator
// confirmation being batched; only Trade confirmations are produced by
// this engine, but the type models the contract generally.
type ConfirmationKind int

const (
	ConfirmationKindTrade ConfirmationKind = iota
)

// TradingService is the external collaborator contract: the HTTP/web
// client that lists offers, posts accept/decline, fetches inventories,
// queries trade holds, and drives two-factor confirmations. Concrete
// implementations live in internal/steamweb.
type TradingService interface {
	GetActiveTradeOffers(ctx context.Context) ([]TradeOffer, error)
	AcceptTradeOffer(ctx context.Context, tradeOfferID uint64) (ok bool, needsMobileConfirmation bool, err error)
	DeclineTradeOffer(ctx context.Context, tradeOfferID uint64) (bool, error)
	GetInventory(ctx context.Context, steamID64 uint64) ([]Item, error)
	GetTradeHoldDuration(ctx context.Context, otherSteamID64, tradeOfferID uint64) (*uint8, error)
	HandleTwoFactorAuthenticationConfirmations(ctx context.Context, accept bool, kind ConfirmationKind, ids []uint64, waitIfNecessary bool) (bool, error)
}

// HasMobileAuthenticator reports whether the account has a mobile
// authenticator configured; without one, two-factor confirmation can't be
// driven and accepted offers requiring it must be left pending.
type HasMobileAuthenticator interface {
	HasMobileAuthenticator() bool
}

// Permissions resolves counterparty identity questions the decision cascade
// needs: master-permission grants, the blacklist, and "is this another of
// our own bots".
type Permissions interface {
	IsMaster(steamID64 uint64) bool
	IsBlacklisted(steamID64 uint64) bool
	IsOwnBot(steamID64 uint64) bool
}

// Plugins is the out-bound plugin hook bus.
type Plugins interface {
	OnBotTradeOffer(offer TradeOffer) bool
	OnBotTradeOfferResults(results []ParseTradeResult)
}

// AuditRecorder persists a DecisionAuditRecord for operational visibility.
// It plays no role in the decision algorithm; a pipeline with a nil Audit
// simply skips recording.
type AuditRecorder interface {
	RecordDecision(rec DecisionAuditRecord) error
}
