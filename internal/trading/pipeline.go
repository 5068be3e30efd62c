package trading

import (
	"context"
	"fmt"
	"time"

	"tradeoffer-engine/internal/logger"
)

// OfferPipeline evaluates a single trade offer end to end: dedup, decide,
// act, record.
type OfferPipeline struct {
	Policy  *DecisionPolicy
	Service TradingService
	Plugins Plugins
	Handled *HandledOfferSet

	// Audit, when non-nil, receives a DecisionAuditRecord for every offer
	// that reaches a final decision. PassID tags those records with the
	// correlation ID of the scheduler pass currently driving this
	// pipeline; the scheduler serializes passes, so setting it once before
	// fanning out is race-free.
	Audit  AuditRecorder
	PassID string
}

// ParseTrade implements the per-offer pipeline from the specification. The
// returned bool is needsMobileConfirmation: true only when the offer was
// accepted and the trading service reports the accept requires a mobile
// authenticator confirmation.
func (p *OfferPipeline) ParseTrade(ctx context.Context, offer TradeOffer) (*ParseTradeResult, bool) {
	if offer.State != TradeOfferStateActive {
		logger.Info("Trade", "skipping non-active offer")
		return nil, false
	}

	if !p.Handled.Add(offer.TradeOfferID) {
		result := NewParseTradeResult(offer.TradeOfferID, ResultIgnored, nil)
		return &result, false
	}

	preUpgrade := p.Policy.ShouldAcceptTrade(ctx, offer)
	result := preUpgrade

	if result == ResultIgnored || result == ResultRejected {
		if p.Plugins != nil && p.Plugins.OnBotTradeOffer(offer) {
			result = ResultAccepted
			logger.Info("Trade", fmt.Sprintf("plugin upgraded %s -> %s for offer %d", preUpgrade, result, offer.TradeOfferID))
		}
	}

	needsMobileConfirm := false
	switch result {
	case ResultAccepted:
		ok, needsConfirm, err := p.Service.AcceptTradeOffer(ctx, offer.TradeOfferID)
		if err != nil || !ok {
			result = ResultTryAgain
		} else {
			needsMobileConfirm = needsConfirm
		}
	case ResultBlacklisted:
		if !p.decline(ctx, offer.TradeOfferID) {
			result = ResultTryAgain
		}
	case ResultRejected:
		if p.Policy.Config.RejectInvalidTrades {
			if !p.decline(ctx, offer.TradeOfferID) {
				result = ResultTryAgain
			}
		}
	case ResultIgnored:
		// no side effect
	case ResultTryAgain:
		// already TryAgain; falls through below
	default:
		logger.Error("Trade", "ShouldAcceptTrade returned an unhandled result")
		return nil, false
	}

	// The spec's retry-eligibility invariant (§8 property 6) must hold
	// regardless of which branch produced TryAgain, not only the one
	// reached directly from the cascade.
	if result == ResultTryAgain {
		p.Handled.Remove(offer.TradeOfferID)
	}

	if result == ResultAccepted {
		p.logDonationIfAny(offer)
	}

	if p.Audit != nil {
		if err := p.Audit.RecordDecision(DecisionAuditRecord{
			TradeOfferID:       offer.TradeOfferID,
			OtherSteamID64:     offer.OtherSteamID64,
			Result:             result.String(),
			PreUpgradeResult:   preUpgrade.String(),
			NeedsMobileConfirm: needsMobileConfirm,
			DecidedAt:          time.Now().UTC(),
			PassID:             p.PassID,
		}); err != nil {
			logger.Error("Trade", fmt.Sprintf("failed to record decision audit for offer %d: %v", offer.TradeOfferID, err))
		}
	}

	received := receivedItemTypes(offer)
	out := NewParseTradeResult(offer.TradeOfferID, result, received)
	return &out, needsMobileConfirm
}

func (p *OfferPipeline) decline(ctx context.Context, tradeOfferID uint64) bool {
	ok, err := p.Service.DeclineTradeOffer(ctx, tradeOfferID)
	return err == nil && ok
}

func (p *OfferPipeline) logDonationIfAny(offer TradeOffer) {
	var give, receive uint64
	for _, it := range offer.ItemsToGive {
		give += uint64(it.Amount)
	}
	for _, it := range offer.ItemsToReceive {
		receive += uint64(it.Amount)
	}
	if receive > give {
		logger.Info("Trade", "accepted donation-shaped trade (received more than given)")
	}
}

func receivedItemTypes(offer TradeOffer) map[ItemType]bool {
	types := make(map[ItemType]bool, len(offer.ItemsToReceive))
	for _, it := range offer.ItemsToReceive {
		types[it.Type] = true
	}
	return types
}
