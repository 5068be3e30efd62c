package trading

import (
	"context"

	"tradeoffer-engine/internal/config"
)

// DecisionPolicy applies the permission/donation/configuration cascade and
// delegates to the fairness and set-progress evaluators. ShouldAcceptTrade
// is the only entry point; it never mutates offer.
type DecisionPolicy struct {
	OwnSteamID64 uint64
	Config       *config.Config
	Service      TradingService
	Permissions  Permissions
	HoldCache    *TradeHoldCache
}

// ShouldAcceptTrade runs the ordered cascade from the specification; the
// first matching rule returns.
func (p *DecisionPolicy) ShouldAcceptTrade(ctx context.Context, offer TradeOffer) ResultKind {
	// 1. Master permission.
	if p.Permissions.IsMaster(offer.OtherSteamID64) {
		return ResultAccepted
	}

	// 2. Blacklist.
	if p.Permissions.IsBlacklisted(offer.OtherSteamID64) {
		return ResultBlacklisted
	}

	// 3. Malformed/transient: nothing on either side.
	if len(offer.ItemsToGive) == 0 && len(offer.ItemsToReceive) == 0 {
		return ResultTryAgain
	}

	// 4. Donation: nothing given.
	if len(offer.ItemsToGive) == 0 {
		return p.decideDonation(offer)
	}

	// 5. Two-sided matcher disabled.
	if !p.Config.SteamTradeMatcher {
		return ResultRejected
	}

	// 6. We'd be giving away more items than we receive.
	if len(offer.ItemsToGive) > len(offer.ItemsToReceive) {
		return ResultRejected
	}

	// 7. Disallowed item types, or count-wise unfair.
	if !p.allItemsMatchable(offer) {
		return ResultRejected
	}
	fair, err := IsFairExchange(offer.ItemsToGive, offer.ItemsToReceive)
	if err != nil || !fair {
		return ResultRejected
	}

	// 8. Trade-hold policy.
	if result, decided := p.checkTradeHold(ctx, offer); decided {
		return result
	}

	// 9. Configured to accept any fair trade without set-progress checks.
	if p.Config.MatchEverything {
		return ResultAccepted
	}

	// 10. Fetch own inventory restricted to the SetKeys the trade touches.
	inventory, err := p.fetchWantedInventory(ctx, offer)
	if err != nil || len(inventory) == 0 {
		return ResultTryAgain
	}

	// 11. Set-progress evaluation.
	give := copyItems(offer.ItemsToGive)
	receive := copyItems(offer.ItemsToReceive)
	ok, err := IsTradeNeutralOrBetter(inventory, give, receive)
	if err != nil {
		return ResultRejected
	}
	if ok {
		return ResultAccepted
	}
	return ResultRejected
}

func (p *DecisionPolicy) decideDonation(offer TradeOffer) ResultKind {
	acceptDonations := p.Config.AcceptDonations
	acceptBotTrades := !p.Config.DontAcceptBotTrades
	isBotTrade := p.Permissions.IsOwnBot(offer.OtherSteamID64)

	if acceptDonations && acceptBotTrades {
		return ResultAccepted
	}
	if !acceptDonations && !acceptBotTrades {
		return ResultRejected
	}
	if (acceptDonations && !isBotTrade) || (acceptBotTrades && isBotTrade) {
		return ResultAccepted
	}
	return ResultRejected
}

func (p *DecisionPolicy) allItemsMatchable(offer TradeOffer) bool {
	for _, it := range offer.ItemsToGive {
		if !p.Config.MatchableTypes[string(it.Type)] {
			return false
		}
	}
	for _, it := range offer.ItemsToReceive {
		if !p.Config.MatchableTypes[string(it.Type)] {
			return false
		}
	}
	return true
}

// checkTradeHold fetches (or reuses a cached) trade-hold duration for the
// counterparty. decided is true when the cascade should stop here: either
// the hold is unavailable (TryAgain) or it disqualifies the offer
// (Rejected).
func (p *DecisionPolicy) checkTradeHold(ctx context.Context, offer TradeOffer) (ResultKind, bool) {
	var hold *uint8
	if p.HoldCache != nil {
		if cached, ok := p.HoldCache.Get(offer.OtherSteamID64); ok {
			hold = cached
		}
	}
	if hold == nil {
		fetched, err := p.Service.GetTradeHoldDuration(ctx, offer.OtherSteamID64, offer.TradeOfferID)
		if err != nil {
			return ResultTryAgain, true
		}
		if p.HoldCache != nil {
			p.HoldCache.Set(offer.OtherSteamID64, fetched)
		}
		hold = fetched
	}
	if hold == nil {
		return ResultTryAgain, true
	}

	if *hold > p.Config.MaxTradeHoldDuration {
		return ResultRejected, true
	}
	if *hold > 0 && offerHasShortLivedSaleCard(offer, p.Config.ShortLivedSaleGames) {
		return ResultRejected, true
	}
	return ResultUnknown, false
}

func offerHasShortLivedSaleCard(offer TradeOffer, blacklistedGames map[uint32]bool) bool {
	for _, it := range offer.ItemsToGive {
		if it.Type == ItemTypeTradingCard && blacklistedGames[it.RealAppID] {
			return true
		}
	}
	return false
}

func (p *DecisionPolicy) fetchWantedInventory(ctx context.Context, offer TradeOffer) ([]Item, error) {
	wanted := make(map[SetKey]bool)
	for _, it := range offer.ItemsToGive {
		wanted[it.Key()] = true
	}

	all, err := p.Service.GetInventory(ctx, p.OwnSteamID64)
	if err != nil {
		return nil, err
	}

	filtered := make([]Item, 0, len(all))
	for _, it := range all {
		if wanted[it.Key()] {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Copy()
	}
	return out
}
