package trading

import (
	"context"
	"testing"

	"tradeoffer-engine/internal/config"
)

func newTestPolicy() (*DecisionPolicy, *fakeService, *fakePermissions) {
	svc := newFakeService()
	perms := newFakePermissions()
	cfg := config.Default()
	return &DecisionPolicy{
		OwnSteamID64: 1,
		Config:       cfg,
		Service:      svc,
		Permissions:  perms,
		HoldCache:    NewTradeHoldCache(config.TradeHoldCacheTTL),
	}, svc, perms
}

func TestShouldAcceptTrade_MasterAlwaysAccepted(t *testing.T) {
	p, _, perms := newTestPolicy()
	perms.masters[42] = true
	offer := TradeOffer{TradeOfferID: 1, OtherSteamID64: 42}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultAccepted {
		t.Errorf("got %v, want Accepted", got)
	}
}

func TestShouldAcceptTrade_Blacklisted(t *testing.T) {
	p, _, perms := newTestPolicy()
	perms.blacklisted[42] = true
	offer := TradeOffer{TradeOfferID: 1, OtherSteamID64: 42, ItemsToGive: []Item{card(classA, 1)}}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultBlacklisted {
		t.Errorf("got %v, want Blacklisted", got)
	}
}

func TestShouldAcceptTrade_EmptyBothSidesIsTryAgain(t *testing.T) {
	p, _, _ := newTestPolicy()
	offer := TradeOffer{TradeOfferID: 1, OtherSteamID64: 42}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultTryAgain {
		t.Errorf("got %v, want TryAgain", got)
	}
}

func TestShouldAcceptTrade_Donation(t *testing.T) {
	tests := []struct {
		name                string
		acceptDonations     bool
		dontAcceptBotTrades bool
		isBotTrade          bool
		want                ResultKind
	}{
		{"both accept flags true", true, false, false, ResultAccepted},
		{"both effective flags false", false, true, false, ResultRejected},
		{"donation from human, only acceptDonations set", true, true, false, ResultAccepted},
		{"donation from human, only acceptDonations set, rejected for bot", true, true, true, ResultRejected},
		{"donation from bot, only bot-trades accepted", false, false, true, ResultAccepted},
		{"donation from human, only bot-trades accepted -> rejected", false, false, false, ResultRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, perms := newTestPolicy()
			p.Config.AcceptDonations = tt.acceptDonations
			p.Config.DontAcceptBotTrades = tt.dontAcceptBotTrades
			if tt.isBotTrade {
				perms.ownBots[42] = true
			}
			offer := TradeOffer{TradeOfferID: 1, OtherSteamID64: 42, ItemsToReceive: []Item{card(classA, 1)}}
			if got := p.ShouldAcceptTrade(context.Background(), offer); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldAcceptTrade_MatcherDisabledRejectsTwoSided(t *testing.T) {
	p, _, _ := newTestPolicy()
	p.Config.SteamTradeMatcher = false
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_GivingMoreThanReceivingIsRejected(t *testing.T) {
	p, _, _ := newTestPolicy()
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1), card(classB, 1)},
		ItemsToReceive: []Item{card(classC, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_DisallowedTypeIsRejected(t *testing.T) {
	p, _, _ := newTestPolicy()
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{{RealAppID: 1, Type: ItemTypeSaleItem, ClassID: 1, Amount: 1}},
		ItemsToReceive: []Item{{RealAppID: 1, Type: ItemTypeSaleItem, ClassID: 2, Amount: 1}},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_UnfairExchangeIsRejected(t *testing.T) {
	p, _, _ := newTestPolicy()
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 2)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_HoldUnavailableIsTryAgain(t *testing.T) {
	p, svc, _ := newTestPolicy()
	svc.holdErr[42] = context.DeadlineExceeded
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultTryAgain {
		t.Errorf("got %v, want TryAgain", got)
	}
}

func TestShouldAcceptTrade_HoldExceedsMaxIsRejected(t *testing.T) {
	p, svc, _ := newTestPolicy()
	p.Config.MaxTradeHoldDuration = 1
	hold := uint8(3)
	svc.holdDurations[42] = &hold
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_ShortLivedSaleGameRejectedOnAnyHold(t *testing.T) {
	p, svc, _ := newTestPolicy()
	p.Config.MaxTradeHoldDuration = 10
	p.Config.ShortLivedSaleGames = map[uint32]bool{100: true}
	hold := uint8(1)
	svc.holdDurations[42] = &hold
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}

func TestShouldAcceptTrade_MatchEverythingSkipsSetProgress(t *testing.T) {
	p, _, _ := newTestPolicy()
	p.Config.MatchEverything = true
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultAccepted {
		t.Errorf("got %v, want Accepted", got)
	}
}

func TestShouldAcceptTrade_InventoryUnavailableIsTryAgain(t *testing.T) {
	p, svc, _ := newTestPolicy()
	svc.inventory = nil
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultTryAgain {
		t.Errorf("got %v, want TryAgain", got)
	}
}

func TestShouldAcceptTrade_NeutralOrBetterAccepts(t *testing.T) {
	p, svc, _ := newTestPolicy()
	svc.inventory = []Item{card(classA, 2), card(classB, 2), card(classC, 2)}
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classD, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultAccepted {
		t.Errorf("got %v, want Accepted", got)
	}
}

func TestShouldAcceptTrade_NotNeutralOrBetterRejects(t *testing.T) {
	p, svc, _ := newTestPolicy()
	svc.inventory = []Item{card(classA, 1), card(classB, 1)}
	offer := TradeOffer{
		TradeOfferID:   1,
		OtherSteamID64: 42,
		ItemsToGive:    []Item{card(classA, 1)},
		ItemsToReceive: []Item{card(classB, 1)},
	}
	if got := p.ShouldAcceptTrade(context.Background(), offer); got != ResultRejected {
		t.Errorf("got %v, want Rejected", got)
	}
}
