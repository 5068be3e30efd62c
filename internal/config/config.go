// Package config holds the in-memory representation of a bot's trading
// configuration. Persistence is handled by internal/db.
package config

import "time"

// Config holds the decision-policy configuration for one bot account, per
// the options table in the engine specification.
type Config struct {
	// AcceptDonations accepts one-sided incoming-value trades from
	// non-bot counterparties.
	AcceptDonations bool `json:"accept_donations"`
	// DontAcceptBotTrades inverts donation acceptance for counterparties
	// that are other own bots.
	DontAcceptBotTrades bool `json:"dont_accept_bot_trades"`
	// SteamTradeMatcher enables neutral-or-better evaluation for
	// two-sided trades.
	SteamTradeMatcher bool `json:"steam_trade_matcher"`
	// MatchEverything skips the neutral-or-better check and accepts any
	// fair trade.
	MatchEverything bool `json:"match_everything"`
	// RejectInvalidTrades declines (instead of ignoring) rejected offers.
	RejectInvalidTrades bool `json:"reject_invalid_trades"`
	// SendOnFarmingFinished triggers the loot-send follow-up after a
	// pass that yielded lootable received items.
	SendOnFarmingFinished bool `json:"send_on_farming_finished"`

	// MatchableTypes is the set of item types allowed in a two-sided
	// trade under evaluation.
	MatchableTypes map[string]bool `json:"matchable_types"`
	// LootableTypes is the set of item types that trigger the post-pass
	// inventory-send follow-up.
	LootableTypes map[string]bool `json:"lootable_types"`

	// MaxTradeHoldDuration is the upper bound, in days, on a
	// counterparty's trade-hold; offers exceeding it are rejected.
	MaxTradeHoldDuration uint8 `json:"max_trade_hold_duration"`
	// ShortLivedSaleGames blacklists realAppIds whose trading cards are
	// rejected whenever any trade hold at all applies to the offer.
	ShortLivedSaleGames map[uint32]bool `json:"short_lived_sale_games"`
}

// Platform-imposed limits the core relies on only for capacity planning.
const (
	MaxItemsPerTrade    = 255
	MaxTradesPerAccount = 5
)

// TradeHoldCacheTTL bounds how long a GetTradeHoldDuration result for one
// counterparty is reused. The cache is not reset between scheduler passes,
// so a result can serve several consecutive passes within this window.
const TradeHoldCacheTTL = 5 * time.Minute

// Default returns a Config with conservative defaults: nothing is accepted
// automatically except fair, neutral-or-better two-sided trades.
func Default() *Config {
	return &Config{
		AcceptDonations:       false,
		DontAcceptBotTrades:   false,
		SteamTradeMatcher:     true,
		MatchEverything:       false,
		RejectInvalidTrades:   true,
		SendOnFarmingFinished: false,
		MatchableTypes: map[string]bool{
			"TradingCard": true,
			"FoilCard":    true,
			"Emoticon":    true,
			"Background":  true,
		},
		LootableTypes:        map[string]bool{"TradingCard": true, "FoilCard": true},
		MaxTradeHoldDuration: 0,
		ShortLivedSaleGames:  map[uint32]bool{},
	}
}
