package config

import "testing"

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c == nil {
		t.Fatal("Default() returned nil")
	}
	if c.SteamTradeMatcher != true {
		t.Errorf("SteamTradeMatcher = %v, want true", c.SteamTradeMatcher)
	}
	if c.MatchEverything {
		t.Errorf("MatchEverything = %v, want false", c.MatchEverything)
	}
	if !c.RejectInvalidTrades {
		t.Errorf("RejectInvalidTrades = %v, want true", c.RejectInvalidTrades)
	}
	if c.AcceptDonations {
		t.Errorf("AcceptDonations = %v, want false", c.AcceptDonations)
	}
	if !c.MatchableTypes["TradingCard"] {
		t.Errorf("MatchableTypes missing TradingCard")
	}
	if !c.LootableTypes["TradingCard"] {
		t.Errorf("LootableTypes missing TradingCard")
	}
	if c.MaxTradeHoldDuration != 0 {
		t.Errorf("MaxTradeHoldDuration = %v, want 0", c.MaxTradeHoldDuration)
	}
}

func TestDefault_ReturnsDistinctMaps(t *testing.T) {
	a := Default()
	b := Default()
	a.MatchableTypes["Background"] = false
	if !b.MatchableTypes["Background"] {
		t.Fatal("Default() configs share underlying MatchableTypes map")
	}
}
