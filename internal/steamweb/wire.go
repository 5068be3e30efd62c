package steamweb

import "tradeoffer-engine/internal/trading"

// wireItem is the JSON shape of a single inventory/trade item as returned by
// the trading web API.
type wireItem struct {
	AppID      uint32 `json:"app_id"`
	RealAppID  uint32 `json:"real_app_id"`
	ClassID    uint64 `json:"class_id"`
	Type       string `json:"type"`
	Rarity     string `json:"rarity"`
	Amount     uint32 `json:"amount"`
	Tradable   bool   `json:"tradable"`
	Marketable bool   `json:"marketable"`
}

func (w wireItem) toDomain() trading.Item {
	return trading.Item{
		AppID:      w.AppID,
		RealAppID:  w.RealAppID,
		ClassID:    w.ClassID,
		Type:       trading.ItemType(w.Type),
		Rarity:     wireRarity(w.Rarity),
		Amount:     w.Amount,
		Tradable:   w.Tradable,
		Marketable: w.Marketable,
	}
}

func wireRarity(s string) trading.Rarity {
	switch s {
	case "Uncommon":
		return trading.RarityUncommon
	case "Rare":
		return trading.RarityRare
	default:
		return trading.RarityCommon
	}
}

// wireTradeOffer is the JSON shape of a trade offer as returned by the
// trading web API.
type wireTradeOffer struct {
	TradeOfferID   uint64     `json:"trade_offer_id"`
	OtherSteamID64 uint64     `json:"other_steam_id64"`
	State          string     `json:"state"`
	ItemsToGive    []wireItem `json:"items_to_give"`
	ItemsToReceive []wireItem `json:"items_to_receive"`
}

func (w wireTradeOffer) toDomain() trading.TradeOffer {
	give := make([]trading.Item, 0, len(w.ItemsToGive))
	for _, it := range w.ItemsToGive {
		give = append(give, it.toDomain())
	}
	receive := make([]trading.Item, 0, len(w.ItemsToReceive))
	for _, it := range w.ItemsToReceive {
		receive = append(receive, it.toDomain())
	}
	return trading.TradeOffer{
		TradeOfferID:   w.TradeOfferID,
		OtherSteamID64: w.OtherSteamID64,
		State:          wireState(w.State),
		ItemsToGive:    give,
		ItemsToReceive: receive,
	}
}

func wireState(s string) trading.TradeOfferState {
	switch s {
	case "Active":
		return trading.TradeOfferStateActive
	case "Accepted":
		return trading.TradeOfferStateAccepted
	case "Countered":
		return trading.TradeOfferStateCountered
	case "Expired":
		return trading.TradeOfferStateExpired
	case "Canceled":
		return trading.TradeOfferStateCanceled
	case "Declined":
		return trading.TradeOfferStateDeclined
	case "Invalid":
		return trading.TradeOfferStateInvalid
	default:
		return trading.TradeOfferStateUnknown
	}
}
