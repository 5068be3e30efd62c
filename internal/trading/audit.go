package trading

import "time"

// BotAccount is a registered member of the operator's own bot fleet, used to
// resolve the isBotTrade check and the Master permission.
type BotAccount struct {
	SteamID64 uint64
	Name      string
	IsMaster  bool
}

// BlacklistEntry is a persisted counterparty the decision policy must always
// decline trades with.
type BlacklistEntry struct {
	SteamID64 uint64
	Reason    string
	AddedAt   time.Time
}

// DecisionAuditRecord is a single operational record of one ParseTrade
// outcome, written for traceability; it plays no role in the decision
// algorithm itself.
type DecisionAuditRecord struct {
	TradeOfferID       uint64
	OtherSteamID64     uint64
	Result             string
	PreUpgradeResult   string
	NeedsMobileConfirm bool
	DecidedAt          time.Time
	PassID             string
}
