// Package trading implements the trade-offer evaluation engine: the
// inventory/fairness/set-progress decision core, the per-offer pipeline,
// and the coalescing scheduler described by the engine specification.
package trading

import "sync"

// ItemType enumerates the kinds of tradable items the decision core
// understands. The concrete set is small and closed; unknown values coming
// from the trading service are preserved as opaque strings by ItemType
// itself rather than rejected, since MatchableTypes/LootableTypes filtering
// happens against configured sets of these values.
type ItemType string

const (
	ItemTypeTradingCard ItemType = "TradingCard"
	ItemTypeFoilCard     ItemType = "FoilCard"
	ItemTypeEmoticon     ItemType = "Emoticon"
	ItemTypeBackground   ItemType = "Background"
	ItemTypeSaleItem     ItemType = "SaleItem"
	ItemTypeUnknown      ItemType = "Unknown"
)

// Rarity is an ordinal rarity tier used only for SetKey grouping.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
)

// Item represents a single stack of fungible in-game objects offered or
// held in inventory.
type Item struct {
	AppID       uint32
	RealAppID   uint32
	ClassID     uint64
	Type        ItemType
	Rarity      Rarity
	Amount      uint32
	Tradable    bool
	Marketable  bool
}

// Copy returns a shallow value copy of the item. The decision algorithm
// mutates Amount during simulation; every caller that needs to do so must
// operate on a Copy, never the caller's original slice element.
func (i Item) Copy() Item {
	return i
}

// SetKey groups items into a "set": all items sharing realAppId, type, and
// rarity are interchangeable members of the same set for the purposes of
// fairness and set-progress evaluation.
type SetKey struct {
	RealAppID uint32
	Type      ItemType
	Rarity    Rarity
}

// Key computes the SetKey an item belongs to.
func (i Item) Key() SetKey {
	return SetKey{RealAppID: i.RealAppID, Type: i.Type, Rarity: i.Rarity}
}

// InventoryState maps a SetKey to the aggregated amount held per classId.
type InventoryState map[SetKey]map[uint64]uint32

// InventorySets maps a SetKey to the ascending-sorted sequence of
// per-classId amounts. The number of complete sets is the first element
// (the minimum); the number of unique classes held is the sequence length.
type InventorySets map[SetKey][]uint32

// CompleteSets returns the number of complete sets for seq, i.e. its
// minimum. seq must already be sorted ascending.
func CompleteSets(seq []uint32) uint32 {
	if len(seq) == 0 {
		return 0
	}
	return seq[0]
}

// TradeOfferState is the lifecycle state of a trade offer on the remote
// trading service. Only Active offers are ever processed by the pipeline.
type TradeOfferState int

const (
	TradeOfferStateUnknown TradeOfferState = iota
	TradeOfferStateActive
	TradeOfferStateAccepted
	TradeOfferStateCountered
	TradeOfferStateExpired
	TradeOfferStateCanceled
	TradeOfferStateDeclined
	TradeOfferStateInvalid
)

// TradeOffer is a two-sided proposal of items given/received.
type TradeOffer struct {
	TradeOfferID   uint64
	OtherSteamID64 uint64 // 0 means "Steam system"
	State          TradeOfferState
	ItemsToGive    []Item
	ItemsToReceive []Item
}

// ResultKind is the outcome of evaluating a trade offer.
type ResultKind int

const (
	ResultUnknown ResultKind = iota
	ResultAccepted
	ResultBlacklisted
	ResultIgnored
	ResultRejected
	ResultTryAgain
)

func (r ResultKind) String() string {
	switch r {
	case ResultAccepted:
		return "Accepted"
	case ResultBlacklisted:
		return "Blacklisted"
	case ResultIgnored:
		return "Ignored"
	case ResultRejected:
		return "Rejected"
	case ResultTryAgain:
		return "TryAgain"
	default:
		return "Unknown"
	}
}

// ParseTradeResult is the outcome of a single ParseTrade invocation.
type ParseTradeResult struct {
	TradeOfferID      uint64
	Result            ResultKind
	ReceivedItemTypes map[ItemType]bool
}

// NewParseTradeResult constructs a ParseTradeResult. It panics if
// tradeOfferID is zero or result is ResultUnknown: those are programming
// errors in the pipeline, never a value a caller should observe.
func NewParseTradeResult(tradeOfferID uint64, result ResultKind, receivedItemTypes map[ItemType]bool) ParseTradeResult {
	if tradeOfferID == 0 {
		panic("trading: ParseTradeResult requires a nonzero tradeOfferID")
	}
	if result == ResultUnknown {
		panic("trading: ParseTradeResult requires a non-Unknown result")
	}
	if receivedItemTypes == nil {
		receivedItemTypes = map[ItemType]bool{}
	}
	return ParseTradeResult{TradeOfferID: tradeOfferID, Result: result, ReceivedItemTypes: receivedItemTypes}
}

// HandledOfferSet is a thread-safe set of trade offer IDs already decided in
// this process's lifetime. Its cardinality is bounded by the active-offer
// count across the account's fleet, so a mutex around a plain map is
// sufficient; performance is not the concern here.
type HandledOfferSet struct {
	mu  sync.Mutex
	ids map[uint64]bool
}

// NewHandledOfferSet creates an empty set.
func NewHandledOfferSet() *HandledOfferSet {
	return &HandledOfferSet{ids: make(map[uint64]bool)}
}

// Add inserts id and reports whether it was not already present.
func (s *HandledOfferSet) Add(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		return false
	}
	s.ids[id] = true
	return true
}

// Remove deletes id from the set.
func (s *HandledOfferSet) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// Contains reports whether id is present.
func (s *HandledOfferSet) Contains(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// Clear empties the set.
func (s *HandledOfferSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[uint64]bool)
}

// Len reports the number of handled offer IDs currently tracked.
func (s *HandledOfferSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IntersectWith retains only the IDs present in active, evicting any
// handled ID that is no longer reachable in the active-offer set.
func (s *HandledOfferSet) IntersectWith(active map[uint64]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.ids {
		if !active[id] {
			delete(s.ids, id)
		}
	}
}

// ExceptWith removes every ID in remove from the set.
func (s *HandledOfferSet) ExceptWith(remove []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range remove {
		delete(s.ids, id)
	}
}
