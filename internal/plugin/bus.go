// Package plugin implements the engine's out-bound plugin hook bus: an
// in-process publish/subscribe dispatcher for the two hooks the decision
// pipeline calls out to, with no external plugin runtime or persistence.
package plugin

import (
	"sync"

	"tradeoffer-engine/internal/trading"
)

// OfferHook is called once per offer the decision cascade would otherwise
// ignore or reject; returning true upgrades the decision to Accepted.
type OfferHook func(offer trading.TradeOffer) bool

// ResultsHook is called once per scheduler pass with every final decision
// produced during that pass.
type ResultsHook func(results []trading.ParseTradeResult)

// Bus dispatches registered hooks in registration order and implements
// trading.Plugins.
type Bus struct {
	mu           sync.Mutex
	offerHooks   []OfferHook
	resultsHooks []ResultsHook
}

// NewBus creates an empty hook bus.
func NewBus() *Bus {
	return &Bus{}
}

// RegisterOfferHook adds an offer hook. The first hook to return true wins;
// later hooks are not consulted for that offer.
func (b *Bus) RegisterOfferHook(hook OfferHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.offerHooks = append(b.offerHooks, hook)
}

// RegisterResultsHook adds a results hook.
func (b *Bus) RegisterResultsHook(hook ResultsHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resultsHooks = append(b.resultsHooks, hook)
}

// OnBotTradeOffer implements trading.Plugins.
func (b *Bus) OnBotTradeOffer(offer trading.TradeOffer) bool {
	b.mu.Lock()
	hooks := append([]OfferHook(nil), b.offerHooks...)
	b.mu.Unlock()

	for _, hook := range hooks {
		if hook(offer) {
			return true
		}
	}
	return false
}

// OnBotTradeOfferResults implements trading.Plugins.
func (b *Bus) OnBotTradeOfferResults(results []trading.ParseTradeResult) {
	b.mu.Lock()
	hooks := append([]ResultsHook(nil), b.resultsHooks...)
	b.mu.Unlock()

	for _, hook := range hooks {
		hook(results)
	}
}
