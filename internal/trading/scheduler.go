package trading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"tradeoffer-engine/internal/config"
	"tradeoffer-engine/internal/logger"
)

// defaultFanOutConcurrency bounds how many offers are evaluated in
// parallel within one pass. The source fans out unbounded; a cap here
// avoids spawning thousands of goroutines against a burst of offers.
const defaultFanOutConcurrency = 16

// Scheduler coalesces bursts of "a trade may have changed" events into at
// most one running pass plus at most one pending pass, serialized against
// an external per-account trading lock owned by another subsystem.
type Scheduler struct {
	Pipeline          *OfferPipeline
	Service           TradingService
	Plugins           Plugins
	Config            *config.Config
	TradingLock       sync.Locker
	Concurrency       int
	OnFarmingFinished func()

	schedulingMu     sync.Mutex
	parsingScheduled bool
	tradesSemaphore  chan struct{} // binary: capacity 1

	statusMu         sync.Mutex
	lastPassAt       time.Time
	lastPassDuration time.Duration
}

// Status is a snapshot of the scheduler's current state, for the
// status/control API.
type Status struct {
	ParsingScheduled bool
	HandledOffers    int
	LastPassAt       time.Time
	LastPassDuration time.Duration
}

// Status returns a snapshot of the scheduler's current state.
func (s *Scheduler) Status() Status {
	s.schedulingMu.Lock()
	scheduled := s.parsingScheduled
	s.schedulingMu.Unlock()

	s.statusMu.Lock()
	lastAt, lastDuration := s.lastPassAt, s.lastPassDuration
	s.statusMu.Unlock()

	return Status{
		ParsingScheduled: scheduled,
		HandledOffers:    s.Pipeline.Handled.Len(),
		LastPassAt:       lastAt,
		LastPassDuration: lastDuration,
	}
}

// NewScheduler creates a Scheduler. tradingLock is the external,
// orthogonal mutex that guards the account's trading state against
// concurrent mutation by other subsystems (e.g. loot/transfer); it must be
// acquired inside the binary semaphore and before parsingScheduled is
// cleared.
func NewScheduler(pipeline *OfferPipeline, service TradingService, plugins Plugins, cfg *config.Config, tradingLock sync.Locker) *Scheduler {
	return &Scheduler{
		Pipeline:        pipeline,
		Service:         service,
		Plugins:         plugins,
		Config:          cfg,
		TradingLock:     tradingLock,
		Concurrency:     defaultFanOutConcurrency,
		tradesSemaphore: make(chan struct{}, 1),
	}
}

func (s *Scheduler) concurrencyCap() int {
	if s.Concurrency <= 0 {
		return defaultFanOutConcurrency
	}
	return s.Concurrency
}

// OnDisconnected clears the process-lifetime HandledOfferSet. Any in-flight
// pass may still complete against stale data; that's benign, since the set
// is repopulated on the next active-offer fetch.
func (s *Scheduler) OnDisconnected() {
	s.Pipeline.Handled.Clear()
}

// OnNewTrade runs the coalescing protocol: at most one pass is running, at
// most one is pending. A call arriving while a pass is already pending
// returns immediately without doing anything.
func (s *Scheduler) OnNewTrade(ctx context.Context) {
	s.schedulingMu.Lock()
	if s.parsingScheduled {
		s.schedulingMu.Unlock()
		return
	}
	s.parsingScheduled = true
	s.schedulingMu.Unlock()

	s.tradesSemaphore <- struct{}{}
	s.TradingLock.Lock()

	s.schedulingMu.Lock()
	s.parsingScheduled = false
	s.schedulingMu.Unlock()

	passID := uuid.New().String()
	logger.Info("Scheduler", fmt.Sprintf("pass %s starting", passID))
	start := time.Now()
	sendLoot, err := s.parseActiveTrades(ctx, passID)
	duration := time.Since(start)

	s.TradingLock.Unlock()
	<-s.tradesSemaphore

	s.statusMu.Lock()
	s.lastPassAt = start
	s.lastPassDuration = duration
	s.statusMu.Unlock()

	if err != nil {
		logger.Error("Scheduler", fmt.Sprintf("pass %s failed: %v", passID, err))
		return
	}
	logger.Info("Scheduler", fmt.Sprintf("pass %s complete", passID))

	if sendLoot && s.OnFarmingFinished != nil {
		s.OnFarmingFinished()
	}
}

type offerEvaluation struct {
	result             *ParseTradeResult
	needsMobileConfirm bool
}

// parseActiveTrades fetches active offers, prunes stale handled IDs,
// evaluates the remaining offers in parallel (bounded concurrency), drives
// any required two-factor confirmations as a single batch, and reports the
// valid results to the plugin bus.
func (s *Scheduler) parseActiveTrades(ctx context.Context, passID string) (bool, error) {
	offers, err := s.Service.GetActiveTradeOffers(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch active offers: %w", err)
	}
	if len(offers) == 0 {
		return false, nil
	}

	activeIDs := make(map[uint64]bool, len(offers))
	for _, o := range offers {
		activeIDs[o.TradeOfferID] = true
	}
	s.Pipeline.Handled.IntersectWith(activeIDs)

	s.Pipeline.PassID = passID
	evaluations := s.evaluateOffers(ctx, offers)

	hasAuthenticator := false
	if auth, ok := s.Service.(HasMobileAuthenticator); ok {
		hasAuthenticator = auth.HasMobileAuthenticator()
	}

	var confirmIDs []uint64
	for _, e := range evaluations {
		if e.result.Result == ResultAccepted && e.needsMobileConfirm {
			confirmIDs = append(confirmIDs, e.result.TradeOfferID)
		}
	}
	if len(confirmIDs) > 0 {
		if !hasAuthenticator {
			for _, id := range confirmIDs {
				s.Pipeline.Handled.Remove(id)
			}
			return false, errors.New("mobile confirmation required but no authenticator is configured")
		}
		ok, err := s.Service.HandleTwoFactorAuthenticationConfirmations(ctx, true, ConfirmationKindTrade, confirmIDs, true)
		if err != nil || !ok {
			for _, id := range confirmIDs {
				s.Pipeline.Handled.Remove(id)
			}
			if err == nil {
				err = errors.New("confirmation batch rejected")
			}
			return false, fmt.Errorf("two-factor confirmation: %w", err)
		}
	}

	valid := make([]ParseTradeResult, 0, len(evaluations))
	for _, e := range evaluations {
		valid = append(valid, *e.result)
	}
	if s.Plugins != nil {
		s.Plugins.OnBotTradeOfferResults(valid)
	}
	logger.Stats("offers evaluated ("+passID[:8]+")", len(valid))

	lootable := false
	for _, e := range evaluations {
		if e.result.Result != ResultAccepted {
			continue
		}
		for t := range e.result.ReceivedItemTypes {
			if s.Config.LootableTypes[string(t)] {
				lootable = true
			}
		}
	}
	return lootable, nil
}

// evaluateOffers runs ParseTrade over every offer not already in
// HandledOfferSet, in parallel, bounded to concurrencyCap() in flight at
// once via a weighted semaphore.
func (s *Scheduler) evaluateOffers(ctx context.Context, offers []TradeOffer) []offerEvaluation {
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := semaphore.NewWeighted(int64(s.concurrencyCap()))
	results := make([]offerEvaluation, 0, len(offers))

	for _, offer := range offers {
		if s.Pipeline.Handled.Contains(offer.TradeOfferID) {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// ctx canceled while waiting for a slot; the remaining offers
			// are left out of this pass and retried on the next one.
			break
		}
		wg.Add(1)
		go func(o TradeOffer) {
			defer wg.Done()
			defer sem.Release(1)

			result, needsConfirm := s.Pipeline.ParseTrade(ctx, o)
			if result == nil {
				return
			}
			mu.Lock()
			results = append(results, offerEvaluation{result: result, needsMobileConfirm: needsConfirm})
			mu.Unlock()
		}(offer)
	}
	wg.Wait()
	return results
}
