package trading

import (
	"context"
	"sync"
)

// fakePermissions is an in-memory Permissions implementation for tests.
type fakePermissions struct {
	masters     map[uint64]bool
	blacklisted map[uint64]bool
	ownBots     map[uint64]bool
}

func newFakePermissions() *fakePermissions {
	return &fakePermissions{
		masters:     map[uint64]bool{},
		blacklisted: map[uint64]bool{},
		ownBots:     map[uint64]bool{},
	}
}

func (f *fakePermissions) IsMaster(id uint64) bool      { return f.masters[id] }
func (f *fakePermissions) IsBlacklisted(id uint64) bool { return f.blacklisted[id] }
func (f *fakePermissions) IsOwnBot(id uint64) bool      { return f.ownBots[id] }

// fakeService is a TradingService test double with scriptable responses and
// call counters.
type fakeService struct {
	mu sync.Mutex

	activeOffers    []TradeOffer
	activeOffersErr error

	acceptResults map[uint64]acceptResult
	acceptCalls   []uint64

	declineResults map[uint64]bool
	declineCalls   []uint64

	holdDurations map[uint64]*uint8
	holdErr       map[uint64]error
	holdCalls     int

	inventory    []Item
	inventoryErr error

	confirmOK  bool
	confirmErr error
	confirmIDs []uint64

	hasAuthenticator bool

	// fetchGate, when non-nil, is closed by the test to release a
	// GetActiveTradeOffers call that is being held open to simulate an
	// in-flight pass.
	fetchStarted   chan struct{}
	fetchGate      chan struct{}
	fetchCallCount int
}

type acceptResult struct {
	ok                bool
	needsConfirmation bool
	err               error
}

func newFakeService() *fakeService {
	return &fakeService{
		acceptResults:  map[uint64]acceptResult{},
		declineResults: map[uint64]bool{},
		holdDurations:  map[uint64]*uint8{},
		holdErr:        map[uint64]error{},
	}
}

func (f *fakeService) GetActiveTradeOffers(ctx context.Context) ([]TradeOffer, error) {
	f.mu.Lock()
	f.fetchCallCount++
	f.mu.Unlock()

	if f.fetchStarted != nil {
		select {
		case f.fetchStarted <- struct{}{}:
		default:
		}
	}
	if f.fetchGate != nil {
		<-f.fetchGate
	}
	return f.activeOffers, f.activeOffersErr
}

func (f *fakeService) AcceptTradeOffer(ctx context.Context, id uint64) (bool, bool, error) {
	f.mu.Lock()
	f.acceptCalls = append(f.acceptCalls, id)
	f.mu.Unlock()
	r, ok := f.acceptResults[id]
	if !ok {
		return true, false, nil
	}
	return r.ok, r.needsConfirmation, r.err
}

func (f *fakeService) DeclineTradeOffer(ctx context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	f.declineCalls = append(f.declineCalls, id)
	f.mu.Unlock()
	if ok, set := f.declineResults[id]; set {
		return ok, nil
	}
	return true, nil
}

func (f *fakeService) GetInventory(ctx context.Context, steamID64 uint64) ([]Item, error) {
	return f.inventory, f.inventoryErr
}

func (f *fakeService) GetTradeHoldDuration(ctx context.Context, otherSteamID64, tradeOfferID uint64) (*uint8, error) {
	f.mu.Lock()
	f.holdCalls++
	f.mu.Unlock()
	if err, ok := f.holdErr[otherSteamID64]; ok {
		return nil, err
	}
	if d, ok := f.holdDurations[otherSteamID64]; ok {
		return d, nil
	}
	// Unscripted counterparties have no trade hold.
	noHold := uint8(0)
	return &noHold, nil
}

func (f *fakeService) HandleTwoFactorAuthenticationConfirmations(ctx context.Context, accept bool, kind ConfirmationKind, ids []uint64, waitIfNecessary bool) (bool, error) {
	f.confirmIDs = append(f.confirmIDs, ids...)
	return f.confirmOK, f.confirmErr
}

func (f *fakeService) HasMobileAuthenticator() bool { return f.hasAuthenticator }

// fakePlugins is a Plugins test double.
type fakePlugins struct {
	mu               sync.Mutex
	overrideOffer    bool
	resultsCallCount int
	lastResults      []ParseTradeResult
}

func (f *fakePlugins) OnBotTradeOffer(offer TradeOffer) bool {
	return f.overrideOffer
}

func (f *fakePlugins) OnBotTradeOfferResults(results []ParseTradeResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultsCallCount++
	f.lastResults = results
}
