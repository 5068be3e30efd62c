package trading

import (
	"sort"

	"tradeoffer-engine/internal/tradeerr"
)

// GroupInventoryState sums item amounts into InventoryState, grouped by
// SetKey then classId. It fails with tradeerr.ErrInvalidInput for an empty
// or nil input: callers are expected to have already established that the
// collection they're grouping is non-empty.
func GroupInventoryState(items []Item) (InventoryState, error) {
	if len(items) == 0 {
		return nil, tradeerr.ErrInvalidInput
	}
	state := make(InventoryState)
	for _, it := range items {
		key := it.Key()
		bucket, ok := state[key]
		if !ok {
			bucket = make(map[uint64]uint32)
			state[key] = bucket
		}
		bucket[it.ClassID] += it.Amount
	}
	return state, nil
}

// GroupInventorySets groups items the same way GroupInventoryState does,
// then sorts each SetKey's per-classId amounts ascending. The sort order is
// load-bearing: SetProgressEvaluator compares sequences index-aligned.
func GroupInventorySets(items []Item) (InventorySets, error) {
	state, err := GroupInventoryState(items)
	if err != nil {
		return nil, err
	}
	sets := make(InventorySets, len(state))
	for key, bucket := range state {
		seq := make([]uint32, 0, len(bucket))
		for _, amount := range bucket {
			seq = append(seq, amount)
		}
		sort.Slice(seq, func(i, j int) bool { return seq[i] < seq[j] })
		sets[key] = seq
	}
	return sets, nil
}

// GroupDividedInventoryState produces two simultaneous groupings of items:
// the full state and a state restricted to tradable items.
func GroupDividedInventoryState(items []Item) (full InventoryState, tradableOnly InventoryState, err error) {
	if len(items) == 0 {
		return nil, nil, tradeerr.ErrInvalidInput
	}
	full = make(InventoryState)
	tradableOnly = make(InventoryState)
	for _, it := range items {
		key := it.Key()
		addToState(full, key, it.ClassID, it.Amount)
		if it.Tradable {
			addToState(tradableOnly, key, it.ClassID, it.Amount)
		}
	}
	return full, tradableOnly, nil
}

func addToState(state InventoryState, key SetKey, classID uint64, amount uint32) {
	bucket, ok := state[key]
	if !ok {
		bucket = make(map[uint64]uint32)
		state[key] = bucket
	}
	bucket[classID] += amount
}

// SelectTradable returns the InventoryState restricted to tradable=true
// items.
func SelectTradable(items []Item) (InventoryState, error) {
	if len(items) == 0 {
		return nil, tradeerr.ErrInvalidInput
	}
	tradable := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Tradable {
			tradable = append(tradable, it)
		}
	}
	if len(tradable) == 0 {
		return make(InventoryState), nil
	}
	return GroupInventoryState(tradable)
}

// ExtractTradableMatching builds a new set of items satisfying a
// per-classId demand: for each tradable item whose classId appears in
// demand, it takes min(item.Amount, remainingDemand), records a copy with
// the adjusted amount, and decrements (or removes, once exhausted) the
// demand entry. demand is mutated in place.
func ExtractTradableMatching(inventory []Item, demand map[uint64]uint32) ([]Item, error) {
	if len(inventory) == 0 || len(demand) == 0 {
		return nil, tradeerr.ErrInvalidInput
	}
	var extracted []Item
	for _, it := range inventory {
		if !it.Tradable {
			continue
		}
		remaining, wanted := demand[it.ClassID]
		if !wanted || remaining == 0 {
			continue
		}
		take := it.Amount
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		copyItem := it.Copy()
		copyItem.Amount = take
		extracted = append(extracted, copyItem)

		remaining -= take
		if remaining == 0 {
			delete(demand, it.ClassID)
		} else {
			demand[it.ClassID] = remaining
		}
	}
	return extracted, nil
}
