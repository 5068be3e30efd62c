package trading

import "tradeoffer-engine/internal/tradeerr"

// IsTradeNeutralOrBetter decides whether applying give/receive to inventory
// preserves or improves set-completion progress across every SetKey the
// trade touches. inventory is assumed pre-filtered to SetKeys relevant to
// the trade; give and receive are not mutated (the simulation runs over
// shallow copies).
func IsTradeNeutralOrBetter(inventory, give, receive []Item) (bool, error) {
	if len(inventory) == 0 {
		return false, tradeerr.ErrInvalidInput
	}

	initial, err := GroupInventorySets(inventory)
	if err != nil {
		return false, err
	}

	working := make([]Item, len(inventory))
	for i, it := range inventory {
		working[i] = it.Copy()
	}

	working, err = applyGive(working, give)
	if err != nil {
		return false, err
	}
	working = applyReceive(working, receive)

	final, err := GroupInventorySets(working)
	if err != nil {
		return false, err
	}

	for key, before := range initial {
		after, ok := final[key]
		if !ok {
			return false, nil // regression: lost the entire set
		}
		if len(after) < len(before) {
			return false, nil // lost a unique class
		}
		if len(after) > len(before) {
			continue // gained a unique class: strictly better
		}

		b0, a0 := before[0], after[0]
		if a0 < b0 {
			return false, nil
		}
		if a0 > b0 {
			continue
		}

		// Same unique-class count, same complete-set count: walk the
		// prefix sums of the difference. Neutrality must never dip
		// below zero: gains must at every prefix at least offset
		// losses.
		neutrality := int64(0)
		for i := range before {
			neutrality += int64(after[i]) - int64(before[i])
			if neutrality < 0 {
				return false, nil
			}
		}
	}

	return true, nil
}

// applyGive destructively deducts each give item's amount from working,
// scanning entries sharing the same classId. An entry fully consumed is
// removed; one partially consumed has its Amount decremented. If the total
// deducted across matches is less than the item's amount, the inventory
// does not actually contain what is being given.
func applyGive(working []Item, give []Item) ([]Item, error) {
	for _, g := range give {
		remaining := g.Amount
		for i := range working {
			if remaining == 0 {
				break
			}
			if working[i].ClassID != g.ClassID {
				continue
			}
			deduct := working[i].Amount
			if deduct > remaining {
				deduct = remaining
			}
			working[i].Amount -= deduct
			remaining -= deduct
		}
		if remaining > 0 {
			return nil, tradeerr.ErrInvalidInput
		}
		working = removeExhausted(working)
	}
	return working, nil
}

func removeExhausted(working []Item) []Item {
	out := working[:0]
	for _, it := range working {
		if it.Amount > 0 {
			out = append(out, it)
		}
	}
	return out
}

// applyReceive additively inserts each received item into working.
// Duplicates by classId are allowed; they are re-bucketed when the result
// is grouped.
func applyReceive(working []Item, receive []Item) []Item {
	for _, r := range receive {
		working = append(working, r.Copy())
	}
	return working
}
