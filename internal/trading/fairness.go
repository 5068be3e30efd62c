package trading

import "tradeoffer-engine/internal/tradeerr"

// IsFairExchange reports whether give is count-wise fair against receive:
// for every SetKey present in give, that SetKey must also appear in
// receive with sum(give[SetKey]) <= sum(receive[SetKey]). SetKeys present
// only in receive are always acceptable (the counterparty is overpaying).
func IsFairExchange(give, receive []Item) (bool, error) {
	if len(give) == 0 || len(receive) == 0 {
		return false, tradeerr.ErrInvalidInput
	}

	giveTotals := setTotals(give)
	receiveTotals := setTotals(receive)

	for key, giveAmount := range giveTotals {
		receiveAmount, ok := receiveTotals[key]
		if !ok || giveAmount > receiveAmount {
			return false, nil
		}
	}
	return true, nil
}

func setTotals(items []Item) map[SetKey]uint64 {
	totals := make(map[SetKey]uint64, len(items))
	for _, it := range items {
		totals[it.Key()] += uint64(it.Amount)
	}
	return totals
}
