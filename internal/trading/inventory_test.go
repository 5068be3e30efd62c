package trading

import "testing"

func TestGroupInventoryState_EmptyIsInvalidInput(t *testing.T) {
	if _, err := GroupInventoryState(nil); err == nil {
		t.Fatal("expected InvalidInput for empty input")
	}
}

func TestGroupInventoryState_SumsByClassWithinSetKey(t *testing.T) {
	items := []Item{card(classA, 2), card(classA, 3), card(classB, 1)}
	state, err := GroupInventoryState(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := SetKey{RealAppID: 100, Type: ItemTypeTradingCard, Rarity: RarityCommon}
	if got := state[key][classA]; got != 5 {
		t.Errorf("classA amount = %d, want 5", got)
	}
	if got := state[key][classB]; got != 1 {
		t.Errorf("classB amount = %d, want 1", got)
	}
}

func TestGroupInventorySets_SortsAscending(t *testing.T) {
	items := []Item{card(classA, 5), card(classB, 1), card(classC, 3)}
	sets, err := GroupInventorySets(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := SetKey{RealAppID: 100, Type: ItemTypeTradingCard, Rarity: RarityCommon}
	seq := sets[key]
	want := []uint32{1, 3, 5}
	if len(seq) != len(want) {
		t.Fatalf("len(seq) = %d, want %d", len(seq), len(want))
	}
	for i := range want {
		if seq[i] != want[i] {
			t.Errorf("seq[%d] = %d, want %d", i, seq[i], want[i])
		}
	}
}

func TestGroupDividedInventoryState_ExcludesNonTradable(t *testing.T) {
	tradableItem := card(classA, 2)
	nonTradable := card(classB, 3)
	nonTradable.Tradable = false

	full, tradableOnly, err := GroupDividedInventoryState([]Item{tradableItem, nonTradable})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := SetKey{RealAppID: 100, Type: ItemTypeTradingCard, Rarity: RarityCommon}
	if len(full[key]) != 2 {
		t.Errorf("full state should contain both classes, got %d", len(full[key]))
	}
	if len(tradableOnly[key]) != 1 {
		t.Errorf("tradable-only state should exclude the non-tradable class, got %d", len(tradableOnly[key]))
	}
}

func TestSelectTradable_EmptyInputIsInvalidInput(t *testing.T) {
	if _, err := SelectTradable(nil); err == nil {
		t.Fatal("expected InvalidInput for empty input")
	}
}

func TestExtractTradableMatching_TakesMinOfAvailableAndDemand(t *testing.T) {
	inventory := []Item{card(classA, 5), card(classB, 2)}
	demand := map[uint64]uint32{classA: 3, classB: 10}

	extracted, err := ExtractTradableMatching(inventory, demand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(extracted) != 2 {
		t.Fatalf("expected 2 extracted items, got %d", len(extracted))
	}

	var gotA, gotB uint32
	for _, it := range extracted {
		switch it.ClassID {
		case classA:
			gotA = it.Amount
		case classB:
			gotB = it.Amount
		}
	}
	if gotA != 3 {
		t.Errorf("classA extracted = %d, want 3 (min(5,3))", gotA)
	}
	if gotB != 2 {
		t.Errorf("classB extracted = %d, want 2 (min(2,10))", gotB)
	}

	if _, stillWanted := demand[classA]; stillWanted {
		t.Error("classA demand should be exhausted and removed")
	}
	if got := demand[classB]; got != 8 {
		t.Errorf("classB remaining demand = %d, want 8", got)
	}
}

func TestExtractTradableMatching_SkipsNonTradableAndUnrelatedClasses(t *testing.T) {
	nonTradable := card(classA, 5)
	nonTradable.Tradable = false
	unrelated := card(classC, 5)
	inventory := []Item{nonTradable, unrelated}
	demand := map[uint64]uint32{classA: 1}

	extracted, err := ExtractTradableMatching(inventory, demand)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(extracted) != 0 {
		t.Fatalf("expected no extraction, got %d items", len(extracted))
	}
}

func TestExtractTradableMatching_EmptyInputIsInvalidInput(t *testing.T) {
	if _, err := ExtractTradableMatching(nil, map[uint64]uint32{classA: 1}); err == nil {
		t.Fatal("expected InvalidInput for empty inventory")
	}
	if _, err := ExtractTradableMatching([]Item{card(classA, 1)}, nil); err == nil {
		t.Fatal("expected InvalidInput for empty demand")
	}
}
