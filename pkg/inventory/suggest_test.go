package inventory

import (
	"fmt"
	"testing"
)

func TestSuggest_OneCharacterOff(t *testing.T) {
	ds := matcherDataset(t)

	// One digit swapped: every matching tier misses, the suggester should
	// recover the real part.
	if !Find(ds, "ph6003cep", DefaultLimits()).Empty() {
		t.Fatal("precondition failed: tiers matched ph6003cep")
	}

	got := Suggest(ds, "ph6003cep", DefaultLimits())
	if len(got) == 0 {
		t.Fatal("no suggestions")
	}
	if got[0] != "PH-6002CEP" {
		t.Errorf("suggestions[0] = %q, want PH-6002CEP", got[0])
	}
}

func TestSuggest_EmptyNormalizedQuery(t *testing.T) {
	ds := matcherDataset(t)
	for _, query := range []string{"", "---", " . "} {
		if got := Suggest(ds, query, DefaultLimits()); len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty", query, got)
		}
	}
}

func TestSuggest_NothingAboveCutoff(t *testing.T) {
	ds := matcherDataset(t)
	if got := Suggest(ds, "qqqqwwww9999", DefaultLimits()); len(got) != 0 {
		t.Errorf("Suggest = %v, want empty (nothing similar)", got)
	}
}

func TestSuggest_LimitCapsResults(t *testing.T) {
	rows := testHeader
	for i := 0; i < 20; i++ {
		rows += fmt.Sprintf("PN-%02d;1;A1;1;yes;new;;да\n", i)
	}
	ds := testCSV(t, rows)

	limits := DefaultLimits()
	limits.SuggestLimit = 3
	got := Suggest(ds, "pn0", limits)
	if len(got) > 3 {
		t.Errorf("suggestions = %d, want <= 3", len(got))
	}
}

func TestSuggest_MultipleSpellingsOfSameKey(t *testing.T) {
	// Two original spellings normalize to the same key; both must come back.
	ds := testCSV(t, testHeader+
		"PH-6002CEP;3;A1;12;yes;new;;да\n"+
		"ph6002 cep;1;A2;3;yes;new;;да\n")

	got := Suggest(ds, "ph6003cep", DefaultLimits())
	if len(got) != 2 {
		t.Fatalf("suggestions = %v, want both spellings", got)
	}
	if got[0] != "PH-6002CEP" || got[1] != "ph6002 cep" {
		t.Errorf("suggestions = %v, want [PH-6002CEP, ph6002 cep]", got)
	}
}

func TestSuggest_BestFirst(t *testing.T) {
	// The closer candidate is listed second in the dataset to make sure the
	// ranking, not insertion order, decides.
	ds := testCSV(t, testHeader+
		"AAABB;1;A1;1;yes;new;;да\n"+ // distance 2 from aaaaa -> 0.6
		"AAAAB;1;A1;2;yes;new;;да\n") // distance 1 from aaaaa -> 0.8

	got := Suggest(ds, "aaaaa", DefaultLimits())
	if len(got) != 2 {
		t.Fatalf("suggestions = %v, want 2", got)
	}
	if got[0] != "AAAAB" || got[1] != "AAABB" {
		t.Errorf("suggestions = %v, want [AAAAB AAABB] (closest first)", got)
	}
}
