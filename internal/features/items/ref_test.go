package items

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		raw  string
		want Ref
	}{
		{"Reimu(UNCOMMON)", Ref{Base: "Reimu", Rarity: RarityUncommon}},
		{"Cirno(Common)", Ref{Base: "Cirno", Rarity: RarityCommon}},
		{"Flandre(LEGENDARY)[SHINY]", Ref{Base: "Flandre", Rarity: RarityLegendary, Tag: TagShiny}},
		{"Junko(EXCLUSIVE)[alG]", Ref{Base: "Junko", Rarity: RarityExclusive, Tag: TagUltra}},
		{"Dream Reimu(DIVINE)", Ref{Base: "Dream Reimu", Rarity: RarityDivine}},
	}
	for _, tc := range tests {
		got, err := ParseRef(tc.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got=%+v want=%+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseRefRejectsGarbage(t *testing.T) {
	invalid := []string{
		"",
		"Reimu",
		"Reimu()",
		"Reimu(NOPE)",
		"Reimu(RARE)[GOLD]",
		"(RARE)",
	}
	for _, raw := range invalid {
		if _, err := ParseRef(raw); err == nil {
			t.Fatalf("%q: expected parse error", raw)
		}
	}
}

func TestRefRoundTrip(t *testing.T) {
	refs := []Ref{
		{Base: "Sakuya", Rarity: RarityRare},
		{Base: "Koishi", Rarity: RarityLegendary, Tag: TagShiny},
		{Base: "Okina", Rarity: RarityMythic, Tag: TagUltra},
	}
	for _, ref := range refs {
		back, err := ParseRef(ref.String())
		if err != nil {
			t.Fatalf("%v: round trip failed: %v", ref, err)
		}
		if back != ref {
			t.Fatalf("round trip: got=%+v want=%+v", back, ref)
		}
	}
}

func TestRarityOrdering(t *testing.T) {
	if !Rarer(RarityTranscendent, RarityCommon) {
		t.Fatalf("TRANSCENDENT must be rarer than Common")
	}
	if Rarer(RarityCommon, RarityUncommon) {
		t.Fatalf("Common must not be rarer than UNCOMMON")
	}
	if Rarer(RarityEpic, RarityEpic) {
		t.Fatalf("a rarity is not rarer than itself")
	}
}

func TestGatedRarities(t *testing.T) {
	for _, r := range GatedRarities {
		if !IsGated(r) {
			t.Fatalf("%s must be gated", r)
		}
	}
	for _, r := range []Rarity{RarityCommon, RarityExclusive, RarityOmega} {
		if IsGated(r) {
			t.Fatalf("%s must not be gated", r)
		}
	}
}

func TestPoolsAreConsistent(t *testing.T) {
	// У каждой редкости таблицы есть фумо, и наоборот.
	for r := range Table {
		if len(FumoPool[r]) == 0 {
			t.Fatalf("rarity %s has no fumos", r)
		}
	}
	for r := range FumoPool {
		if _, ok := Table[r]; !ok {
			t.Fatalf("pool rarity %s missing from table", r)
		}
	}
	if FumoCount() == 0 {
		t.Fatalf("fumo pool is empty")
	}
}
