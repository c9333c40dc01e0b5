package names

import (
	"reflect"
	"testing"
)

func TestParseWellFormedObject(t *testing.T) {
	res, stage := Parse(`{"names":["A","B","C"]}`, 3)
	if stage != StageJSON || !res.Success {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
	if !reflect.DeepEqual(res.Names, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected names: %v", res.Names)
	}
	if res.Message != "Generated 3 character names successfully" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestParseBareArray(t *testing.T) {
	res, stage := Parse(`["Aria", "Bran"]`, 5)
	if stage != StageJSON || !reflect.DeepEqual(res.Names, []string{"Aria", "Bran"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
	if res.Message != "Generated 2 character names from array" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestParseTruncatesToCount(t *testing.T) {
	res, _ := Parse(`{"names":["A","B","C","D","E"]}`, 2)
	if !res.Success || !reflect.DeepEqual(res.Names, []string{"A", "B"}) {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestParseRepairsMissingBrace(t *testing.T) {
	res, stage := Parse(`{"names":["Kael","Lyra"]`, 5)
	if stage != StageJSON || !reflect.DeepEqual(res.Names, []string{"Kael", "Lyra"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
}

func TestParseTruncatedArrayRecovers(t *testing.T) {
	res, stage := Parse(`{"names":["A","B","C"`, 3)
	if !res.Success || stage == StageJSON {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
	if !reflect.DeepEqual(res.Names, []string{"A", "B", "C"}) {
		t.Fatalf("unexpected names: %v", res.Names)
	}
	if res.Message != "Extracted 3 names with fallback method" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestParseCodeFence(t *testing.T) {
	res, stage := Parse("```json\n{\"names\": [\"Vex\", \"Orin\"]}\n```", 2)
	if stage != StageJSON || !reflect.DeepEqual(res.Names, []string{"Vex", "Orin"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
}

func TestParseStructuralIgnoresProse(t *testing.T) {
	raw := `Sure! Here you go: {"names": ["Thorn", "Ash", "Ember"] } hope "this helps"`
	res, stage := Parse(raw, 10)
	if stage != StageStructural || !reflect.DeepEqual(res.Names, []string{"Thorn", "Ash", "Ember"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
}

func TestParseLastResort(t *testing.T) {
	raw := `I suggest "Aria Vance" or perhaps "names" or "Bo"`
	res, stage := Parse(raw, 10)
	if stage != StageQuoted || !res.Success {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
	if !reflect.DeepEqual(res.Names, []string{"Aria Vance", "Bo"}) {
		t.Fatalf("unexpected names: %v", res.Names)
	}
	if res.Message != "Names extracted using last-resort method" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestParseFiltersFieldNameToken(t *testing.T) {
	res, stage := Parse(`{"names":["Aria","names","Bo"`, 5)
	if stage != StageStructural || !reflect.DeepEqual(res.Names, []string{"Aria", "Bo"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
}

func TestParseFailure(t *testing.T) {
	for _, raw := range []string{"", "   ", "no quotes at all", `{"names":[]}`, `""`} {
		res, stage := Parse(raw, 3)
		if stage != StageNone || res.Success {
			t.Fatalf("%q: unexpected parse: stage=%v res=%+v", raw, stage, res)
		}
		if res.Names == nil || len(res.Names) != 0 {
			t.Fatalf("%q: expected empty non-nil names, got %#v", raw, res.Names)
		}
	}
}

func TestParseDropsNonStringEntries(t *testing.T) {
	res, stage := Parse(`{"names":[1, "Rook", null, "  ", "Wren"]}`, 5)
	if stage != StageJSON || !reflect.DeepEqual(res.Names, []string{"Rook", "Wren"}) {
		t.Fatalf("unexpected parse: stage=%v res=%+v", stage, res)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	inputs := []string{
		`{"names":["A","B","C"]}`,
		`{"names":["A","B"`,
		`text "x" more "y"`,
		`garbage`,
	}
	for _, raw := range inputs {
		first, s1 := Parse(raw, 3)
		second, s2 := Parse(raw, 3)
		if !reflect.DeepEqual(first, second) || s1 != s2 {
			t.Fatalf("%q: parse is not deterministic: %+v/%v vs %+v/%v", raw, first, s1, second, s2)
		}
	}
}

func TestParseNeverExceedsCount(t *testing.T) {
	raw := `{"names":["a","b","c","d","e","f","g","h"]}`
	for k := 1; k <= 8; k++ {
		if res, _ := Parse(raw, k); len(res.Names) > k {
			t.Fatalf("count %d: got %d names", k, len(res.Names))
		}
	}
}
