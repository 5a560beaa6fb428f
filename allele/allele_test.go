package allele

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/console"
)

func init() {
	console.SetOutput(ioutil.Discard)
}

func TestParse(t *testing.T) {
	var tests = []struct {
		input  string
		expect Call
	}{
		{"12", Call{Raw: "12", ID: 12, Kind: Numeric}},
		{" 7 ", Call{Raw: " 7 ", ID: 7, Kind: Numeric}},
		{"12.0", Call{Raw: "12.0", ID: 12, Kind: Numeric}},
		{"-", Call{Raw: "-", Kind: Null}},
		{"", Call{Raw: "", Kind: Null}},
		{"LNF", Call{Raw: "LNF", Kind: Null}},
		{"niph", Call{Raw: "niph", Kind: Null}},
		{"INF-3321", Call{Raw: "INF-3321", Kind: Null}},
		{"paralog-ambiguous", Call{Raw: "paralog-ambiguous", Kind: Null}},
		{"12.5", Call{Raw: "12.5", Kind: Unparsable}},
		{"abc", Call{Raw: "abc", Kind: Unparsable}},
		{"1e19", Call{Raw: "1e19", Kind: Unparsable}},
		{"-1e19", Call{Raw: "-1e19", Kind: Unparsable}},
		{"1e3", Call{Raw: "1e3", ID: 1000, Kind: Numeric}},
	}

	for _, tt := range tests {
		actual := Parse(tt.input)
		if !reflect.DeepEqual(tt.expect, actual) {
			t.Errorf("Parse(%q) expect: %#v actual: %#v", tt.input, tt.expect, actual)
		}
	}
}

func TestEveryNullCodeIsNull(t *testing.T) {
	for code := range NullCodes {
		if c := Parse(code); !c.IsNull() {
			t.Errorf("expect %q to be a null call, got %s", code, c.Kind)
		}
	}
}

func TestCallUnmarshalJSON(t *testing.T) {
	var calls []Call
	if err := json.Unmarshal([]byte(`[1, "2", null, "LNF", 3.0, "x"]`), &calls); err != nil {
		t.Fatal(err)
	}
	kinds := []Kind{Numeric, Numeric, Null, Null, Numeric, Unparsable}
	if len(calls) != len(kinds) {
		t.Fatalf("expect: %d calls actual: %d", len(kinds), len(calls))
	}
	for i := range kinds {
		if calls[i].Kind != kinds[i] {
			t.Errorf("call %d expect: %s actual: %s", i, kinds[i], calls[i].Kind)
		}
	}
	if calls[4].ID != 3 {
		t.Errorf("expect: 3 actual: %d", calls[4].ID)
	}

	var c Call
	if err := json.Unmarshal([]byte(`{"a": 1}`), &c); err == nil {
		t.Fatal("expect an error decoding an object as a call")
	}
}

func TestProfileKeepsLocusOrder(t *testing.T) {
	var p Profile
	data := `{"SACOL0001": 1, "SACOL0002": "LNF", "SACOL0003": 12, "SACOL0004": "5"}`
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatal(err)
	}
	expect := []string{"SACOL0001", "SACOL0002", "SACOL0003", "SACOL0004"}
	if !reflect.DeepEqual(expect, p.Loci) {
		t.Fatalf("expect: %v actual: %v", expect, p.Loci)
	}
	if !p.Calls[1].IsNull() || p.Calls[2].ID != 12 || p.Calls[3].ID != 5 {
		t.Fatalf("unexpected calls %#v", p.Calls)
	}
}

func TestProfileFromArray(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(`[1, "-", 3]`), &p); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 || len(p.Loci) != 0 {
		t.Fatalf("unexpected profile %#v", p)
	}
	var loci []string
	p.Each(func(locus string, call Call) { loci = append(loci, locus) })
	expect := []string{"locus_1", "locus_2", "locus_3"}
	if !reflect.DeepEqual(expect, loci) {
		t.Fatalf("expect: %v actual: %v", expect, loci)
	}
}

func TestCompareScenario(t *testing.T) {
	c, err := Compare(Parses("1", "2", "-"), Parses("1", "3", "5"))
	if err != nil {
		t.Fatal(err)
	}
	expect := Comparison{Matches: 1, Mismatches: 1, Excluded: 1}
	if c != expect {
		t.Fatalf("expect: %+v actual: %+v", expect, c)
	}
}

func TestCompareOutOfRangeValues(t *testing.T) {
	c, err := Compare(Parses("1e19", "4"), Parses("5e19", "4"))
	if err != nil {
		t.Fatal(err)
	}
	expect := Comparison{Matches: 1, Unparsable: 1}
	if c != expect {
		t.Fatalf("expect: %+v actual: %+v", expect, c)
	}
}

func TestCompareWithoutNulls(t *testing.T) {
	a := Parses("1", "2", "3", "4", "5")
	b := Parses("1", "9", "3", "8", "5")
	n, err := Mismatches(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expect: 2 actual: %d", n)
	}
}

func TestCompareExcludesEveryNullCode(t *testing.T) {
	for code := range NullCodes {
		for _, pair := range [][2][]Call{
			{Parses(code, "1"), Parses("4", "1")},
			{Parses("4", "1"), Parses(code, "1")},
		} {
			c, err := Compare(pair[0], pair[1])
			if err != nil {
				t.Fatal(err)
			}
			if c.Matches != 1 || c.Mismatches != 0 || c.Excluded != 1 {
				t.Errorf("null code %q: unexpected %+v", code, c)
			}
		}
	}
}

func TestCompareSymmetricAndReflexive(t *testing.T) {
	a := Parses("1", "LNF", "3", "4", "x", "6")
	b := Parses("1", "2", "ASM", "5", "5", "7")

	ab, err := Compare(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Compare(b, a)
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba {
		t.Fatalf("expect symmetric comparison: %+v != %+v", ab, ba)
	}
	if ab.Unparsable != 1 {
		t.Fatalf("expect 1 unparsable position, got %+v", ab)
	}

	clean := Parses("1", "LNF", "3", "4", "-", "6")
	if n, _ := Mismatches(clean, clean); n != 0 {
		t.Fatalf("expect: 0 actual: %d", n)
	}
}

func TestCompareLengthMismatch(t *testing.T) {
	_, err := Compare(Parses("1", "2"), Parses("1"))
	if errors.Cause(err) != ErrLengthMismatch {
		t.Fatalf("expect: ErrLengthMismatch actual: %v", err)
	}
}

func TestCompareGenes(t *testing.T) {
	old := map[string]Call{
		"arcC": Parse("1"), "aroE": Parse("4"), "glpF": Parse("1"), "gmk": Parse("4"),
		"pta": Parse("12"), "tpi": Parse("1"), "yqiL": Parse("10"),
	}
	cur := map[string]Call{
		"arcC": Parse("1"), "aroE": Parse("4"), "glpF": Parse("1"), "gmk": Parse("4"),
		"pta": Parse("12"), "tpi": Parse("1"), "yqiL": Parse("3"),
	}
	c := CompareGenes(old, cur)
	if c.Matches != 6 || c.Mismatches != 1 {
		t.Fatalf("unexpected %+v", c)
	}
	if math.Abs(c.MatchPercent()-85.714) > 0.01 {
		t.Fatalf("expect: ~85.71 actual: %f", c.MatchPercent())
	}

	delete(cur, "yqiL")
	c = CompareGenes(old, cur)
	if c.Excluded != 1 || c.MatchPercent() != 100 {
		t.Fatalf("expect a missing gene to be excluded, got %+v", c)
	}
}

func TestMatchPercentNothingCompared(t *testing.T) {
	if p := (Comparison{Excluded: 3}).MatchPercent(); p != 0 {
		t.Fatalf("expect: 0 actual: %f", p)
	}
}
