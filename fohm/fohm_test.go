package fohm

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

func TestConvertToHGVS(t *testing.T) {
	var tests = []struct {
		input  string
		expect string
	}{
		{"Ser450Leu", "p.Ser450Leu"},
		{"Gln432Stop", "p.Gln432*"},
		{"c15t", "c.15C>T"},
		{"a-7g", "c.-7A>G"},
		{"LRR", "p.LRR"},
		{"del", "del"},
		{"1234", "1234"},
		{"c", "c"},
		{"", ""},
	}
	for _, tt := range tests {
		if actual := ConvertToHGVS(tt.input); actual != tt.expect {
			t.Errorf("ConvertToHGVS(%q) expect: %q actual: %q", tt.input, tt.expect, actual)
		}
	}
}

func TestFlatten(t *testing.T) {
	top := []string{"drug", "", "variant (common_name)", "Final confidence grading", ""}
	sub := []string{"", "gene", "", "grade", "comment"}
	expect := []string{"drug", "drug gene", "variant (common_name)", "Final confidence grading grade", "Final confidence grading comment"}
	if actual := flatten(top, sub); !reflect.DeepEqual(expect, actual) {
		t.Fatalf("expect: %q actual: %q", expect, actual)
	}
}

func TestNormalizeColour(t *testing.T) {
	for _, input := range []string{"#FFFF00", "ffff00", "FFFFFF00"} {
		if actual := normalizeColour(input); actual != "FFFF00" {
			t.Errorf("normalizeColour(%q) expect: FFFF00 actual: %s", input, actual)
		}
	}
}

func writeCatalogue(t *testing.T, path string) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet(Sheet); err != nil {
		t.Fatal(err)
	}
	rows := [][]string{
		{"drug", "variant (common_name)", "Final confidence grading"},
		{"", "", "grade"},
		{"RIF", "rpoB_Ser450Leu", "1) Assoc w R"},
		{},
		{"INH", "fabG1_c15t", "1) Assoc w R"},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(Sheet, axis, &row); err != nil {
			t.Fatal(err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(Sheet, "B3", "B3", style); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	dir, err := ioutil.TempDir("", "fohm")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "fohm.xlsx")
	writeCatalogue(t, path)

	c, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	expectHeader := []string{"drug", "variant (common_name)", "Final confidence grading grade"}
	if !reflect.DeepEqual(expectHeader, c.Header) {
		t.Fatalf("expect: %q actual: %q", expectHeader, c.Header)
	}
	if len(c.Entries) != 2 {
		t.Fatalf("expect: 2 entries actual: %d", len(c.Entries))
	}

	first, second := c.Entries[0], c.Entries[1]
	if first.Gene != "rpoB" || first.HGVS != "p.Ser450Leu" || first.Fill != "FFFF00" {
		t.Errorf("unexpected entry %+v", first)
	}
	if second.Gene != "fabG1" || second.HGVS != "c.15C>T" || second.Fill != "" {
		t.Errorf("unexpected entry %+v", second)
	}

	var buf bytes.Buffer
	if err := c.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	expect := "drug,variant (common_name),Final confidence grading grade,gene,hgvs,fill\n" +
		"RIF,rpoB_Ser450Leu,1) Assoc w R,rpoB,p.Ser450Leu,FFFF00\n" +
		"INH,fabG1_c15t,1) Assoc w R,fabG1,c.15C>T,\n"
	if buf.String() != expect {
		t.Fatalf("expect:\n%s\nactual:\n%s", expect, buf.String())
	}
}

func TestReadNoVariantColumn(t *testing.T) {
	dir, err := ioutil.TempDir("", "fohm")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "bad.xlsx")

	f := excelize.NewFile()
	if _, err := f.NewSheet(Sheet); err != nil {
		t.Fatal(err)
	}
	f.SetSheetRow(Sheet, "A1", &[]string{"drug", "gene"})
	f.SetSheetRow(Sheet, "A2", &[]string{"", "name"})
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := Read(path); errors.Cause(err) != ErrNoVariantColumn {
		t.Fatalf("expect: ErrNoVariantColumn actual: %v", err)
	}
}
