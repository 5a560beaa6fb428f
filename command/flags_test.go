package command

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOutputBase(t *testing.T) {
	var tests = []struct {
		output Output
		id     string
		expect string
	}{
		{Output{Dir: "out", Prefix: "p_"}, "S1", filepath.Join("out", "p_S1")},
		{Output{Dir: "out", Prefix: "p_", Combined: true}, "S1", filepath.Join("out", "p_combined")},
		{Output{File: filepath.Join("out", "all.csv")}, "S1", filepath.Join("out", "all")},
		{Output{File: "all"}, "S2", "all"},
	}
	for _, tt := range tests {
		if actual := tt.output.Base(tt.id); actual != tt.expect {
			t.Errorf("%+v expect: %s actual: %s", tt.output, tt.expect, actual)
		}
	}
}

func TestOutputPrepare(t *testing.T) {
	dir, err := ioutil.TempDir("", "command")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if err := (&Output{}).Prepare("p_"); err == nil {
		t.Error("expect a missing output location to be an error")
	} else if _, ok := err.(UsageError); !ok {
		t.Errorf("expect UsageError, got %T", err)
	}
	if err := (&Output{Dir: dir, File: "x"}).Prepare("p_"); err == nil {
		t.Error("expect both output flags to be an error")
	}

	o := Output{File: filepath.Join(dir, "nested", "all.csv")}
	if err := o.Prepare("p_"); err != nil {
		t.Fatal(err)
	}
	if !o.Combined || o.Prefix != "p_" {
		t.Fatalf("unexpected output %+v", o)
	}
	if fi, err := os.Stat(filepath.Join(dir, "nested")); err != nil || !fi.IsDir() {
		t.Fatalf("expect the output folder to exist: %v", err)
	}
}

func TestInputFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "command")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	for _, name := range []string{"b_result.json", "a_result.json", "notes.txt"} {
		if err := ioutil.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	actual, err := InputFiles(dir, "*_result.json", []string{"extra_result.json"})
	if err != nil {
		t.Fatal(err)
	}
	expect := []string{
		filepath.Join(dir, "a_result.json"),
		filepath.Join(dir, "b_result.json"),
		"extra_result.json",
	}
	if !reflect.DeepEqual(expect, actual) {
		t.Fatalf("expect: %q actual: %q", expect, actual)
	}

	actual, err = InputFiles(dir, "*_result.json", []string{dir + "/./a_result.json", "x.json", "x.json"})
	if err != nil {
		t.Fatal(err)
	}
	expect = []string{
		filepath.Join(dir, "a_result.json"),
		filepath.Join(dir, "b_result.json"),
		"x.json",
	}
	if !reflect.DeepEqual(expect, actual) {
		t.Fatalf("expect: %q actual: %q", expect, actual)
	}

	if _, err := InputFiles("", "*.json", nil); err == nil {
		t.Error("expect no input to be an error")
	}
	if _, err := InputFiles(dir, "*.bam", nil); err == nil {
		t.Error("expect an empty input directory to be an error")
	}
}

func TestDatabaseResolve(t *testing.T) {
	var d Database
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	d.Register(fs)
	if err := fs.Parse([]string{"--uri", "mem://", "--db-name", "cgviz", "--db-collection", "sample"}); err != nil {
		t.Fatal(err)
	}

	c, err := d.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if c.Database.URI != "mem://" || c.Database.Name != "cgviz" || c.Database.Collection != "sample" {
		t.Fatalf("unexpected database %+v", c.Database)
	}

	if _, err := (&Database{Name: "cgviz"}).Resolve(); err == nil {
		t.Fatal("expect a missing collection to be an error")
	} else if _, ok := err.(UsageError); !ok {
		t.Fatalf("expect UsageError, got %T", err)
	}
}
