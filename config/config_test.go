package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

const data = `
[database]
uri = "mongodb://db.example.org:27017/"
name = "cgviz"
collection = "sample"

[validate]
prefix = "run1_"
generate_matrix = true
num_threads = 4
mlst_genes = ["a", "b"]
missing_threshold = 50
`

func tmpConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "jasentool.toml")
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseExampleConfig(t *testing.T) {
	path := tmpConfig(t, data)
	defer os.RemoveAll(filepath.Dir(path))

	actual, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	expect := &Config{
		Database: Database{
			URI:        "mongodb://db.example.org:27017/",
			Name:       "cgviz",
			Collection: "sample",
		},
		Validate: Validate{
			Prefix:           "run1_",
			GenerateMatrix:   true,
			NumThreads:       4,
			MLSTGenes:        []string{"a", "b"},
			MissingThreshold: 50,
		},
	}
	if !reflect.DeepEqual(expect, actual) {
		t.Fatalf("expect:\n%#v\nactual:\n%#v\n", expect, actual)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&Config{}, c) {
		t.Fatalf("expect an empty config, got %#v", c)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/does/not/exist.toml"); err == nil {
		t.Fatal("expect an error for a missing file")
	} else if _, ok := err.(errNotExist); !ok {
		t.Fatalf("expect errNotExist, got %T", err)
	}

	path := tmpConfig(t, "[validate]\nunknown_key = 1\n")
	defer os.RemoveAll(filepath.Dir(path))
	if _, err := Load(path); err == nil {
		t.Fatal("expect an error for an unknown key")
	}
}

func TestDatabaseOverride(t *testing.T) {
	var tests = []struct {
		uri, name, collection string
		expect                Database
	}{
		{"", "", "", Database{URI: "mongodb://file/", Name: "file", Collection: "file"}},
		{"redis://flag/", "", "flag", Database{URI: "redis://flag/", Name: "file", Collection: "flag"}},
	}
	for _, tt := range tests {
		d := Database{URI: "mongodb://file/", Name: "file", Collection: "file"}
		d.Override(tt.uri, tt.name, tt.collection)
		if d != tt.expect {
			t.Errorf("expect: %+v actual: %+v", tt.expect, d)
		}
	}
}

func TestDatabaseCheck(t *testing.T) {
	d := Database{Name: "cgviz", Collection: "sample"}
	if err := d.Check(); err != nil {
		t.Fatal(err)
	}
	if d.URI != DefaultURI {
		t.Fatalf("expect: %s actual: %s", DefaultURI, d.URI)
	}

	if err := (&Database{Name: "cgviz"}).Check(); err == nil {
		t.Fatal("expect a missing collection to be an error")
	} else if _, ok := err.(errRequired); !ok {
		t.Fatalf("expect errRequired, got %T", err)
	}
}

func TestValidateDefaults(t *testing.T) {
	var v Validate
	v.Defaults()
	expect := Validate{
		Prefix:           DefaultPrefix,
		NumThreads:       runtime.NumCPU(),
		Species:          DefaultSpecies,
		MLSTGenes:        SaureusMLSTGenes,
		NullFilter:       DefaultNullFilter,
		MissingThreshold: DefaultMissingThreshold,
	}
	if !reflect.DeepEqual(expect, v) {
		t.Fatalf("expect:\n%#v\nactual:\n%#v\n", expect, v)
	}

	v = Validate{NullFilter: 10, MissingThreshold: 5, Species: "Escherichia coli"}
	v.Defaults()
	if v.NullFilter != 10 || v.MissingThreshold != 5 || v.Species != "Escherichia coli" {
		t.Fatalf("expect set values to survive, got %#v", v)
	}
}
