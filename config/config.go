// Package config loads the optional jasentool.toml parameter file.
//
// Command-line flags supersede file values; a flag left at its zero value
// (or -1 for numbers) is treated as unset. Defaults apply last.
package config

import (
	"os"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	DefaultURI              = "mongodb://localhost:27017/"
	DefaultPrefix           = "jasentool_results_"
	DefaultSpecies          = "Staphylococcus aureus"
	DefaultNullFilter       = 1000
	DefaultMissingThreshold = 100
)

// SaureusMLSTGenes is the seven gene S. aureus MLST scheme.
var SaureusMLSTGenes = []string{"arcC", "aroE", "glpF", "gmk", "pta", "tpi", "yqiL"}

type Database struct {
	URI        string `toml:"uri"`
	Name       string `toml:"name"`
	Collection string `toml:"collection"`
}

type Validate struct {
	Prefix           string   `toml:"prefix"`
	CombinedOutput   bool     `toml:"combined_output"`
	GenerateMatrix   bool     `toml:"generate_matrix"`
	NumThreads       int      `toml:"num_threads"`
	Species          string   `toml:"species"`
	MLSTGenes        []string `toml:"mlst_genes"`
	NullFilter       int      `toml:"null_filter"`
	MissingThreshold int      `toml:"missing_threshold"`
}

type Config struct {
	Database Database `toml:"database"`
	Validate Validate `toml:"validate"`
}

// Load parses path. An empty path yields an empty Config.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path == "" {
		return c, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errNotExist(path)
		}
		return nil, errors.Wrap(err, "config")
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	return c, nil
}

// Override replaces the database settings with any non-empty argument.
func (d *Database) Override(uri, name, collection string) {
	if uri != "" {
		d.URI = uri
	}
	if name != "" {
		d.Name = name
	}
	if collection != "" {
		d.Collection = collection
	}
}

// Check fills the default uri and requires a database and collection.
func (d *Database) Check() error {
	if d.URI == "" {
		d.URI = DefaultURI
	}
	if d.Name == "" {
		return errRequired("a database name (--db-name)")
	}
	if d.Collection == "" {
		return errRequired("a database collection (--db-collection)")
	}
	return nil
}

// Defaults fills every unset validate parameter.
func (v *Validate) Defaults() {
	if v.Prefix == "" {
		v.Prefix = DefaultPrefix
	}
	if v.NumThreads < 1 {
		v.NumThreads = runtime.NumCPU()
	}
	if v.Species == "" {
		v.Species = DefaultSpecies
	}
	if len(v.MLSTGenes) == 0 {
		v.MLSTGenes = append([]string(nil), SaureusMLSTGenes...)
	}
	if v.NullFilter < 1 {
		v.NullFilter = DefaultNullFilter
	}
	if v.MissingThreshold < 1 {
		v.MissingThreshold = DefaultMissingThreshold
	}
}

type errNotExist string

func (e errNotExist) Error() string {
	return "jasentool: file does not exist '" + string(e) + "'"
}

type errRequired string

func (e errRequired) Error() string {
	return "jasentool: " + string(e) + " must be specified either in the config file or on the command line"
}
