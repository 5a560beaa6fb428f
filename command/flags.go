package command

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/config"
	"github.com/jasentool/jasentool/store"
)

// Database holds the flags shared by every command that opens a store.
type Database struct {
	URI        string
	Name       string
	Collection string
	ConfigFile string
}

func (d *Database) Register(fs *flag.FlagSet) {
	fs.StringVar(&d.URI, "uri", "", "Database uri, mongodb://, redis:// or mem:// (default: "+config.DefaultURI+")")
	fs.StringVar(&d.Name, "db-name", "", "Database name")
	fs.StringVar(&d.Collection, "db-collection", "", "Database collection")
	fs.StringVar(&d.ConfigFile, "config", "", "Path to a jasentool.toml parameter file")
}

// Resolve loads the config file and lets the flags supersede it.
func (d *Database) Resolve() (*config.Config, error) {
	c, err := config.Load(d.ConfigFile)
	if err != nil {
		return nil, err
	}
	c.Database.Override(d.URI, d.Name, d.Collection)
	if err := c.Database.Check(); err != nil {
		return nil, UsageError(err.Error())
	}
	return c, nil
}

// Open connects to the store named by c.
func Open(ctx context.Context, c *config.Config) (store.Store, error) {
	return store.Open(ctx, c.Database.URI, c.Database.Name, c.Database.Collection)
}

// Output holds the flags that place result files.
type Output struct {
	Dir      string
	File     string
	Prefix   string
	Combined bool
}

func (o *Output) Register(fs *flag.FlagSet) {
	fs.StringVar(&o.Dir, "output-dir", "", "Directory to write output files to")
	fs.StringVar(&o.File, "output-file", "", "Path to a single output file, implies --combined-output")
	fs.StringVar(&o.Prefix, "prefix", "", "Prefix for all output files (default: "+config.DefaultPrefix+")")
	fs.BoolVar(&o.Combined, "combined-output", false, "Combine all of the outputs into one output")
}

// Prepare requires exactly one of --output-dir and --output-file and
// creates the output directory.
func (o *Output) Prepare(prefix string) error {
	switch {
	case o.Dir == "" && o.File == "":
		return UsageError("jasentool: an output location (--output-dir or --output-file) is required")
	case o.Dir != "" && o.File != "":
		return UsageError("jasentool: --output-dir and --output-file are mutually exclusive")
	}
	if o.Prefix == "" {
		o.Prefix = prefix
	}
	if o.File != "" {
		o.Combined = true
	}
	if err := os.MkdirAll(o.Folder(), 0755); err != nil {
		return errors.Wrap(err, "output")
	}
	return nil
}

// Folder is the directory that receives run-wide outputs.
func (o *Output) Folder() string {
	if o.File != "" {
		return filepath.Dir(o.File)
	}
	return o.Dir
}

// Base returns the output path for id without an extension. Combined runs
// share one base.
func (o *Output) Base(id string) string {
	if o.File != "" {
		return strings.TrimSuffix(o.File, filepath.Ext(o.File))
	}
	if o.Combined {
		id = "combined"
	}
	return filepath.Join(o.Dir, o.Prefix+id)
}

// InputFiles lists the files in dir matching pattern, sorted, followed by
// the files named on the command line.
func InputFiles(dir, pattern string, args []string) ([]string, error) {
	var files []string
	if dir != "" {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(err, "input")
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("input: no %s files in %s", pattern, dir)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	files = append(files, args...)
	if len(files) == 0 {
		return nil, UsageError("jasentool: input files or --input-dir are required")
	}

	seen := make(map[string]bool, len(files))
	unique := files[:0]
	for _, f := range files {
		key := filepath.Clean(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, f)
	}
	return unique, nil
}
