package find

import (
	"bufio"
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/command"
	"github.com/jasentool/jasentool/console"
	"github.com/jasentool/jasentool/store"
)

// Run writes the documents of every id in s as JSON arrays, one file per id
// unless out is combined.
func Run(ctx context.Context, s store.Store, ids []string, out command.Output) error {
	var paths []string
	found := make(map[string][]json.RawMessage)
	for _, id := range ids {
		docs, err := s.Find(ctx, store.Filter{ID: id})
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			console.Printf("The sample provided (%s) does not exist in %s.", id, s.Name())
		}

		path := out.File
		if path == "" {
			path = out.Base(id) + ".json"
		}
		if _, ok := found[path]; !ok {
			paths = append(paths, path)
		}
		found[path] = append(found[path], docs...)
	}

	for _, path := range paths {
		if err := writeJSON(path, found[path]); err != nil {
			return err
		}
		console.Printf("%d documents written to %s", len(found[path]), path)
	}
	return nil
}

func writeJSON(path string, docs []json.RawMessage) error {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	b, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "find")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "find")
	}
	bw := bufio.NewWriter(file)
	bw.Write(b)
	bw.WriteByte('\n')
	if err := bw.Flush(); err != nil {
		file.Close()
		return errors.Wrapf(err, "find: write %s", path)
	}
	return file.Close()
}
