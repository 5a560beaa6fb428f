package insert

import (
	"context"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/console"
	"github.com/jasentool/jasentool/store"
)

// Run inserts the document held by each file and returns the number
// inserted. A file that is not a JSON document fails the run before
// anything from it is written.
func Run(ctx context.Context, s store.Store, files []string) (int, error) {
	var n int
	for _, path := range files {
		doc, err := ioutil.ReadFile(path)
		if err != nil {
			return n, errors.Wrap(err, "insert")
		}
		if !json.Valid(doc) {
			return n, errors.Errorf("insert: %s is not valid JSON", path)
		}
		id, err := store.DocumentID(doc)
		if err != nil {
			return n, errors.Wrap(err, path)
		}
		if err := s.Insert(ctx, id, doc); err != nil {
			return n, err
		}
		n++
	}
	console.Printf("%d documents inserted into %s", n, s.Name())
	return n, nil
}
