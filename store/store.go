// Package store is the document database holding old pipeline sample
// records. Documents travel as JSON regardless of the backend.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/allele"
)

var (
	ErrNotFound          = errors.New("store: no matching document")
	ErrUnsupportedScheme = errors.New("store: unsupported uri scheme")
	ErrNoID              = errors.New("store: document has no id or sample_name")
)

// QCPassed is the metadata.QC value of samples that passed quality control.
const QCPassed = "OK"

// Filter selects documents. The zero Filter matches everything.
type Filter struct {
	ID string
	// QC, if set, must equal metadata.QC.
	QC string
}

// Store is a collection of sample documents.
type Store interface {
	Find(ctx context.Context, f Filter) ([]json.RawMessage, error)
	Insert(ctx context.Context, id string, doc json.RawMessage) error
	Close() error
	// Name describes the database and collection for log messages.
	Name() string
}

// Open connects to the backend selected by the scheme of uri.
func Open(ctx context.Context, uri, database, collection string) (Store, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.Wrapf(err, "store: parse %q", uri)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, uri, database, collection)
	case "redis", "rediss":
		return OpenRedis(ctx, uri, database, collection)
	case "mem":
		return NewMemory(database, collection), nil
	default:
		return nil, errors.Wrap(ErrUnsupportedScheme, u.Scheme)
	}
}

// Exists reports whether any document carries id.
func Exists(ctx context.Context, s Store, id string) (bool, error) {
	docs, err := s.Find(ctx, Filter{ID: id})
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// LoadRecord returns the first QC-passed record of id, or ErrNotFound.
func LoadRecord(ctx context.Context, s Store, id string) (*Record, error) {
	docs, err := s.Find(ctx, Filter{ID: id, QC: QCPassed})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s with QC %s", id, QCPassed)
	}
	r := &Record{}
	if err := json.Unmarshal(docs[0], r); err != nil {
		return nil, errors.Wrapf(err, "store: decode %s", id)
	}
	return r, nil
}

// DocumentID returns the id of a document, falling back to sample_name.
func DocumentID(doc json.RawMessage) (string, error) {
	var head struct {
		ID         string `json:"id"`
		SampleName string `json:"sample_name"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return "", errors.Wrap(err, "store: decode document")
	}
	if head.ID != "" {
		return head.ID, nil
	}
	if head.SampleName != "" {
		return head.SampleName, nil
	}
	return "", ErrNoID
}

// Record is an old pipeline sample document:
// {id, metadata.QC, aribavir.lukS_PV.present, mlst.{sequence_type, alleles}, alleles}.
type Record struct {
	ID       string `json:"id"`
	Metadata struct {
		QC string `json:"QC"`
	} `json:"metadata"`
	Aribavir struct {
		LukSPV *struct {
			Present Presence `json:"present"`
		} `json:"lukS_PV"`
	} `json:"aribavir"`
	MLST *struct {
		SequenceType json.RawMessage        `json:"sequence_type"`
		Alleles      map[string]allele.Call `json:"alleles"`
	} `json:"mlst"`
	Alleles allele.Profile `json:"alleles"`
}

// Presence decodes a presence flag stored as a bool, a number or a string.
type Presence bool

func (p *Presence) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	switch strings.ToLower(string(b)) {
	case "true", "yes":
		*p = true
		return nil
	case "false", "no", "", "null":
		*p = false
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsNaN(f) {
		return errors.Errorf("store: presence flag %s", b)
	}
	*p = f != 0
	return nil
}

// matches applies f to a JSON document on the client side.
func matches(doc json.RawMessage, f Filter) (bool, error) {
	if f.ID == "" && f.QC == "" {
		return true, nil
	}
	var head struct {
		ID       string `json:"id"`
		Metadata struct {
			QC string `json:"QC"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(doc, &head); err != nil {
		return false, errors.Wrap(err, "store: decode document")
	}
	if f.ID != "" && head.ID != f.ID {
		return false, nil
	}
	if f.QC != "" && head.Metadata.QC != f.QC {
		return false, nil
	}
	return true, nil
}
