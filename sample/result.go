// Package sample reads JASEN per-sample result files.
package sample

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/allele"
)

// ResultSuffix is appended to the sample id to name its result file.
const ResultSuffix = "_result.json"

// ErrSchema is the cause of every error about a missing or malformed key.
var ErrSchema = errors.New("unexpected result schema")

func schemaErr(sample, format string, args ...interface{}) error {
	return errors.Wrapf(ErrSchema, "%s: "+format, append([]interface{}{sample}, args...)...)
}

// IDFromPath strips the directory and the result suffix from path.
func IDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ResultSuffix)
}

// PathFromID is the inverse of IDFromPath within dir.
func PathFromID(dir, id string) string {
	return filepath.Join(dir, id+ResultSuffix)
}

type Result struct {
	SampleName        string          `json:"sample_name"`
	SpeciesPrediction []SpeciesResult `json:"species_prediction"`
	ElementTypeResult []ElementResult `json:"element_type_result"`
	TypingResult      []TypingResult  `json:"typing_result"`
	Raw               json.RawMessage `json:"-"`
}

type SpeciesResult struct {
	Result []struct {
		ScientificName string `json:"scientific_name"`
	} `json:"result"`
}

type ElementResult struct {
	Type   string `json:"type"`
	Result struct {
		Genes []struct {
			GeneSymbol string `json:"gene_symbol"`
		} `json:"genes"`
	} `json:"result"`
}

type TypingResult struct {
	Type   string          `json:"type"`
	Result json.RawMessage `json:"result"`
}

// MLST is the typing result of a seven gene scheme.
type MLST struct {
	SequenceType json.RawMessage        `json:"sequence_type"`
	Alleles      map[string]allele.Call `json:"alleles"`
}

// CgMLST is the typing result of a core genome scheme. NMissing is the
// pipeline's own missing loci count and is never recomputed.
type CgMLST struct {
	NMissing int            `json:"n_missing"`
	Alleles  allele.Profile `json:"alleles"`
}

// Load reads and decodes a result file.
func Load(path string) (*Result, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "sample")
	}
	r, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "sample %s", path)
	}
	return r, nil
}

// Decode parses a result document.
func Decode(data []byte) (*Result, error) {
	r := &Result{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, errors.Wrap(err, "decode result")
	}
	r.Raw = json.RawMessage(data)
	if r.SampleName == "" {
		return nil, errors.Wrap(ErrSchema, "sample_name is missing")
	}
	return r, nil
}

// Species is the top species prediction.
func (r *Result) Species() (string, error) {
	if len(r.SpeciesPrediction) == 0 || len(r.SpeciesPrediction[0].Result) == 0 {
		return "", schemaErr(r.SampleName, "no species prediction")
	}
	return r.SpeciesPrediction[0].Result[0].ScientificName, nil
}

// HasGene reports whether the first element result of elementType lists gene.
func (r *Result) HasGene(elementType, gene string) (bool, error) {
	for _, e := range r.ElementTypeResult {
		if e.Type != elementType {
			continue
		}
		for _, g := range e.Result.Genes {
			if g.GeneSymbol == gene {
				return true, nil
			}
		}
		return false, nil
	}
	return false, schemaErr(r.SampleName, "no %s element type result", elementType)
}

// PVL reports whether lukS-PV was detected among the virulence genes.
func (r *Result) PVL() (bool, error) {
	return r.HasGene("VIRULENCE", "lukS-PV")
}

func (r *Result) typing(kind string, v interface{}) error {
	for _, t := range r.TypingResult {
		if t.Type != kind {
			continue
		}
		if len(t.Result) == 0 {
			return schemaErr(r.SampleName, "%s typing result is empty", kind)
		}
		if err := json.Unmarshal(t.Result, v); err != nil {
			return errors.Wrapf(err, "%s: %s typing result", r.SampleName, kind)
		}
		return nil
	}
	return schemaErr(r.SampleName, "no %s typing result", kind)
}

func (r *Result) MLST() (*MLST, error) {
	m := &MLST{}
	if err := r.typing("mlst", m); err != nil {
		return nil, err
	}
	if m.Alleles == nil {
		return nil, schemaErr(r.SampleName, "mlst alleles are missing")
	}
	return m, nil
}

func (r *Result) CgMLST() (*CgMLST, error) {
	c := &CgMLST{}
	if err := r.typing("cgmlst", c); err != nil {
		return nil, err
	}
	if c.Alleles.Len() == 0 {
		return nil, schemaErr(r.SampleName, "cgmlst alleles are missing")
	}
	return c, nil
}

// SequenceType renders an MLST sequence type the same way for every source:
// a missing or undetermined type is "None".
func SequenceType(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "None"
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
	} else {
		s = string(raw)
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "none") {
		return "None"
	}
	return s
}
