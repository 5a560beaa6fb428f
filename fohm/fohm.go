// Package fohm reads the FoHM tuberculosis mutation catalogue and rewrites
// its mutations in HGVS notation.
package fohm

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	Sheet    = "Mutation_catalogue"
	FileName = "fohm.csv"
)

var ErrNoVariantColumn = errors.New("fohm: no variant column")

// Entry is one catalogue row.
type Entry struct {
	Cells   []string
	Variant string
	Gene    string
	HGVS    string
	// Fill is the hex RGB fill colour of the variant cell, empty when the
	// cell is not filled.
	Fill string
}

type Catalogue struct {
	Header  []string
	Entries []Entry
	variant int
}

// Read opens an xlsx catalogue. The sheet carries two header rows which are
// flattened into "top sub" column names.
func Read(path string) (*Catalogue, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fohm: open %s", path)
	}
	defer f.Close()

	rows, err := f.GetRows(Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "fohm: %s", path)
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("fohm: %s: expected two header rows, found %d", path, len(rows))
	}

	c := &Catalogue{Header: flatten(rows[0], rows[1]), variant: -1}
	for i, name := range c.Header {
		if strings.HasPrefix(strings.ToLower(name), "variant") {
			c.variant = i
			break
		}
	}
	if c.variant < 0 {
		return nil, errors.Wrap(ErrNoVariantColumn, path)
	}

	for r, row := range rows[2:] {
		if blank(row) {
			continue
		}
		cells := make([]string, len(c.Header))
		copy(cells, row)
		e := Entry{Cells: cells, Variant: cells[c.variant]}
		e.Gene, e.HGVS = splitVariant(e.Variant)

		axis, err := excelize.CoordinatesToCellName(c.variant+1, r+3)
		if err != nil {
			return nil, errors.Wrap(err, "fohm")
		}
		if e.Fill, err = fill(f, axis); err != nil {
			return nil, errors.Wrapf(err, "fohm: %s", axis)
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// flatten joins two header rows. Merged cells in the top row are only set
// on their first column, so the top name carries forward over blanks.
func flatten(top, sub []string) []string {
	n := len(top)
	if len(sub) > n {
		n = len(sub)
	}
	header := make([]string, n)
	var last string
	for i := 0; i < n; i++ {
		var t, s string
		if i < len(top) {
			t = strings.TrimSpace(top[i])
		}
		if i < len(sub) {
			s = strings.TrimSpace(sub[i])
		}
		if t == "" {
			t = last
		}
		last = t
		switch {
		case s == "":
			header[i] = t
		case t == "":
			header[i] = s
		default:
			header[i] = t + " " + s
		}
	}
	return header
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// splitVariant separates a gene_mutation variant and converts the mutation.
func splitVariant(variant string) (gene, hgvs string) {
	variant = strings.TrimSpace(variant)
	if i := strings.LastIndexByte(variant, '_'); i >= 0 {
		gene, variant = variant[:i], variant[i+1:]
	}
	return gene, ConvertToHGVS(variant)
}

func fill(f *excelize.File, axis string) (string, error) {
	idx, err := f.GetCellStyle(Sheet, axis)
	if err != nil || idx == 0 {
		return "", err
	}
	style, err := f.GetStyle(idx)
	if err != nil {
		return "", err
	}
	if style.Fill.Pattern == 0 || len(style.Fill.Color) == 0 {
		return "", nil
	}
	return normalizeColour(style.Fill.Color[0]), nil
}

// normalizeColour turns #RRGGBB, RRGGBB and AARRGGBB into RRGGBB.
func normalizeColour(s string) string {
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	if len(s) == 8 {
		s = s[2:]
	}
	return s
}

func isLetter(b byte) bool { return b < unicode.MaxASCII && unicode.IsLetter(rune(b)) }

// ConvertToHGVS rewrites a catalogue mutation. Protein changes such as
// Ser450Leu become p.Ser450Leu (Stop is written *), nucleotide changes such
// as c15t become c.15C>T. Anything else is returned unchanged.
func ConvertToHGVS(mutation string) string {
	m := mutation
	switch {
	case len(m) >= 3 && isLetter(m[0]) && isLetter(m[1]) && isLetter(m[2]) && unicode.IsUpper(rune(m[0])):
		return "p." + strings.Replace(m, "Stop", "*", -1)
	case len(m) >= 3 && isLetter(m[0]) && unicode.IsLower(rune(m[0])) && !isLetter(m[1]):
		ref := strings.ToUpper(m[:1])
		alt := strings.ToUpper(m[len(m)-1:])
		return "c." + m[1:len(m)-1] + ref + ">" + alt
	}
	return mutation
}

// WriteCSV writes the catalogue with gene, hgvs and fill columns appended.
func (c *Catalogue) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append(append([]string(nil), c.Header...), "gene", "hgvs", "fill")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "fohm")
	}
	for _, e := range c.Entries {
		record := append(append([]string(nil), e.Cells...), e.Gene, e.HGVS, e.Fill)
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "fohm")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "fohm")
}

// WriteFile writes the catalogue as CSV to path.
func (c *Catalogue) WriteFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "fohm")
	}
	if err := c.WriteCSV(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
