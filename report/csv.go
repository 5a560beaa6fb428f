// Package report writes validation tables, matrices and charts.
package report

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/allele"
	"github.com/jasentool/jasentool/matrix"
	"github.com/jasentool/jasentool/sample"
)

const validationHeader = "sample_name,pvl,mlst_seqtype,mlst_allele_matches(%),cgmlst_allele_matches(%)\n"

// Row is the comparison of a sample whose MLST sequence types agree.
type Row struct {
	Sample       string
	PVL          bool
	SequenceType bool
	MLST         float64
	CgMLST       float64
}

// FailedRow is a sample whose MLST sequence types differ. Old and New hold
// the raw alleles for manual review.
type FailedRow struct {
	Sample string
	OldST  string
	NewST  string
	Old    map[string]allele.Call
	New    map[string]allele.Call
}

type csvFile struct {
	file *os.File
	bw   *bufio.Writer
}

func createCSV(path, header string) (*csvFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "report")
	}
	bw := bufio.NewWriter(file)
	bw.WriteString(header)
	return &csvFile{file: file, bw: bw}, nil
}

func (c *csvFile) Close() error {
	if err := c.bw.Flush(); err != nil {
		c.file.Close()
		return errors.Wrapf(err, "report: flush %s", c.file.Name())
	}
	return c.file.Close()
}

// Validation writes <base>.csv and <base>_failed.csv.
type Validation struct {
	passed *csvFile
	failed *csvFile
	genes  []string
	buf    []byte
	// Passed and Failed count the rows written.
	Passed int
	Failed int
}

// NewValidation creates both files. genes fixes the allele columns of the
// failed table.
func NewValidation(base string, genes []string) (*Validation, error) {
	passed, err := createCSV(base+".csv", validationHeader)
	if err != nil {
		return nil, err
	}
	failed, err := createCSV(base+"_failed.csv", FailedHeader(genes))
	if err != nil {
		passed.Close()
		return nil, err
	}
	return &Validation{passed: passed, failed: failed, genes: genes}, nil
}

// FailedHeader names the columns of the failed table.
func FailedHeader(genes []string) string {
	buf := []byte("sample_name,old_mlst_seqtype,new_mlst_seqtype")
	for _, gene := range genes {
		buf = append(buf, ",old_"...)
		buf = append(buf, gene...)
		buf = append(buf, ",new_"...)
		buf = append(buf, gene...)
	}
	return string(append(buf, '\n'))
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, '1')
	}
	return append(buf, '0')
}

func (v *Validation) WritePassed(r Row) error {
	v.buf = v.buf[:0]
	v.buf = append(v.buf, r.Sample...)
	v.buf = append(v.buf, ',')
	v.buf = appendBool(v.buf, r.PVL)
	v.buf = append(v.buf, ',')
	v.buf = appendBool(v.buf, r.SequenceType)
	v.buf = append(v.buf, ',')
	v.buf = strconv.AppendFloat(v.buf, r.MLST, 'f', 2, 64)
	v.buf = append(v.buf, ',')
	v.buf = strconv.AppendFloat(v.buf, r.CgMLST, 'f', 2, 64)
	v.buf = append(v.buf, '\n')
	v.Passed++
	_, err := v.passed.bw.Write(v.buf)
	return err
}

func (v *Validation) WriteFailed(r FailedRow) error {
	v.buf = v.buf[:0]
	v.buf = append(v.buf, r.Sample...)
	v.buf = append(v.buf, ',')
	v.buf = append(v.buf, r.OldST...)
	v.buf = append(v.buf, ',')
	v.buf = append(v.buf, r.NewST...)
	for _, gene := range v.genes {
		v.buf = append(v.buf, ',')
		if c, ok := r.Old[gene]; ok {
			v.buf = append(v.buf, c.String()...)
		}
		v.buf = append(v.buf, ',')
		if c, ok := r.New[gene]; ok {
			v.buf = append(v.buf, c.String()...)
		}
	}
	v.buf = append(v.buf, '\n')
	v.Failed++
	_, err := v.failed.bw.Write(v.buf)
	return err
}

func (v *Validation) Close() error {
	err := v.passed.Close()
	if ferr := v.failed.Close(); err == nil {
		err = ferr
	}
	return err
}

// WriteCounts writes a sample_name,count table.
func WriteCounts(path string, counts []sample.Count) error {
	c, err := createCSV(path, "sample_name,count\n")
	if err != nil {
		return err
	}
	var buf []byte
	for _, count := range counts {
		buf = buf[:0]
		buf = append(buf, count.Name...)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(count.Value), 10)
		buf = append(buf, '\n')
		c.bw.Write(buf)
	}
	return c.Close()
}

// WriteMatrix writes m with a header row of identifiers and one row per
// identifier. Empty cells are left blank.
func WriteMatrix(w io.Writer, m *matrix.Matrix) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, id := range m.IDs {
		buf = append(buf, ',')
		buf = append(buf, id...)
	}
	buf = append(buf, '\n')
	bw.Write(buf)

	for i, id := range m.IDs {
		buf = append(buf[:0], id...)
		for j := range m.IDs {
			buf = append(buf, ',')
			if c := m.At(i, j); c.Valid {
				buf = strconv.AppendInt(buf, int64(c.Value), 10)
			}
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return errors.Wrap(bw.Flush(), "report: matrix")
}

// WriteMatrixFile writes m to path.
func WriteMatrixFile(path string, m *matrix.Matrix) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "report")
	}
	if err := WriteMatrix(file, m); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
