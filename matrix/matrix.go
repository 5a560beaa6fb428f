// Package matrix builds identifier-indexed pairwise allele comparison
// matrices and their differential between two typing pipelines.
package matrix

import (
	"context"
	"io"
	"runtime"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jasentool/jasentool/allele"
	"github.com/jasentool/jasentool/console"
)

// Accessor resolves a sample to its allele vector. ok is false when the
// source has no usable data for the sample.
type Accessor func(ctx context.Context, id string) (calls []allele.Call, ok bool, err error)

// Mode selects the count stored in each cell.
type Mode int

const (
	Matches Mode = iota
	Mismatches
)

// Cell is a matrix entry. An invalid cell has no value, which is different
// from a zero count.
type Cell struct {
	Value int
	Valid bool
}

// Matrix is a square table indexed by sample identifier.
type Matrix struct {
	IDs   []string
	index map[string]int
	cells []Cell
}

// New returns an empty len(ids) x len(ids) matrix.
func New(ids []string) *Matrix {
	m := &Matrix{
		IDs:   ids,
		index: make(map[string]int, len(ids)),
		cells: make([]Cell, len(ids)*len(ids)),
	}
	for i, id := range ids {
		m.index[id] = i
	}
	return m
}

func (m *Matrix) Len() int { return len(m.IDs) }

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) Cell {
	return m.cells[i*len(m.IDs)+j]
}

// Set stores a valid value at row i, column j.
func (m *Matrix) Set(i, j, v int) {
	m.cells[i*len(m.IDs)+j] = Cell{Value: v, Valid: true}
}

// Get returns the cell for a pair of identifiers.
func (m *Matrix) Get(row, col string) (Cell, bool) {
	i, ok := m.index[row]
	if !ok {
		return Cell{}, false
	}
	j, ok := m.index[col]
	if !ok {
		return Cell{}, false
	}
	return m.At(i, j), true
}

// Options tunes Build.
type Options struct {
	Mode Mode
	// NumThreads bounds the rows computed at once (default: all CPUs).
	NumThreads int
	// Progress, if set, receives a progress bar.
	Progress io.Writer
	// Description labels log lines and the progress bar.
	Description string
}

// Build fetches every sample once through get and compares every pair.
// Cells involving a sample without data, or a pair of vectors that cannot be
// aligned, stay invalid.
func Build(ctx context.Context, ids []string, get Accessor, opts Options) (*Matrix, error) {
	m := New(ids)

	vectors := make([][]allele.Call, len(ids))
	available := make([]bool, len(ids))
	var held int
	for i, id := range ids {
		calls, ok, err := get(ctx, id)
		if err != nil {
			return nil, errors.Wrapf(err, "matrix: fetch %s", id)
		}
		if !ok {
			console.Printf("%s: no allele data for %s, its row and column are left empty", opts.Description, id)
			continue
		}
		vectors[i] = calls
		available[i] = true
		held += len(calls)
	}
	console.Printf("%s: holding %d allele calls for %d samples in memory", opts.Description, held, len(ids))

	numThreads := opts.NumThreads
	if numThreads < 1 {
		numThreads = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(ids),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(opts.Description),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numThreads)
	for i := range ids {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if available[i] {
				m.fillRow(i, vectors, available, opts.Mode)
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}

// fillRow only writes row i, so rows may be filled concurrently.
func (m *Matrix) fillRow(i int, vectors [][]allele.Call, available []bool, mode Mode) {
	for j := range vectors {
		if !available[j] {
			continue
		}
		c, err := allele.Compare(vectors[i], vectors[j])
		if err != nil {
			console.Warnf("%s vs %s: %v, cell left empty", m.IDs[i], m.IDs[j], err)
			continue
		}
		if mode == Mismatches {
			m.Set(i, j, c.Mismatches)
		} else {
			m.Set(i, j, c.Matches)
		}
	}
}

// Differential returns a - b cell by cell. A cell is invalid when it is
// invalid in either operand.
func Differential(a, b *Matrix) (*Matrix, error) {
	if len(a.IDs) != len(b.IDs) {
		return nil, errors.Errorf("matrix: cannot subtract %d samples from %d samples", len(b.IDs), len(a.IDs))
	}
	for i := range a.IDs {
		if a.IDs[i] != b.IDs[i] {
			return nil, errors.Errorf("matrix: sample order differs at %d (%s, %s)", i, a.IDs[i], b.IDs[i])
		}
	}

	d := New(a.IDs)
	for i := range d.cells {
		if a.cells[i].Valid && b.cells[i].Valid {
			d.cells[i] = Cell{Value: a.cells[i].Value - b.cells[i].Value, Valid: true}
		}
	}
	return d, nil
}

// Compare builds the matrix of each source over ids and returns them along
// with their differential (new - old).
func Compare(ctx context.Context, ids []string, oldSrc, newSrc Accessor, opts Options) (oldM, newM, diff *Matrix, err error) {
	o := opts
	o.Description = "cgviz"
	if oldM, err = Build(ctx, ids, oldSrc, o); err != nil {
		return nil, nil, nil, err
	}
	o.Description = "jasen"
	if newM, err = Build(ctx, ids, newSrc, o); err != nil {
		return nil, nil, nil, err
	}
	diff, err = Differential(newM, oldM)
	return oldM, newM, diff, err
}
