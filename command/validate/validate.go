package validate

import (
	"context"
	"io"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/allele"
	"github.com/jasentool/jasentool/command"
	"github.com/jasentool/jasentool/config"
	"github.com/jasentool/jasentool/console"
	"github.com/jasentool/jasentool/matrix"
	"github.com/jasentool/jasentool/report"
	"github.com/jasentool/jasentool/sample"
	"github.com/jasentool/jasentool/store"
)

const (
	barplotFile        = "null_alleles_barplot.png"
	sampleBoxplotFile  = "sample_null_boxplot.png"
	missingBoxplotFile = "n_missing_loci_boxplot.png"
	missingCSVFile     = "n_missing_loci_above_threshold.csv"
	matrixCSVFile      = "cgviz_vs_jasen.csv"
	heatmapFile        = "cgviz_vs_jasen_heatmap.png"
)

type Options struct {
	Files    []string
	Output   command.Output
	Database config.Database
	Params   config.Validate
	// Progress, if set, receives the matrix progress bars.
	Progress io.Writer
}

// input is a result file loaded once and shared by every stage of the run.
type input struct {
	path   string
	result *sample.Result
	cgmlst *sample.CgMLST
}

// Run compares every result file against its record in s. Output must be
// prepared and Params must carry defaults.
func Run(ctx context.Context, s store.Store, opts Options) (*report.Summary, error) {
	inputs := make([]input, 0, len(opts.Files))
	counts := sample.NewNullCounts()
	for _, path := range opts.Files {
		r, err := sample.Load(path)
		if err != nil {
			return nil, err
		}
		cg, err := r.CgMLST()
		if err != nil {
			return nil, errors.Wrap(err, path)
		}
		if !counts.Add(sample.IDFromPath(path), cg) {
			console.Warnf("%s: sample %s was already loaded, skipped", path, sample.IDFromPath(path))
			continue
		}
		inputs = append(inputs, input{path: path, result: r, cgmlst: cg})
	}

	if err := writeAggregates(opts.Output.Folder(), opts.Params, counts); err != nil {
		return nil, err
	}

	if opts.Params.GenerateMatrix {
		if err := writeMatrix(ctx, s, inputs, opts); err != nil {
			return nil, err
		}
	}

	summary := &report.Summary{MeanNulls: counts.Mean()}
	var w *report.Validation
	for _, in := range inputs {
		if w == nil {
			var err error
			if w, err = report.NewValidation(opts.Output.Base(in.result.SampleName), opts.Params.MLSTGenes); err != nil {
				return nil, err
			}
		}
		if err := compareSample(ctx, s, in, opts, w, summary); err != nil {
			w.Close()
			return nil, err
		}
		if !opts.Output.Combined {
			if err := w.Close(); err != nil {
				return nil, err
			}
			w = nil
		}
	}
	if w != nil {
		if err := w.Close(); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func writeAggregates(folder string, params config.Validate, counts *sample.NullCounts) error {
	console.Printf("The average number of missing alleles per sample is %.2f", counts.Mean())

	nulls := sample.Series(counts.Samples, counts.Order)
	missing := sample.Series(counts.MissingLoci, counts.Order)

	charts := []struct {
		file string
		draw func(path string) error
	}{
		{sampleBoxplotFile, func(path string) error {
			return report.BoxPlot(path, "Null allele count", "Number of null alleles per sample", nulls, -1)
		}},
		{missingBoxplotFile, func(path string) error {
			return report.BoxPlot(path, "No. missing loci", "Number missing loci per sample", missing, params.MissingThreshold)
		}},
		{barplotFile, func(path string) error {
			return report.BarChart(path, "Null Allele Count Bar Plot", "Alleles", "Count", sample.AtLeast(counts.Loci, params.NullFilter))
		}},
	}
	for _, chart := range charts {
		err := chart.draw(filepath.Join(folder, chart.file))
		if err == report.ErrNoData {
			console.Warnf("%s: nothing to plot, skipped", chart.file)
			continue
		}
		if err != nil {
			return err
		}
	}

	return report.WriteCounts(filepath.Join(folder, missingCSVFile), sample.Above(missing, params.MissingThreshold))
}

// oldAlleles resolves cgMLST vectors from the store. Samples without a
// QC-passed record are absent.
func oldAlleles(s store.Store) matrix.Accessor {
	return func(ctx context.Context, id string) ([]allele.Call, bool, error) {
		rec, err := store.LoadRecord(ctx, s, id)
		if errors.Cause(err) == store.ErrNotFound {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if rec.Alleles.Len() == 0 {
			return nil, false, nil
		}
		return rec.Alleles.Calls, true, nil
	}
}

func newAlleles(inputs []input) matrix.Accessor {
	byName := make(map[string][]allele.Call, len(inputs))
	for _, in := range inputs {
		byName[in.result.SampleName] = in.cgmlst.Alleles.Calls
	}
	return func(ctx context.Context, id string) ([]allele.Call, bool, error) {
		calls, ok := byName[id]
		return calls, ok, nil
	}
}

func writeMatrix(ctx context.Context, s store.Store, inputs []input, opts Options) error {
	ids := make([]string, len(inputs))
	for i, in := range inputs {
		ids[i] = in.result.SampleName
	}

	_, _, diff, err := matrix.Compare(ctx, ids, oldAlleles(s), newAlleles(inputs), matrix.Options{
		Mode:       matrix.Matches,
		NumThreads: opts.Params.NumThreads,
		Progress:   opts.Progress,
	})
	if err != nil {
		return err
	}

	folder := opts.Output.Folder()
	if err := report.WriteMatrixFile(filepath.Join(folder, matrixCSVFile), diff); err != nil {
		return err
	}
	err = report.Heatmap(filepath.Join(folder, heatmapFile), "cgviz vs jasen (jasen - cgviz)", diff)
	if err == report.ErrNoData {
		console.Warnf("%s: no comparable samples, skipped", heatmapFile)
		return nil
	}
	return err
}

func compareSample(ctx context.Context, s store.Store, in input, opts Options, w *report.Validation, summary *report.Summary) error {
	name, params := in.result.SampleName, opts.Params
	skip := func() error {
		summary.Add(report.SummaryRow{Sample: name, Outcome: report.Skipped})
		return nil
	}

	ok, err := store.Exists(ctx, s, name)
	if err != nil {
		return err
	}
	if !ok {
		console.Printf("The sample provided (%s) does not exist in the provided database (%s) or collection (%s).",
			name, opts.Database.Name, opts.Database.Collection)
		return skip()
	}

	rec, err := store.LoadRecord(ctx, s, name)
	if errors.Cause(err) == store.ErrNotFound {
		console.Printf("%s: no record passed QC, skipped", name)
		return skip()
	}
	if err != nil {
		return err
	}
	if rec.MLST == nil {
		console.Warnf("%s: the stored record has no mlst result, skipped", name)
		return skip()
	}

	pvl, err := in.result.PVL()
	if err != nil {
		return err
	}
	mlst, err := in.result.MLST()
	if err != nil {
		return err
	}
	species, err := in.result.Species()
	if err != nil {
		return err
	}
	if species != params.Species {
		console.Warnf("This sample is not %s: %s (species prediction: %s)", params.Species, name, species)
	}

	oldST := sample.SequenceType(rec.MLST.SequenceType)
	newST := sample.SequenceType(mlst.SequenceType)
	if oldST != newST {
		summary.Add(report.SummaryRow{Sample: name, Outcome: report.Failed})
		return w.WriteFailed(report.FailedRow{
			Sample: name,
			OldST:  oldST,
			NewST:  newST,
			Old:    rec.MLST.Alleles,
			New:    mlst.Alleles,
		})
	}

	mlstCmp := allele.CompareGenes(rec.MLST.Alleles, mlst.Alleles)
	cgCmp, err := allele.Compare(rec.Alleles.Calls, in.cgmlst.Alleles.Calls)
	if errors.Cause(err) == allele.ErrLengthMismatch {
		console.Warnf("%s: cgmlst %v, skipped", name, err)
		return skip()
	}
	if err != nil {
		return err
	}

	oldPVL := rec.Aribavir.LukSPV != nil && bool(rec.Aribavir.LukSPV.Present)
	summary.Add(report.SummaryRow{
		Sample:     name,
		Outcome:    report.Passed,
		MLST:       mlstCmp.MatchPercent(),
		CgMLST:     cgCmp.MatchPercent(),
		Unparsable: mlstCmp.Unparsable + cgCmp.Unparsable,
	})
	return w.WritePassed(report.Row{
		Sample:       name,
		PVL:          oldPVL == pvl,
		SequenceType: true,
		MLST:         mlstCmp.MatchPercent(),
		CgMLST:       cgCmp.MatchPercent(),
	})
}
