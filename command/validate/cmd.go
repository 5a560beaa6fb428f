package validate

import (
	"context"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"

	"github.com/jasentool/jasentool/command"
	"github.com/jasentool/jasentool/console"
	"github.com/jasentool/jasentool/sample"
)

var cmd = &command.Command{
	UsageLine: "validate (--input-dir dir | result.json...) (--output-dir dir | --output-file file) --db-name name --db-collection collection",
	Short:     "compare new pipeline results with the old pipeline database",
	Long: `
Validate compares JASEN <sample_id>_result.json files against the cgviz
records of the same samples: PVL presence, MLST sequence type, MLST allele
matches and cgMLST allele matches. Samples whose sequence types differ are
written to a separate _failed.csv with their raw MLST alleles.

Null allele bar and box plots and the n_missing_loci_above_threshold.csv are
written next to the outputs. With --generate-matrix, the pairwise cgMLST
match matrices of both pipelines are subtracted into cgviz_vs_jasen.csv and a
heatmap.

Given the --config flag, all other flags are optional overrides.

--input-dir        Directory of <sample_id>_result.json files
--output-dir       Directory to write <prefix><sample_id>.csv files to
--output-file      Path of a single output, implies --combined-output
--combined-output  Combine all of the outputs into one output
--generate-matrix  Write the cgviz vs jasen differential matrix
--prefix           Prefix for all output files (default: jasentool_results_)
--num-threads      Max number of CPUs that can be executing simultaneously (default: all)
--profile          Write a CPU profile to the output folder
--uri              Database uri (default: mongodb://localhost:27017/)
--db-name          Database name
--db-collection    Database collection
--config           Path to a jasentool.toml parameter file
--quiet            Only print warnings and errors
	`,
}

var (
	database       command.Database
	output         command.Output
	inputDir       string
	generateMatrix bool
	numThreads     int
	profileFlag    bool
	quiet          bool
)

func init() {
	cmd.Run = run
	database.Register(&cmd.Flag)
	output.Register(&cmd.Flag)
	cmd.Flag.StringVar(&inputDir, "input-dir", "", "Directory of <sample_id>_result.json files")
	cmd.Flag.BoolVar(&generateMatrix, "generate-matrix", false, "Write the cgviz vs jasen differential matrix")
	cmd.Flag.IntVar(&numThreads, "num-threads", -1, "Max number of CPUs that can be executing simultaneously")
	cmd.Flag.BoolVar(&profileFlag, "profile", false, "Write a CPU profile to the output folder")
	cmd.Flag.BoolVar(&quiet, "quiet", false, "Only print warnings and errors")

	command.Register(cmd)
}

func run(cmd *command.Command, args []string) error {
	t0 := time.Now()
	defer func() {
		log.Println("validate finished in", time.Since(t0))
	}()

	c, err := database.Resolve()
	if err != nil {
		return err
	}
	files, err := command.InputFiles(inputDir, "*"+sample.ResultSuffix, args)
	if err != nil {
		return err
	}

	params := c.Validate
	if numThreads > 0 {
		params.NumThreads = numThreads
	}
	params.GenerateMatrix = params.GenerateMatrix || generateMatrix
	output.Combined = output.Combined || params.CombinedOutput
	if output.Prefix == "" {
		output.Prefix = params.Prefix
	}
	params.Defaults()
	if err := output.Prepare(params.Prefix); err != nil {
		return err
	}
	runtime.GOMAXPROCS(params.NumThreads)

	if profileFlag {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(output.Folder()), profile.NoShutdownHook).Stop()
	}
	console.SetQuiet(quiet)

	ctx := context.Background()
	s, err := command.Open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := Run(ctx, s, Options{
		Files:    files,
		Output:   output,
		Database: c.Database,
		Params:   params,
		Progress: os.Stderr,
	})
	if err != nil {
		return err
	}
	summary.Render(os.Stdout)
	return nil
}
