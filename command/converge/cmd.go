package converge

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/command"
	"github.com/jasentool/jasentool/fohm"
)

var cmd = &command.Command{
	UsageLine: "converge --catalogue fohm.xlsx [--output-dir dir]",
	Short:     "convert the FoHM mutation catalogue to csv",
	Long: `
Converge reads the Mutation_catalogue sheet of the FoHM tuberculosis
mutation catalogue, rewrites each variant in HGVS notation (Ser450Leu
becomes p.Ser450Leu, c15t becomes c.15C>T) and writes fohm.csv with gene,
hgvs and fill colour columns appended.

--catalogue   Path to the FoHM xlsx catalogue
--output-dir  Directory to write fohm.csv to (default: ./)
	`,
}

var (
	catalogue string
	outputDir string
)

func init() {
	cmd.Run = run
	cmd.Flag.StringVar(&catalogue, "catalogue", "", "Path to the FoHM xlsx catalogue")
	cmd.Flag.StringVar(&outputDir, "output-dir", ".", "Directory to write fohm.csv to")

	command.Register(cmd)
}

func run(cmd *command.Command, args []string) error {
	if catalogue == "" {
		return command.UsageError("jasentool: --catalogue is required")
	}
	path, err := Run(catalogue, outputDir)
	if err != nil {
		return err
	}
	log.Printf("catalogue written to %s", path)
	return nil
}

// Run converts catalogue into dir/fohm.csv and returns the written path.
func Run(catalogue, dir string) (string, error) {
	c, err := fohm.Read(catalogue)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrap(err, "converge")
	}
	path := filepath.Join(dir, fohm.FileName)
	return path, c.WriteFile(path)
}
