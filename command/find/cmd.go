package find

import (
	"context"
	"fmt"
	"strings"

	"github.com/jasentool/jasentool/command"
	"github.com/jasentool/jasentool/config"
)

var cmd = &command.Command{
	UsageLine: "find --query id[,id...] (--output-dir dir | --output-file file) --db-name name --db-collection collection",
	Short:     "export sample documents from the database",
	Long: `
Find looks up every queried sample id in the database collection and writes
the matching documents as JSON, one <prefix><id>.json per id, or a single
file with --combined-output or --output-file.

--query            Comma-separated sample ids, may be repeated
--output-dir       Directory to write <prefix><id>.json files to
--output-file      Path of a single output, implies --combined-output
--combined-output  Combine all of the outputs into one output
--prefix           Prefix for all output files (default: jasentool_results_)
--uri              Database uri (default: mongodb://localhost:27017/)
--db-name          Database name
--db-collection    Database collection
--config           Path to a jasentool.toml parameter file
	`,
}

var (
	database  command.Database
	output    command.Output
	queryFlag queries
)

func init() {
	cmd.Run = run
	database.Register(&cmd.Flag)
	output.Register(&cmd.Flag)
	cmd.Flag.Var(&queryFlag, "query", "Comma-separated sample ids")

	command.Register(cmd)
}

type queries []string

// String is the method to format the flag's value, part of the flag.Value interface.
func (q *queries) String() string {
	return fmt.Sprint(*q)
}

// Set appends every non-empty id of a comma-separated list, so the flag
// may be given more than once.
func (q *queries) Set(value string) error {
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			*q = append(*q, id)
		}
	}
	return nil
}

func run(cmd *command.Command, args []string) error {
	c, err := database.Resolve()
	if err != nil {
		return err
	}
	for _, arg := range args {
		queryFlag.Set(arg)
	}
	ids := []string(queryFlag)
	if len(ids) == 0 {
		return command.UsageError("jasentool: at least one --query id is required")
	}

	prefix := c.Validate.Prefix
	if prefix == "" {
		prefix = config.DefaultPrefix
	}
	if err := output.Prepare(prefix); err != nil {
		return err
	}

	ctx := context.Background()
	s, err := command.Open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	return Run(ctx, s, ids, output)
}
