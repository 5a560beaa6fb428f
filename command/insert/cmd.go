package insert

import (
	"context"

	"github.com/jasentool/jasentool/command"
)

var cmd = &command.Command{
	UsageLine: "insert (--input-dir dir | sample.json...) --db-name name --db-collection collection",
	Short:     "load sample documents into the database",
	Long: `
Insert reads JSON sample documents and adds each one to the database
collection under its id, or its sample_name when it has no id.

--input-dir      Directory of .json files to insert
--uri            Database uri (default: mongodb://localhost:27017/)
--db-name        Database name
--db-collection  Database collection
--config         Path to a jasentool.toml parameter file
	`,
}

var (
	database command.Database
	inputDir string
)

func init() {
	cmd.Run = run
	database.Register(&cmd.Flag)
	cmd.Flag.StringVar(&inputDir, "input-dir", "", "Directory of .json files to insert")

	command.Register(cmd)
}

func run(cmd *command.Command, args []string) error {
	c, err := database.Resolve()
	if err != nil {
		return err
	}
	files, err := command.InputFiles(inputDir, "*.json", args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	s, err := command.Open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	_, err = Run(ctx, s, files)
	return err
}
