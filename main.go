package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/jasentool/jasentool/command"
	_ "github.com/jasentool/jasentool/command/converge"
	_ "github.com/jasentool/jasentool/command/find"
	_ "github.com/jasentool/jasentool/command/insert"
	_ "github.com/jasentool/jasentool/command/validate"
)

// version is set at compile time when built with the following command:
// go build -ldflags "-X main.version=$(git rev-parse --short HEAD)"
var version string
var versionFlag bool

var commands = command.Commands

func buildVersion() string {
	if version == "" {
		return "devel"
	}
	return version
}

func init() {
	flag.BoolVar(&versionFlag, "version", false, "")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	log.SetFlags(0)

	if versionFlag {
		log.Printf("jasentool %s", buildVersion())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		return
	}

	if args[0] == "help" {
		help(args[1:])
		return
	}

	for _, cmd := range commands {
		if cmd.Name() == args[0] {
			cmd.Flag.Usage = func() { cmd.Usage(nil) }
			cmd.Flag.Parse(args[1:])
			args = cmd.Flag.Args()
			if err := cmd.Run(cmd, args); err != nil {
				if _, ok := errors.Cause(err).(command.UsageError); ok {
					cmd.Usage(err)
				}
				log.Fatalf("jasentool %s: %v", cmd.Name(), err)
			}
			return
		}
	}

	log.Fatalf("jasentool: unknown subcommand %q\nRun 'jasentool help' for usage.\n", args[0])
}

var usageTemplate = `jasentool compares the results of the JASEN pipeline with the cgviz
database of the pipeline it replaces: MLST, cgMLST and PVL per sample,
null allele statistics and differential cgMLST matrices.

Usage:

	jasentool [--version] command [arguments]

The flags are:

	--version   print the build version and exit

The commands are:
{{range .}}
	{{.Name | printf "%-11s"}} {{.Short}}{{end}}

Use "jasentool help [command]" for more information about a command.
Database settings may also come from a jasentool.toml file, see --config.
`

var helpTemplate = `usage: jasentool {{.UsageLine}}

{{.Long | trim}}
`

// tmpl executes the given template text on data, writing the result to w.
func tmpl(w io.Writer, text string, data interface{}) {
	t := template.Must(template.New("root").Funcs(template.FuncMap{"trim": strings.TrimSpace}).Parse(text))
	err := t.Execute(w, data)
	if err != nil {
		panic(err)
	}
}

func printUsage(w io.Writer) {
	bw := bufio.NewWriter(w)
	tmpl(bw, usageTemplate, commands)
	bw.Flush()
}

func usage() {
	printUsage(os.Stderr)
}

// help implements the 'help' command.
func help(args []string) {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return
	}

	if len(args) != 1 {
		log.Fatal("usage: jasentool help command\n\nToo many arguments given.")
	}

	arg := args[0]

	for _, cmd := range commands {
		if cmd.Name() == arg {
			tmpl(os.Stdout, helpTemplate, cmd)
			return
		}
	}

	log.Fatalf("Unknown help topic %#q.  Run 'jasentool help'.\n", arg)
}
