package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	confirmFunc    = confirm         // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	db       *sqlx.DB
	examSvc  *exam.Service
	operator core.Operator
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, version...)")
	fmt.Fprintln(cli.out, "  catalog [-ordering FIELDS] - list the classes and subjects exams can be scheduled for")
	fmt.Fprintln(cli.out, "  schedule -plan FILE [-commit] [-yes] - build an exam schedule from a YAML plan, optionally commit it")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	catalogCmd := flag.NewFlagSet("catalog", flag.ContinueOnError)
	catalogCmd.SetOutput(cli.out)
	catalogOrdering := catalogCmd.String("ordering", "", "Comma-separated fields to sort by; prefix a field with - to sort descending.")

	scheduleCmd := flag.NewFlagSet("schedule", flag.ContinueOnError)
	scheduleCmd.SetOutput(cli.out)
	schedulePlan := scheduleCmd.String("plan", "", "Path to the YAML schedule plan.")
	scheduleCommit := scheduleCmd.Bool("commit", false, "Save the schedule as exams.")
	scheduleYes := scheduleCmd.Bool("yes", false, "Do not ask for confirmation before committing.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "catalog":
		if err := catalogCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.catalog(ctx, parseOrdering(*catalogOrdering))
	case "schedule":
		if err := scheduleCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *schedulePlan == "" {
			scheduleCmd.Usage()
			return errHelp
		}
		return cli.schedule(ctx, *schedulePlan, *scheduleCommit, *scheduleYes)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseOrdering(val string) []core.DBOrdering {
	orderings := make([]core.DBOrdering, 0)
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if field != "" {
			orderings = append(orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
	return orderings
}

// confirm asks a yes/no question on the terminal. Anything but y/yes is a no.
func confirm(question string) (bool, error) {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return false, errors.New("cannot ask for confirmation: stdin is not a terminal (use -yes)")
	}
	fmt.Print(question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = core.CleanString(answer, true /* lower */)
	return answer == "y" || answer == "yes", nil
}
